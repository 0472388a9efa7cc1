package gifanim

import (
	"errors"

	"github.com/gogpu/gifanim/internal/compositor"
	"github.com/gogpu/gifanim/internal/container"
)

// Errors returned by Decode, FrameCache and NewPlayer. Returned errors wrap
// these with context; match them with errors.Is.
var (
	ErrMalformedHeader    = container.ErrMalformedHeader
	ErrTruncatedData      = container.ErrTruncatedData
	ErrUnsupportedFeature = container.ErrUnsupportedFeature
	ErrInvalidDimensions  = container.ErrInvalidDimensions
	ErrCorruptData        = container.ErrCorruptData
	ErrNoValidFrames      = compositor.ErrNoValidFrames

	// ErrNotGIF is returned by FrameCache.Load for a file that is neither
	// named *.gif nor starts with a GIF signature.
	ErrNotGIF = errors.New("gif: not a GIF file")
)
