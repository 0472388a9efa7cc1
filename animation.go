package gifanim

import (
	"time"

	"github.com/gogpu/gifanim/internal/compositor"
	"github.com/gogpu/gifanim/internal/container"
)

// DefaultDelay is the display time given to frames that record a delay of
// zero.
const DefaultDelay = compositor.DefaultDelay

// Frame is a composited frame and how long it stays on screen.
type Frame struct {
	Bitmap *Bitmap
	Delay  time.Duration
}

// Animation is a decoded GIF. It is immutable once returned.
type Animation struct {
	// Width and Height are the logical screen size shared by every bitmap.
	Width, Height int

	Frames []Frame

	// HasTransparency reports whether any frame has a fully transparent
	// pixel.
	HasTransparency bool

	// LoopCount is the NETSCAPE2.0 repeat count: 0 loops forever, -1 means
	// the file has no loop extension.
	LoopCount int

	// Comments holds the text of any comment extensions.
	Comments []string
}

// Len returns the number of frames.
func (a *Animation) Len() int { return len(a.Frames) }

// Duration returns the total display time of one pass over the frames.
func (a *Animation) Duration() time.Duration {
	var d time.Duration
	for _, f := range a.Frames {
		d += f.Delay
	}
	return d
}

// Size returns the number of bytes held by the frame bitmaps.
func (a *Animation) Size() int {
	return len(a.Frames) * a.Width * a.Height * 4
}

// Decode parses and composites a complete GIF byte stream.
//
// Recoverable problems (unknown extensions, frames with corrupt pixel data
// or without any palette, out-of-palette indices) are absorbed and logged
// at debug level. Decode fails with ErrNoValidFrames when nothing
// drawable remains.
func Decode(data []byte, opts ...DecodeOption) (*Animation, error) {
	o := applyDecodeOptions(opts)
	c, err := container.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return composite(c, o)
}

func composite(c *container.Container, o decodeOptions) (*Animation, error) {
	res, err := compositor.Composite(c, compositor.Options{
		DefaultDelay: o.defaultDelay,
		MaxPixels:    o.maxPixels,
	})
	if err != nil {
		return nil, err
	}

	a := &Animation{
		Width:           res.Width,
		Height:          res.Height,
		Frames:          make([]Frame, len(res.Frames)),
		HasTransparency: res.HasTransparency,
		LoopCount:       c.LoopCount,
		Comments:        c.Comments,
	}
	for i, f := range res.Frames {
		a.Frames[i] = Frame{
			Bitmap: newBitmap(res.Width, res.Height, f.Pix),
			Delay:  f.Delay,
		}
	}
	return a, nil
}
