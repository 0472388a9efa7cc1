package container

import "errors"

// Decode errors. Callers match them with errors.Is; the parser wraps them
// with the byte offset at which the problem was found.
var (
	// ErrMalformedHeader is returned when the data does not start with
	// GIF87a or GIF89a.
	ErrMalformedHeader = errors.New("gif: malformed header")

	// ErrTruncatedData is returned when the data ends before a declared
	// block completes.
	ErrTruncatedData = errors.New("gif: truncated data")

	// ErrUnsupportedFeature marks a block the parser does not understand.
	// Unknown extensions are skipped; only an unknown block before any
	// image is fatal.
	ErrUnsupportedFeature = errors.New("gif: unsupported feature")

	// ErrInvalidDimensions is returned for a zero-sized logical screen.
	ErrInvalidDimensions = errors.New("gif: invalid dimensions")

	// ErrCorruptData marks an image whose compressed pixel data cannot be
	// decoded. The image is dropped and parsing continues.
	ErrCorruptData = errors.New("gif: corrupt image data")
)
