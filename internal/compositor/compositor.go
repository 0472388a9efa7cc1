// Package compositor replays GIF disposal semantics over a fixed canvas and
// produces one fully composited RGBA bitmap per frame.
//
// For frame i the compositor applies the disposal recorded on the last
// drawn frame, snapshots the canvas if frame i will itself restore to
// previous, draws frame i and emits a copy of the whole canvas.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gifanim/internal/container"
)

// DefaultDelay replaces a recorded delay of zero.
const DefaultDelay = 100 * time.Millisecond

// ErrNoValidFrames is returned when no frame could be composited.
var ErrNoValidFrames = errors.New("gif: no valid frames")

// Options configures Composite.
type Options struct {
	// DefaultDelay replaces zero delays. Zero means DefaultDelay.
	DefaultDelay time.Duration

	// MaxPixels rejects canvases with more pixels. Zero means no limit.
	MaxPixels int
}

// Frame is a composited canvas and its display duration.
type Frame struct {
	// Pix holds Width*Height*4 bytes of non-premultiplied RGBA.
	Pix   []byte
	Delay time.Duration

	// Source is the index of the raw frame this was produced from.
	Source int
}

// Result is the outcome of compositing a container.
type Result struct {
	Width, Height int
	Frames        []Frame

	// Dropped lists raw frames that had no palette to draw with.
	Dropped []int

	// SkippedPixels counts pixels whose index was outside the palette.
	SkippedPixels int

	// HasTransparency reports whether any emitted frame has a fully
	// transparent pixel.
	HasTransparency bool
}

// pending is the disposal owed by the last drawn frame.
type pending struct {
	disposal container.Disposal
	rect     image.Rectangle
}

// Composite composites every frame of c in order.
func Composite(c *container.Container, opts Options) (*Result, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", container.ErrInvalidDimensions, c.Width, c.Height)
	}
	if opts.MaxPixels > 0 && c.Width*c.Height > opts.MaxPixels {
		return nil, fmt.Errorf("%w: canvas %dx%d exceeds %d pixels",
			container.ErrInvalidDimensions, c.Width, c.Height, opts.MaxPixels)
	}
	defaultDelay := opts.DefaultDelay
	if defaultDelay <= 0 {
		defaultDelay = DefaultDelay
	}

	cv := newCanvas(c.Width, c.Height)
	res := &Result{Width: c.Width, Height: c.Height}
	var last *pending

	for i := range c.Frames {
		f := &c.Frames[i]
		pal := f.Palette
		if pal == nil {
			pal = c.Global
		}
		if pal == nil {
			slogger().Debug("gif: dropping frame without palette", "frame", i)
			res.Dropped = append(res.Dropped, i)
			continue
		}

		if last != nil {
			switch last.disposal {
			case container.ClearToBackground:
				cv.clear(last.rect)
			case container.RestorePrevious:
				cv.restore()
			}
		}
		// prev is only ever read by a RestorePrevious of this frame.
		if f.Disposal == container.RestorePrevious {
			cv.snapshot()
		}

		if n := cv.draw(f, pal); n > 0 {
			slogger().Debug("gif: skipped out-of-palette pixels", "frame", i, "pixels", n, "palette", len(pal))
			res.SkippedPixels += n
		}

		pix := make([]byte, len(cv.cur))
		copy(pix, cv.cur)
		if !res.HasTransparency && hasTransparency(pix) {
			res.HasTransparency = true
		}
		res.Frames = append(res.Frames, Frame{
			Pix:    pix,
			Delay:  delay(f.DelayCS, defaultDelay),
			Source: i,
		})
		last = &pending{disposal: f.Disposal, rect: cv.frameRect(f)}
	}

	if len(res.Frames) == 0 {
		return nil, fmt.Errorf("%w: %d frames, %d dropped", ErrNoValidFrames, len(c.Frames), len(res.Dropped))
	}
	return res, nil
}

// delay converts hundredths of a second, normalising zero to def.
func delay(cs int, def time.Duration) time.Duration {
	if cs == 0 {
		return def
	}
	return time.Duration(cs) * 10 * time.Millisecond
}
