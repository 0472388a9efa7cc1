package compositor

import (
	"image"

	"github.com/gogpu/gifanim/internal/container"
)

// interlacing lists the row offset and stride of each interlace pass.
var interlacing = [...]struct{ start, step int }{
	{0, 8},
	{4, 8},
	{2, 4},
	{1, 2},
}

var progressive = [...]struct{ start, step int }{{0, 1}}

// canvas is the logical screen being composited. Both buffers hold
// width*height RGBA pixels; every access is bounds checked against the
// rectangle clamped in frameRect.
type canvas struct {
	width, height int
	cur           []byte
	prev          []byte
}

func newCanvas(width, height int) *canvas {
	n := width * height * 4
	return &canvas{
		width:  width,
		height: height,
		cur:    make([]byte, n),
		prev:   make([]byte, n),
	}
}

func (c *canvas) bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// frameRect returns the frame rectangle clamped to the canvas.
func (c *canvas) frameRect(f *container.Frame) image.Rectangle {
	r := image.Rect(f.Left, f.Top, f.Left+f.Width, f.Top+f.Height)
	return r.Intersect(c.bounds())
}

// clear sets r to fully transparent.
func (c *canvas) clear(r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.cur[(y*c.width+r.Min.X)*4 : (y*c.width+r.Max.X)*4]
		clear(row)
	}
}

func (c *canvas) snapshot() { copy(c.prev, c.cur) }

func (c *canvas) restore() { copy(c.cur, c.prev) }

// draw paints f using pal and returns the number of pixels skipped because
// their index was outside the palette.
func (c *canvas) draw(f *container.Frame, pal container.Palette) (skipped int) {
	passes := progressive[:]
	if f.Interlaced {
		passes = interlacing[:]
	}
	dst := c.frameRect(f)
	if dst.Empty() {
		return 0
	}

	src := 0
	for _, pass := range passes {
		for row := pass.start; row < f.Height; row += pass.step {
			line := src
			src += f.Width
			y := f.Top + row
			if y >= dst.Max.Y {
				continue
			}
			for col := 0; col < f.Width; col++ {
				x := f.Left + col
				if x >= dst.Max.X {
					break
				}
				if line+col >= len(f.Indices) {
					skipped++
					continue
				}
				idx := int(f.Indices[line+col])
				if idx == f.Transparent {
					continue
				}
				if idx >= len(pal) {
					skipped++
					continue
				}
				p := pal[idx]
				i := (y*c.width + x) * 4
				c.cur[i+0] = p.R
				c.cur[i+1] = p.G
				c.cur[i+2] = p.B
				c.cur[i+3] = 0xff
			}
		}
	}
	return skipped
}

// hasTransparency reports whether any pixel of pix is fully transparent.
func hasTransparency(pix []byte) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] == 0 {
			return true
		}
	}
	return false
}
