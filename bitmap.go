package gifanim

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Bitmap is one composited frame: width*height pixels of 8-bit
// non-premultiplied RGBA, rows top to bottom.
//
// A Bitmap is shared by every consumer of a cache entry and must not be
// modified.
type Bitmap struct {
	width  int
	height int
	data   []uint8
}

func newBitmap(width, height int, data []uint8) *Bitmap {
	return &Bitmap{width: width, height: height, data: data}
}

// Width returns the width of the bitmap.
func (b *Bitmap) Width() int {
	return b.width
}

// Height returns the height of the bitmap.
func (b *Bitmap) Height() int {
	return b.height
}

// Pix returns the raw pixel data, 4 bytes per pixel in R, G, B, A order.
// The slice is shared and must be treated as read-only.
func (b *Bitmap) Pix() []uint8 {
	return b.data
}

// NRGBAAt returns the pixel at (x, y), or transparent black outside the
// bitmap.
func (b *Bitmap) NRGBAAt(x, y int) color.NRGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.NRGBA{}
	}
	i := (y*b.width + x) * 4
	return color.NRGBA{R: b.data[i+0], G: b.data[i+1], B: b.data[i+2], A: b.data[i+3]}
}

// ToImage copies the bitmap into a new image.NRGBA.
func (b *Bitmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// EncodePNG writes the bitmap to w as a PNG image.
func (b *Bitmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, b.ToImage())
}

// SavePNG saves the bitmap to a PNG file.
func (b *Bitmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (b *Bitmap) At(x, y int) color.Color {
	return b.NRGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Bitmap) ColorModel() color.Model {
	return color.NRGBAModel
}
