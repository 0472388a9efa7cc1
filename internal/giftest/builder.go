// Package giftest builds GIF byte streams for tests.
//
// Unlike image/gif's encoder it can produce interlaced images, frames
// without any palette, out-of-range indices, unknown extensions and other
// inputs a tolerant decoder has to cope with.
package giftest

import (
	"bytes"
	"compress/lzw"
	"encoding/binary"
)

// Common colours.
var (
	Red   = [3]byte{0xff, 0, 0}
	Green = [3]byte{0, 0xff, 0}
	Blue  = [3]byte{0, 0, 0xff}
	White = [3]byte{0xff, 0xff, 0xff}
	Black = [3]byte{0, 0, 0}
)

// Frame describes one image block.
type Frame struct {
	Left, Top, Width, Height int

	// Palette is written as a local colour table when non-nil. It is
	// padded with black to a power of two.
	Palette [][3]byte

	// Indices holds Width*Height indices in logical row order. Interlaced
	// frames are reordered when written.
	Indices []byte

	Interlaced bool

	// Graphics control. NoControl omits the block entirely.
	NoControl   bool
	Disposal    byte
	Transparent int // -1 for none
	DelayCS     int
}

// GIF describes a whole file.
type GIF struct {
	Version       string // defaults to "89a"
	Width, Height int
	Global        [][3]byte
	LoopCount     int // -1 omits the NETSCAPE2.0 extension
	Comment       string
	Frames        []Frame

	// Extra is written verbatim after the application extension.
	Extra []byte

	// NoTrailer omits the trailing 0x3B.
	NoTrailer bool
}

// Solid returns a w×h frame at (x, y) filled with index idx.
func Solid(x, y, w, h int, idx byte) Frame {
	ind := make([]byte, w*h)
	for i := range ind {
		ind[i] = idx
	}
	return Frame{Left: x, Top: y, Width: w, Height: h, Indices: ind, Transparent: -1}
}

// UnknownExtension returns an extension block with the given label and
// one data sub-block.
func UnknownExtension(label byte, data []byte) []byte {
	b := []byte{0x21, label, byte(len(data))}
	b = append(b, data...)
	return append(b, 0)
}

// Bytes encodes g. It panics on invalid input, which is a bug in the test.
func (g GIF) Bytes() []byte {
	var buf bytes.Buffer
	v := g.Version
	if v == "" {
		v = "89a"
	}
	buf.WriteString("GIF" + v)
	writeU16(&buf, g.Width)
	writeU16(&buf, g.Height)
	var flags byte
	var gct []byte
	if g.Global != nil {
		bits, table := colorTable(g.Global)
		flags = 0x80 | 0x70 | bits
		gct = table
	}
	buf.WriteByte(flags)
	buf.WriteByte(0) // background
	buf.WriteByte(0) // aspect
	buf.Write(gct)

	if g.LoopCount >= 0 {
		buf.Write([]byte{0x21, 0xff, 11})
		buf.WriteString("NETSCAPE2.0")
		buf.Write([]byte{3, 1, byte(g.LoopCount), byte(g.LoopCount >> 8), 0})
	}
	buf.Write(g.Extra)
	if g.Comment != "" {
		buf.Write([]byte{0x21, 0xfe})
		writeSubBlocks(&buf, []byte(g.Comment))
	}

	for _, f := range g.Frames {
		writeFrame(&buf, f, len(g.Global))
	}
	if !g.NoTrailer {
		buf.WriteByte(0x3b)
	}
	return buf.Bytes()
}

func writeFrame(buf *bytes.Buffer, f Frame, globalLen int) {
	if !f.NoControl {
		var packed byte
		packed = (f.Disposal & 7) << 2
		tr := byte(0)
		if f.Transparent >= 0 {
			packed |= 1
			tr = byte(f.Transparent)
		}
		buf.Write([]byte{0x21, 0xf9, 4, packed, byte(f.DelayCS), byte(f.DelayCS >> 8), tr, 0})
	}

	buf.WriteByte(0x2c)
	writeU16(buf, f.Left)
	writeU16(buf, f.Top)
	writeU16(buf, f.Width)
	writeU16(buf, f.Height)
	var flags byte
	var lct []byte
	paletteLen := globalLen
	if f.Palette != nil {
		bits, table := colorTable(f.Palette)
		flags |= 0x80 | bits
		lct = table
		paletteLen = len(table) / 3
	}
	if f.Interlaced {
		flags |= 0x40
	}
	buf.WriteByte(flags)
	buf.Write(lct)

	indices := f.Indices
	if f.Interlaced {
		indices = Interlace(indices, f.Width, f.Height)
	}
	litWidth := 2
	for (1<<litWidth) < paletteLen || (1<<litWidth) <= int(maxByte(indices)) {
		litWidth++
	}
	buf.WriteByte(byte(litWidth))

	var comp bytes.Buffer
	w := lzw.NewWriter(&comp, lzw.LSB, litWidth)
	if _, err := w.Write(indices); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	writeSubBlocks(buf, comp.Bytes())
}

// Interlace reorders logical rows into the four-pass recording order.
func Interlace(indices []byte, width, height int) []byte {
	out := make([]byte, 0, len(indices))
	for _, pass := range []struct{ start, step int }{{0, 8}, {4, 8}, {2, 4}, {1, 2}} {
		for y := pass.start; y < height; y += pass.step {
			out = append(out, indices[y*width:(y+1)*width]...)
		}
	}
	return out
}

func colorTable(pal [][3]byte) (bits byte, table []byte) {
	n := 2
	for n < len(pal) {
		n <<= 1
	}
	for 1<<(bits+1) < n {
		bits++
	}
	table = make([]byte, 3*n)
	for i, c := range pal {
		copy(table[3*i:], c[:])
	}
	return bits, table
}

func writeSubBlocks(buf *bytes.Buffer, data []byte) {
	for len(data) > 0 {
		n := min(len(data), 255)
		buf.WriteByte(byte(n))
		buf.Write(data[:n])
		data = data[n:]
	}
	buf.WriteByte(0)
}

func writeU16(buf *bytes.Buffer, v int) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

func maxByte(b []byte) byte {
	var m byte
	for _, v := range b {
		m = max(m, v)
	}
	return m
}
