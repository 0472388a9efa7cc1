package container

import (
	"bytes"
	"compress/lzw"
	"errors"
	"fmt"
	"io"
)

// Section indicators.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B
)

// Extension labels.
const (
	eText           = 0x01
	eGraphicControl = 0xF9
	eComment        = 0xFE
	eApplication    = 0xFF
)

// Masks.
const (
	fColorTable     = 1 << 7
	fColorTableSize = 7
	ifInterlace     = 1 << 6

	gcTransparentColorSet = 1 << 0
	gcDisposalMethod      = 7 << 2
)

// maxPrealloc caps the raster buffer allocated before any pixel has been
// decoded, so a lying image descriptor cannot force a huge allocation.
const maxPrealloc = 1 << 20

// graphicControl is a pending graphics control block. It applies to the
// next image only.
type graphicControl struct {
	disposal    Disposal
	transparent int
	delayCS     int
}

type parser struct {
	r      Reader
	c      *Container
	gc     *graphicControl
	images int // image blocks seen, including dropped ones

	tmp [768]byte
}

// ParseBytes parses an in-memory GIF.
func ParseBytes(data []byte) (*Container, error) {
	return Parse(NewCursor(data))
}

// Parse reads a complete GIF from r.
//
// Unknown extensions and images with corrupt compressed data are skipped
// and logged. Structural failures return an error wrapping one of
// ErrMalformedHeader, ErrTruncatedData, ErrInvalidDimensions or
// ErrUnsupportedFeature.
func Parse(r Reader) (*Container, error) {
	p := &parser{
		r: r,
		c: &Container{LoopCount: -1},
	}
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	if err := p.readBlocks(); err != nil {
		return nil, err
	}
	return p.c, nil
}

func (p *parser) truncated(what string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrTruncatedData, what, p.r.Offset())
}

func (p *parser) readHeader() error {
	sig := p.tmp[:6]
	if _, err := io.ReadFull(p.r, sig); err != nil {
		return fmt.Errorf("%w: only %d bytes", ErrMalformedHeader, p.r.Offset())
	}
	p.c.Version = string(sig)
	if p.c.Version != Signature87a && p.c.Version != Signature89a {
		return fmt.Errorf("%w: signature %q", ErrMalformedHeader, sig)
	}

	lsd := p.tmp[:7]
	if err := readFull(p.r, lsd); err != nil {
		return p.truncated("logical screen descriptor")
	}
	p.c.Width = le16(lsd[0:2])
	p.c.Height = le16(lsd[2:4])
	if p.c.Width == 0 || p.c.Height == 0 {
		return fmt.Errorf("%w: logical screen %dx%d", ErrInvalidDimensions, p.c.Width, p.c.Height)
	}
	flags := lsd[4]
	p.c.BackgroundIndex = int(lsd[5])

	if flags&fColorTable != 0 {
		pal, err := p.readPalette(int(flags & fColorTableSize))
		if err != nil {
			return err
		}
		p.c.Global = pal
	}
	return nil
}

// readPalette reads a colour table of 2^(sizeBits+1) entries.
func (p *parser) readPalette(sizeBits int) (Palette, error) {
	n := 1 << (sizeBits + 1)
	buf := p.tmp[:3*n]
	if err := readFull(p.r, buf); err != nil {
		return nil, p.truncated("colour table")
	}
	pal := make(Palette, n)
	for i := range pal {
		pal[i] = RGB{R: buf[3*i], G: buf[3*i+1], B: buf[3*i+2]}
	}
	return pal, nil
}

func (p *parser) readBlocks() error {
	for {
		off := p.r.Offset()
		c, err := p.r.ReadByte()
		if err != nil {
			if p.images > 0 {
				slogger().Debug("gif: missing trailer", "offset", off)
				return nil
			}
			return p.truncated("block introducer")
		}

		switch c {
		case sTrailer:
			return nil
		case sExtension:
			if err := p.readExtension(); err != nil {
				return err
			}
		case sImageDescriptor:
			if err := p.readImage(); err != nil {
				return err
			}
		default:
			// Without a length there is no way to step over an unknown
			// block, so anything after it is lost.
			err := fmt.Errorf("%w: block type 0x%02x at offset %d", ErrUnsupportedFeature, c, off)
			if p.images == 0 {
				return err
			}
			slogger().Warn("gif: ignoring data after unknown block", "err", err, "images", p.images)
			return nil
		}
	}
}

func (p *parser) readExtension() error {
	off := p.r.Offset() - 1
	label, err := p.r.ReadByte()
	if err != nil {
		return p.truncated("extension label")
	}

	switch label {
	case eGraphicControl:
		return p.readGraphicControl()
	case eApplication:
		return p.readApplication()
	case eComment:
		b, err := readSubBlocks(p.r)
		if err != nil {
			return p.truncated("comment extension")
		}
		p.c.Comments = append(p.c.Comments, string(b))
		return nil
	case eText:
		// A plain text block is a graphic rendering block of its own and
		// consumes any pending graphics control.
		p.gc = nil
		if err := skipSubBlocks(p.r); err != nil {
			return p.truncated("plain text extension")
		}
		return nil
	default:
		slogger().Debug("gif: skipping extension",
			"err", fmt.Errorf("%w: extension 0x%02x at offset %d", ErrUnsupportedFeature, label, off))
		if err := skipSubBlocks(p.r); err != nil {
			return p.truncated("extension")
		}
		return nil
	}
}

func (p *parser) readGraphicControl() error {
	data, err := readSubBlocks(p.r)
	if err != nil {
		return p.truncated("graphic control extension")
	}
	if len(data) < 4 {
		slogger().Debug("gif: ignoring short graphic control", "size", len(data), "offset", p.r.Offset())
		p.gc = nil
		return nil
	}
	flags := data[0]
	gc := &graphicControl{
		disposal:    disposalFromCode((flags & gcDisposalMethod) >> 2),
		transparent: NoTransparency,
		delayCS:     le16(data[1:3]),
	}
	if flags&gcTransparentColorSet != 0 {
		gc.transparent = int(data[3])
	}
	p.gc = gc
	return nil
}

func (p *parser) readApplication() error {
	n, err := p.r.ReadByte()
	if err != nil {
		return p.truncated("application extension")
	}
	if n == 0 {
		return nil
	}
	id := p.tmp[:n]
	if err := readFull(p.r, id); err != nil {
		return p.truncated("application identifier")
	}
	if s := string(id); s != "NETSCAPE2.0" && s != "ANIMEXTS1.0" {
		if err := skipSubBlocks(p.r); err != nil {
			return p.truncated("application extension")
		}
		return nil
	}
	data, err := readSubBlocks(p.r)
	if err != nil {
		return p.truncated("application extension")
	}
	if len(data) >= 3 && data[0] == 1 {
		p.c.LoopCount = le16(data[1:3])
	}
	return nil
}

func (p *parser) readImage() error {
	off := p.r.Offset() - 1
	d := p.tmp[:9]
	if err := readFull(p.r, d); err != nil {
		return p.truncated("image descriptor")
	}
	f := Frame{
		Left:        le16(d[0:2]),
		Top:         le16(d[2:4]),
		Width:       le16(d[4:6]),
		Height:      le16(d[6:8]),
		Interlaced:  d[8]&ifInterlace != 0,
		Transparent: NoTransparency,
	}
	if d[8]&fColorTable != 0 {
		pal, err := p.readPalette(int(d[8] & fColorTableSize))
		if err != nil {
			return err
		}
		f.Palette = pal
	}
	if gc := p.gc; gc != nil {
		f.Disposal = gc.disposal
		f.Transparent = gc.transparent
		f.DelayCS = gc.delayCS
		p.gc = nil
	}

	index := p.images
	p.images++

	indices, err := p.readPixels(f.Width * f.Height)
	if err != nil {
		if errors.Is(err, ErrCorruptData) {
			slogger().Debug("gif: dropping image", "image", index, "offset", off, "err", err)
			return nil
		}
		return err
	}
	f.Indices = indices
	p.c.Frames = append(p.c.Frames, f)
	return nil
}

// readPixels decompresses n palette indices. Trailing data beyond n
// pixels is discarded.
func (p *parser) readPixels(n int) ([]byte, error) {
	litWidth, err := p.r.ReadByte()
	if err != nil {
		return nil, p.truncated("LZW minimum code size")
	}
	br := newBlockReader(p.r)
	if litWidth < 2 || litWidth > 8 {
		if err := br.drain(); err != nil {
			return nil, p.truncated("image data")
		}
		return nil, fmt.Errorf("%w: LZW code size %d", ErrCorruptData, litWidth)
	}

	lr := lzw.NewReader(br, lzw.LSB, int(litWidth))
	defer lr.Close()

	buf := bytes.NewBuffer(make([]byte, 0, min(n, maxPrealloc)))
	got, err := io.CopyN(buf, lr, int64(n))
	if br.err == errShortBlock {
		return nil, p.truncated("image data")
	}
	if derr := br.drain(); derr != nil {
		return nil, p.truncated("image data")
	}
	if got < int64(n) {
		return nil, fmt.Errorf("%w: %d of %d pixels: %v", ErrCorruptData, got, n, err)
	}
	return buf.Bytes(), nil
}
