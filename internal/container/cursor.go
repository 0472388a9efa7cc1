package container

import (
	"encoding/binary"
	"io"
)

// Reader is the sequential-read cursor the parser consumes. It decouples
// parsing from where the bytes live.
type Reader interface {
	io.Reader
	io.ByteReader

	// Offset returns the number of bytes consumed so far.
	Offset() int64
}

// Cursor is a Reader over an in-memory buffer.
type Cursor struct {
	data []byte
	off  int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

func (c *Cursor) Read(p []byte) (int, error) {
	if c.off >= len(c.data) {
		return 0, io.EOF
	}
	n := copy(p, c.data[c.off:])
	c.off += n
	return n, nil
}

func (c *Cursor) ReadByte() (byte, error) {
	if c.off >= len(c.data) {
		return 0, io.EOF
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

// Offset implements Reader.
func (c *Cursor) Offset() int64 { return int64(c.off) }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.data) - c.off }

// readFull reads exactly len(buf) bytes, reporting a short read as
// io.ErrUnexpectedEOF even when nothing could be read.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func le16(b []byte) int {
	return int(binary.LittleEndian.Uint16(b))
}
