package container

import (
	"errors"
	"io"
)

// errShortBlock reports that the underlying data ended inside a sub-block
// sequence, as opposed to the LZW stream itself being malformed.
var errShortBlock = errors.New("gif: data sub-block cut short")

// blockReader flattens a GIF data sub-block sequence, (n, n bytes)... 0,
// into a plain byte stream. It returns io.EOF at the zero-length
// terminator, so the LZW decoder never sees the framing.
type blockReader struct {
	r    Reader
	buf  [255]byte
	next int
	end  int
	err  error
}

func newBlockReader(r Reader) *blockReader {
	return &blockReader{r: r}
}

func (b *blockReader) fill() bool {
	if b.err != nil {
		return false
	}
	n, err := b.r.ReadByte()
	if err != nil {
		b.err = errShortBlock
		return false
	}
	if n == 0 {
		b.err = io.EOF
		return false
	}
	if err := readFull(b.r, b.buf[:n]); err != nil {
		b.err = errShortBlock
		return false
	}
	b.next, b.end = 0, int(n)
	return true
}

func (b *blockReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.next >= b.end && !b.fill() {
		return 0, b.err
	}
	n := copy(p, b.buf[b.next:b.end])
	b.next += n
	return n, nil
}

// ReadByte lets compress/lzw read directly without adding its own
// buffering on top of the sub-blocks.
func (b *blockReader) ReadByte() (byte, error) {
	if b.next >= b.end && !b.fill() {
		return 0, b.err
	}
	c := b.buf[b.next]
	b.next++
	return c, nil
}

// drain consumes the remaining sub-blocks up to and including the
// terminator.
func (b *blockReader) drain() error {
	for b.fill() {
	}
	if b.err == io.EOF {
		return nil
	}
	return b.err
}

// skipSubBlocks discards a sub-block sequence, returning io.ErrUnexpectedEOF
// if the data ends before the terminator.
func skipSubBlocks(r Reader) error {
	var buf [255]byte
	for {
		n, err := r.ReadByte()
		if err != nil {
			return io.ErrUnexpectedEOF
		}
		if n == 0 {
			return nil
		}
		if err := readFull(r, buf[:n]); err != nil {
			return err
		}
	}
}

// readSubBlocks collects a sub-block sequence into one slice.
func readSubBlocks(r Reader) ([]byte, error) {
	var out []byte
	var buf [255]byte
	for {
		n, err := r.ReadByte()
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		if n == 0 {
			return out, nil
		}
		if err := readFull(r, buf[:n]); err != nil {
			return nil, err
		}
		out = append(out, buf[:n]...)
	}
}
