package gifanim

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/gogpu/gifanim/internal/container"
)

// HasSignature reports whether b starts with a GIF87a or GIF89a signature.
func HasSignature(b []byte) bool {
	return len(b) >= 6 &&
		(bytes.Equal(b[:6], []byte(container.Signature87a)) ||
			bytes.Equal(b[:6], []byte(container.Signature89a)))
}

// IsGIF reports whether name in fsys looks like a GIF. A ".gif" extension,
// in any case, is trusted without opening the file; any other name is
// checked by reading its first six bytes.
func IsGIF(fsys fs.FS, name string) bool {
	if strings.EqualFold(path.Ext(name), ".gif") {
		return true
	}
	f, err := fsys.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	var hdr [6]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return false
	}
	return HasSignature(hdr[:])
}
