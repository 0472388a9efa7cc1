package container

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gifanim/internal/giftest"
)

func twoColour() [][3]byte {
	return [][3]byte{giftest.Red, giftest.Blue}
}

func TestParseSingleFrame(t *testing.T) {
	g := giftest.GIF{
		Width: 4, Height: 2, Global: twoColour(), LoopCount: -1,
		Frames: []giftest.Frame{func() giftest.Frame {
			f := giftest.Solid(0, 0, 4, 2, 1)
			f.DelayCS = 7
			return f
		}()},
	}
	c, err := ParseBytes(g.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	if c.Version != Signature89a {
		t.Errorf("Version = %q, want %q", c.Version, Signature89a)
	}
	if c.Width != 4 || c.Height != 2 {
		t.Errorf("screen = %dx%d, want 4x2", c.Width, c.Height)
	}
	if c.LoopCount != -1 {
		t.Errorf("LoopCount = %d, want -1", c.LoopCount)
	}
	want := Palette{{R: 0xff}, {B: 0xff}}
	if diff := cmp.Diff(want, c.Global); diff != "" {
		t.Errorf("global palette mismatch (-want +got):\n%s", diff)
	}
	if len(c.Frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(c.Frames))
	}
	wantFrame := Frame{
		Width: 4, Height: 2,
		Indices:     []byte{1, 1, 1, 1, 1, 1, 1, 1},
		Transparent: NoTransparency,
		DelayCS:     7,
	}
	if diff := cmp.Diff(wantFrame, c.Frames[0]); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestParseControlBlock(t *testing.T) {
	tests := []struct {
		name     string
		frame    giftest.Frame
		disposal Disposal
		trans    int
		delay    int
	}{
		{"absent", giftest.Frame{NoControl: true}, DoNotDispose, NoTransparency, 0},
		{"unspecified", giftest.Frame{Disposal: 0, Transparent: -1}, DoNotDispose, NoTransparency, 0},
		{"none", giftest.Frame{Disposal: 1, Transparent: -1, DelayCS: 10}, DoNotDispose, NoTransparency, 10},
		{"background", giftest.Frame{Disposal: 2, Transparent: 0, DelayCS: 20}, ClearToBackground, 0, 20},
		{"previous", giftest.Frame{Disposal: 3, Transparent: 1}, RestorePrevious, 1, 0},
		{"reserved", giftest.Frame{Disposal: 5, Transparent: -1}, DoNotDispose, NoTransparency, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.frame
			f.Width, f.Height = 2, 2
			f.Indices = []byte{0, 1, 1, 0}
			g := giftest.GIF{Width: 2, Height: 2, Global: twoColour(), LoopCount: -1, Frames: []giftest.Frame{f}}
			c, err := ParseBytes(g.Bytes())
			if err != nil {
				t.Fatalf("ParseBytes() error = %v", err)
			}
			got := c.Frames[0]
			if got.Disposal != tt.disposal {
				t.Errorf("Disposal = %v, want %v", got.Disposal, tt.disposal)
			}
			if got.Transparent != tt.trans {
				t.Errorf("Transparent = %d, want %d", got.Transparent, tt.trans)
			}
			if got.DelayCS != tt.delay {
				t.Errorf("DelayCS = %d, want %d", got.DelayCS, tt.delay)
			}
		})
	}
}

func TestParseLocalPaletteAndMetadata(t *testing.T) {
	f := giftest.Solid(1, 1, 2, 2, 2)
	f.Palette = [][3]byte{giftest.Black, giftest.White, giftest.Green}
	g := giftest.GIF{
		Version: "87a", Width: 4, Height: 4, LoopCount: 3, Comment: "hello",
		Frames: []giftest.Frame{f},
	}
	c, err := ParseBytes(g.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if c.Version != Signature87a {
		t.Errorf("Version = %q, want %q", c.Version, Signature87a)
	}
	if c.Global != nil {
		t.Errorf("Global = %v, want nil", c.Global)
	}
	if c.LoopCount != 3 {
		t.Errorf("LoopCount = %d, want 3", c.LoopCount)
	}
	if diff := cmp.Diff([]string{"hello"}, c.Comments); diff != "" {
		t.Errorf("comments mismatch (-want +got):\n%s", diff)
	}
	got := c.Frames[0]
	if len(got.Palette) != 4 {
		t.Errorf("local palette size = %d, want 4 (padded to a power of two)", len(got.Palette))
	}
	if got.Palette[2] != (RGB{G: 0xff}) {
		t.Errorf("Palette[2] = %v, want green", got.Palette[2])
	}
	if got.Left != 1 || got.Top != 1 {
		t.Errorf("origin = (%d,%d), want (1,1)", got.Left, got.Top)
	}
}

func TestParseInterlacedKeepsRecordingOrder(t *testing.T) {
	const w, h = 1, 10
	logical := make([]byte, w*h)
	for i := range logical {
		logical[i] = byte(i)
	}
	pal := make([][3]byte, 16)
	f := giftest.Frame{Width: w, Height: h, Indices: logical, Interlaced: true, Transparent: -1, Palette: pal}
	g := giftest.GIF{Width: w, Height: h, LoopCount: -1, Frames: []giftest.Frame{f}}

	c, err := ParseBytes(g.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	got := c.Frames[0]
	if !got.Interlaced {
		t.Error("Interlaced = false, want true")
	}
	want := []byte{0, 8, 4, 2, 6, 1, 3, 5, 7, 9}
	if diff := cmp.Diff(want, got.Indices); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSkipsUnknownExtension(t *testing.T) {
	g := giftest.GIF{
		Width: 2, Height: 1, Global: twoColour(), LoopCount: -1,
		Extra:  giftest.UnknownExtension(0x99, []byte("junk")),
		Frames: []giftest.Frame{giftest.Solid(0, 0, 2, 1, 0), giftest.Solid(0, 0, 2, 1, 1)},
	}
	c, err := ParseBytes(g.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if len(c.Frames) != 2 {
		t.Errorf("got %d frames, want 2", len(c.Frames))
	}
}

func TestParseMissingTrailer(t *testing.T) {
	g := giftest.GIF{
		Width: 2, Height: 1, Global: twoColour(), LoopCount: -1, NoTrailer: true,
		Frames: []giftest.Frame{giftest.Solid(0, 0, 2, 1, 0)},
	}
	c, err := ParseBytes(g.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if len(c.Frames) != 1 {
		t.Errorf("got %d frames, want 1", len(c.Frames))
	}
}

func TestParseUnknownBlockAfterImage(t *testing.T) {
	g := giftest.GIF{
		Width: 2, Height: 1, Global: twoColour(), LoopCount: -1, NoTrailer: true,
		Frames: []giftest.Frame{giftest.Solid(0, 0, 2, 1, 0)},
	}
	data := append(g.Bytes(), 0x42, 1, 2, 3)
	c, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if len(c.Frames) != 1 {
		t.Errorf("got %d frames, want 1", len(c.Frames))
	}
}

func TestParseErrors(t *testing.T) {
	valid := giftest.GIF{
		Width: 4, Height: 4, Global: twoColour(), LoopCount: -1,
		Frames: []giftest.Frame{giftest.Solid(0, 0, 4, 4, 1)},
	}.Bytes()

	// Offset of the first image descriptor: header, LSD, 2-entry GCT, GCE.
	const imageAt = 6 + 7 + 6 + 8

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrMalformedHeader},
		{"short", []byte("GIF8"), ErrMalformedHeader},
		{"png", []byte("\x89PNG\r\n\x1a\n0000000"), ErrMalformedHeader},
		{"version", []byte("GIF90a\x01\x00\x01\x00\x00\x00\x00;"), ErrMalformedHeader},
		{"no screen", []byte("GIF89a\x01\x00"), ErrTruncatedData},
		{"zero width", []byte("GIF89a\x00\x00\x01\x00\x00\x00\x00;"), ErrInvalidDimensions},
		{"zero height", []byte("GIF87a\x01\x00\x00\x00\x00\x00\x00;"), ErrInvalidDimensions},
		{"short palette", valid[:16], ErrTruncatedData},
		{"no blocks", valid[:19], ErrTruncatedData},
		{"short descriptor", valid[:imageAt+5], ErrTruncatedData},
		{"short image data", valid[:imageAt+12], ErrTruncatedData},
		{"no terminator", valid[:len(valid)-2], ErrTruncatedData},
		{"unknown block", append(append([]byte{}, valid[:19]...), 0x42), ErrUnsupportedFeature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseBytes() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseDropsCorruptImage(t *testing.T) {
	g := giftest.GIF{
		Width: 2, Height: 1, Global: twoColour(), LoopCount: -1,
		Frames: []giftest.Frame{giftest.Solid(0, 0, 2, 1, 1)},
	}
	bad := []byte{
		0x2c, 0, 0, 0, 0, 2, 0, 1, 0, 0, // descriptor 2x1, no local palette
		9,       // LZW code size out of range
		1, 0, 0, // one sub-block, terminator
	}
	data := g.Bytes()
	data = append(append(append([]byte{}, data[:len(data)-1]...), bad...), 0x3b)

	c, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if len(c.Frames) != 1 {
		t.Errorf("got %d frames, want 1 (corrupt image dropped)", len(c.Frames))
	}
}

func TestParseShortRasterDropsImage(t *testing.T) {
	// 2x2 image whose LZW stream holds a single pixel.
	head := giftest.GIF{Width: 2, Height: 2, Global: twoColour(), LoopCount: -1, NoTrailer: true}.Bytes()
	img := []byte{0x2c, 0, 0, 0, 0, 2, 0, 2, 0, 0, 2}
	// clear (4), literal 1, end (5) at 3 bits each, LSB first.
	img = append(img, 2, 0x4c, 0x01, 0)
	data := append(append(head, img...), 0x3b)

	c, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if len(c.Frames) != 0 {
		t.Errorf("got %d frames, want 0", len(c.Frames))
	}
}

func TestDisposalString(t *testing.T) {
	for d, want := range map[Disposal]string{
		DoNotDispose:      "none",
		ClearToBackground: "background",
		RestorePrevious:   "previous",
		Disposal(9):       "unknown",
	} {
		if got := d.String(); got != want {
			t.Errorf("Disposal(%d).String() = %q, want %q", d, got, want)
		}
	}
}

func TestCursor(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	b, err := c.ReadByte()
	if err != nil || b != 1 {
		t.Fatalf("ReadByte() = %d, %v, want 1, nil", b, err)
	}
	buf := make([]byte, 4)
	n, err := c.Read(buf)
	if n != 2 || err != nil {
		t.Errorf("Read() = %d, %v, want 2, nil", n, err)
	}
	if c.Offset() != 3 || c.Len() != 0 {
		t.Errorf("Offset() = %d, Len() = %d, want 3, 0", c.Offset(), c.Len())
	}
	if _, err := c.ReadByte(); err == nil {
		t.Error("ReadByte() at end should fail")
	}
}
