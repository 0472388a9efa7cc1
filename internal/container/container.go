// Package container parses GIF87a/GIF89a data into raw frame records.
//
// The parser does no compositing: each Frame holds the image rectangle,
// palette reference, control metadata and the decompressed palette indices
// in the order they were recorded (interlaced rows are not reordered).
package container

// Signatures accepted by the parser.
const (
	Signature87a = "GIF87a"
	Signature89a = "GIF89a"
)

// NoTransparency is the Frame.Transparent value of a frame without a
// transparent colour index.
const NoTransparency = -1

// Disposal says what happens to a frame's area before the next frame is
// drawn.
type Disposal uint8

const (
	// DoNotDispose leaves the frame in place.
	DoNotDispose Disposal = iota
	// ClearToBackground clears the frame rectangle to transparent.
	ClearToBackground
	// RestorePrevious restores the canvas to its state before the frame.
	RestorePrevious
)

// String implements fmt.Stringer.
func (d Disposal) String() string {
	switch d {
	case DoNotDispose:
		return "none"
	case ClearToBackground:
		return "background"
	case RestorePrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// disposalFromCode maps the 3-bit graphics control disposal field.
// Unspecified (0) and the reserved codes 4-7 behave as DoNotDispose.
func disposalFromCode(code byte) Disposal {
	switch code {
	case 2:
		return ClearToBackground
	case 3:
		return RestorePrevious
	default:
		return DoNotDispose
	}
}

// RGB is a palette entry.
type RGB struct {
	R, G, B uint8
}

// Palette is an indexed colour table of at most 256 entries. Its length is
// the number of addressable indices.
type Palette []RGB

// Frame is one image block with the graphics control data that preceded it.
type Frame struct {
	// Image rectangle within the logical screen.
	Left, Top, Width, Height int

	Interlaced bool

	// Palette is the local colour table, or nil to use the global one.
	Palette Palette

	// Indices holds Width*Height palette indices in recording order.
	Indices []byte

	Disposal Disposal

	// Transparent is the transparent index or NoTransparency.
	Transparent int

	// DelayCS is the display delay in hundredths of a second.
	DelayCS int
}

// Container is a parsed GIF.
type Container struct {
	// Version is the 6-byte signature, GIF87a or GIF89a.
	Version string

	// Logical screen dimensions.
	Width, Height int

	// Global is the global colour table, nil when absent.
	Global Palette

	BackgroundIndex int

	// LoopCount is the NETSCAPE2.0 loop count: 0 loops forever, -1 means
	// the extension was absent.
	LoopCount int

	Comments []string

	Frames []Frame
}
