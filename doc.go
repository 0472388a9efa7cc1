// Package gifanim decodes animated GIF files into fully composited RGBA
// frames and plays them back.
//
// # Overview
//
// Decoding runs in two stages. The container parser walks the GIF87a/89a
// block structure and produces raw indexed frames. The compositor then
// replays each frame's disposal method over a canvas the size of the
// logical screen and emits one complete bitmap per frame, so consumers
// never need to know about disposal, transparency or interlacing.
//
// # Quick Start
//
//	data, _ := os.ReadFile("spinner.gif")
//	anim, err := gifanim.Decode(data)
//	if err != nil {
//		return err
//	}
//	for i, f := range anim.Frames {
//		f.Bitmap.SavePNG(fmt.Sprintf("frame-%03d.png", i))
//	}
//
// # Caching
//
// A FrameCache decodes each distinct byte stream once and shares the
// result. Entries are keyed by a caller-chosen identity (usually the file
// name) together with the FNV-1a checksum of the bytes, so an edited file
// gets a new entry:
//
//	fc := gifanim.NewFrameCache()
//	entry, err := fc.GetOrDecode("spinner.gif", data)
//
// # Playback
//
// A Player holds per-instance playback state over shared frames. Drive it
// with the host's frame clock, or use a Sprite to push the current bitmap
// to a Sink whenever it changes:
//
//	s, _ := gifanim.NewSprite(entry, sink)
//	s.Player().Play()
//	// every tick:
//	s.Update(dt)
//
// Decoding and caching are safe for concurrent use. Players and sprites
// belong to a single goroutine.
package gifanim

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
