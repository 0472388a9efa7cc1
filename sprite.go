package gifanim

import "time"

// Sink receives the frame to present. A host typically uploads the bitmap
// to a texture.
type Sink interface {
	SetBitmap(f Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f Frame)

// SetBitmap calls fn(f).
func (fn SinkFunc) SetBitmap(f Frame) { fn(f) }

// Sprite binds a cache entry, a Player and a Sink: whenever playback moves
// to another frame, the new bitmap is pushed to the sink.
type Sprite struct {
	entry  *Entry
	player *Player
	sink   Sink
}

// NewSprite creates a sprite for e and immediately pushes the first frame
// to sink. The sprite's player starts Stopped; call Player().Play().
func NewSprite(e *Entry, sink Sink) (*Sprite, error) {
	p, err := NewPlayer(e.Frames)
	if err != nil {
		return nil, err
	}
	s := &Sprite{entry: e, player: p, sink: sink}
	s.push()
	return s, nil
}

// Update advances playback by dt and pushes the current bitmap if the
// frame changed. It reports whether a bitmap was pushed.
func (s *Sprite) Update(dt time.Duration) bool {
	if !s.player.Tick(dt) {
		return false
	}
	s.push()
	return true
}

// SetFrame jumps to frame i and pushes it. It reports false for an index
// out of range.
func (s *Sprite) SetFrame(i int) bool {
	if !s.player.SetFrame(i) {
		return false
	}
	s.push()
	return true
}

// Stop rewinds to the first frame and pushes it.
func (s *Sprite) Stop() {
	s.player.Stop()
	s.push()
}

// Player returns the sprite's playback state.
func (s *Sprite) Player() *Player { return s.player }

// Entry returns the cache entry the sprite plays.
func (s *Sprite) Entry() *Entry { return s.entry }

func (s *Sprite) push() {
	s.sink.SetBitmap(s.player.Frame())
}
