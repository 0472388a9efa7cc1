package gifanim

import (
	"fmt"
	"time"
)

// State is the playback state of a Player.
type State uint8

const (
	// Stopped is the initial state, and the state after Stop.
	Stopped State = iota
	// Playing advances frames on Tick.
	Playing
	// Paused keeps the current frame and elapsed time.
	Paused
	// Finished is reached when a non-looping player passes its last frame.
	// It stays on the last frame.
	Finished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Player is the playback position over a sequence of frames.
//
// The frames are referenced, not copied, so any number of players can share
// one cache entry. A Player is not safe for concurrent use.
type Player struct {
	frames  []Frame
	index   int
	elapsed time.Duration
	state   State
	loop    bool
}

// NewPlayer returns a stopped, looping player positioned on the first
// frame.
func NewPlayer(frames []Frame) (*Player, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("new player: %w", ErrNoValidFrames)
	}
	return &Player{frames: frames, loop: true}, nil
}

// Tick advances playback by dt and reports whether the current frame
// changed. It does nothing unless the player is Playing; negative dt is
// ignored.
//
// Several frames may be skipped in one call when dt exceeds their delays.
// A non-looping player that runs past its last frame stays on it and
// becomes Finished.
func (p *Player) Tick(dt time.Duration) bool {
	if p.state != Playing || dt <= 0 {
		return false
	}
	start := p.index
	p.elapsed += dt

	for {
		d := p.delay(p.index)
		if p.elapsed < d {
			break
		}
		p.elapsed -= d
		if p.index+1 < len(p.frames) {
			p.index++
			continue
		}
		if !p.loop {
			p.elapsed = 0
			p.state = Finished
			break
		}
		p.index = 0
		// Skip whole passes in one step.
		if total := p.total(); p.elapsed >= total {
			p.elapsed %= total
		}
	}
	return p.index != start
}

// delay returns the delay of frame i; non-positive delays play for
// DefaultDelay so playback always makes progress.
func (p *Player) delay(i int) time.Duration {
	if d := p.frames[i].Delay; d > 0 {
		return d
	}
	return DefaultDelay
}

func (p *Player) total() time.Duration {
	var t time.Duration
	for i := range p.frames {
		t += p.delay(i)
	}
	return t
}

// Play starts or resumes playback. A Finished player restarts from the
// first frame.
func (p *Player) Play() {
	if p.state == Finished {
		p.index = 0
		p.elapsed = 0
	}
	p.state = Playing
}

// Pause stops advancing without losing the position. It has no effect
// unless the player is Playing.
func (p *Player) Pause() {
	if p.state == Playing {
		p.state = Paused
	}
}

// Stop halts playback and rewinds to the first frame.
func (p *Player) Stop() {
	p.state = Stopped
	p.index = 0
	p.elapsed = 0
}

// SetLoop sets whether playback wraps from the last frame to the first.
func (p *Player) SetLoop(loop bool) {
	p.loop = loop
}

// SetFrame jumps to frame i and restarts its timer. It reports false and
// changes nothing when i is out of range.
func (p *Player) SetFrame(i int) bool {
	if i < 0 || i >= len(p.frames) {
		return false
	}
	p.index = i
	p.elapsed = 0
	return true
}

// Index returns the current frame index.
func (p *Player) Index() int { return p.index }

// Frame returns the current frame.
func (p *Player) Frame() Frame { return p.frames[p.index] }

// Len returns the number of frames.
func (p *Player) Len() int { return len(p.frames) }

// State returns the playback state.
func (p *Player) State() State { return p.state }

// Playing reports whether the player is in the Playing state.
func (p *Player) Playing() bool { return p.state == Playing }

// Looping reports whether playback wraps around.
func (p *Player) Looping() bool { return p.loop }

// Elapsed returns the time spent on the current frame.
func (p *Player) Elapsed() time.Duration { return p.elapsed }
