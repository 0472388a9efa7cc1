package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/gogpu/gifanim"
)

func (a *app) playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "play a GIF on a simulated clock and print each frame change",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "tick", Usage: "clock step"},
			&cli.DurationFlag{Name: "duration", Usage: "total play time (default one pass)"},
			&cli.BoolFlag{Name: "no-loop", Usage: "stop on the last frame"},
		},
		Action: a.play,
	}
}

// frameSink prints the frames pushed by a Sprite.
type frameSink struct {
	w     io.Writer
	now   time.Duration
	index map[*gifanim.Bitmap]int
}

func (s *frameSink) SetBitmap(f gifanim.Frame) {
	fmt.Fprintf(s.w, "%8v frame %d (%v)\n", s.now, s.index[f.Bitmap], f.Delay)
}

func (a *app) play(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	e, err := a.decodeFile(cmd.Args().First())
	if err != nil {
		return err
	}

	tick := a.cfg.Play.Tick.Duration
	if cmd.IsSet("tick") || tick == 0 {
		tick = cmd.Duration("tick")
	}
	if tick == 0 {
		tick = 10 * time.Millisecond
	}
	if tick < 0 {
		return errors.New("play: tick must be positive")
	}
	total := cmd.Duration("duration")
	if total <= 0 {
		total = e.Duration()
	}

	sink := &frameSink{w: cmd.Root().Writer, index: make(map[*gifanim.Bitmap]int, e.Len())}
	for i, f := range e.Frames {
		sink.index[f.Bitmap] = i
	}
	s, err := gifanim.NewSprite(e, sink)
	if err != nil {
		return err
	}
	p := s.Player()
	p.SetLoop(!cmd.Bool("no-loop"))
	p.Play()

	for sink.now < total && p.State() == gifanim.Playing {
		if err := ctx.Err(); err != nil {
			return err
		}
		sink.now += tick
		s.Update(tick)
	}
	fmt.Fprintf(cmd.Root().Writer, "%8v %v on frame %d\n", sink.now, p.State(), p.Index())
	return nil
}
