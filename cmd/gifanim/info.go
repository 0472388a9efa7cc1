package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/gogpu/gifanim"
)

func (a *app) infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "describe GIF files",
		ArgsUsage: "FILE...",
		Action:    a.info,
	}
}

func (a *app) info(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	w := cmd.Root().Writer
	for _, path := range cmd.Args().Slice() {
		e, err := a.decodeFile(path)
		if err != nil {
			return err
		}
		writeInfo(w, e)
	}
	if n := a.cache.Len(); n > 1 {
		s := a.cache.Stats()
		fmt.Fprintf(w, "%s entries, %s decodes, %s hits\n",
			humanize.Comma(int64(n)), humanize.Comma(int64(s.Decodes)), humanize.Comma(int64(s.Hits)))
	}
	return nil
}

func writeInfo(w io.Writer, e *gifanim.Entry) {
	delays := make([]string, len(e.Frames))
	for i, f := range e.Frames {
		delays[i] = f.Delay.String()
	}
	fmt.Fprintf(w, "%s\n", e.Key)
	fmt.Fprintf(w, "  canvas:       %dx%d\n", e.Width, e.Height)
	fmt.Fprintf(w, "  frames:       %d (%v)\n", e.Len(), e.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "  delays:       %s\n", strings.Join(delays, " "))
	fmt.Fprintf(w, "  loop:         %s\n", loopString(e.LoopCount))
	fmt.Fprintf(w, "  transparency: %t\n", e.HasTransparency)
	fmt.Fprintf(w, "  decoded size: %s\n", humanize.IBytes(uint64(e.Size())))
	for _, c := range e.Comments {
		fmt.Fprintf(w, "  comment:      %q\n", c)
	}
}

func loopString(n int) string {
	switch {
	case n < 0:
		return "once"
	case n == 0:
		return "forever"
	default:
		return fmt.Sprintf("%d repeats", n)
	}
}
