package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/image/draw"

	"github.com/gogpu/gifanim"
)

func (a *app) exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write every composited frame as a PNG",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "output `DIR`"},
			&cli.FloatFlag{Name: "scale", Usage: "nearest-neighbour scale `FACTOR`"},
		},
		Action: a.export,
	}
}

func (a *app) export(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	out := a.cfg.Export.Out
	if cmd.IsSet("out") || out == "" {
		out = cmd.String("out")
	}
	if out == "" {
		out = "."
	}
	scale := a.cfg.Export.Scale
	if cmd.IsSet("scale") || scale == 0 {
		scale = cmd.Float("scale")
	}
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return errors.New("export: scale must be positive")
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	for _, path := range cmd.Args().Slice() {
		e, err := a.decodeFile(path)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		var written int64
		for i, f := range e.Frames {
			name := filepath.Join(out, fmt.Sprintf("%s-%03d.png", base, i))
			n, err := writePNG(name, scaled(f.Bitmap, scale))
			if err != nil {
				return err
			}
			written += n
		}
		fmt.Fprintf(cmd.Root().Writer, "%s: wrote %d frames (%s) to %s\n",
			path, e.Len(), humanize.Bytes(uint64(written)), out)
	}
	return nil
}

// scaled returns b resized by factor with nearest-neighbour sampling, or b
// itself for a factor of 1.
func scaled(b *gifanim.Bitmap, factor float64) image.Image {
	if factor == 1 {
		return b.ToImage()
	}
	w := max(int(float64(b.Width())*factor+0.5), 1)
	h := max(int(float64(b.Height())*factor+0.5), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), b, b.Bounds(), draw.Src, nil)
	return dst
}

func writePNG(name string, img image.Image) (int64, error) {
	f, err := os.Create(name)
	if err != nil {
		return 0, err
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	fi, err := os.Stat(name)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
