package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/rogpeppe/go-internal/testscript"

	"github.com/gogpu/gifanim"
	"github.com/gogpu/gifanim/internal/giftest"
)

var (
	update = flag.Bool("update", false, "update tests")
	keep   = flag.Bool("keep", false, "keep $WORK directory after tests")
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"gifanim": Main,
		"mkgif":   mkgif,
	}))
}

func TestScripts(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir:           filepath.Join("testdata"),
		UpdateScripts: *update,
		TestWork:      *keep,
	})
}

// fixtures are the GIFs mkgif can write.
var fixtures = map[string]func() giftest.GIF{
	// redblue is a looping 4x4 red frame for 100ms followed by a blue 2x2
	// square for 200ms.
	"redblue": func() giftest.GIF {
		f0 := giftest.Solid(0, 0, 4, 4, 0)
		f0.DelayCS = 10
		f1 := giftest.Solid(1, 1, 2, 2, 1)
		f1.DelayCS = 20
		f1.Disposal = 2
		return giftest.GIF{
			Width: 4, Height: 4, LoopCount: 0,
			Global:  [][3]byte{giftest.Red, giftest.Blue},
			Comment: "hello",
			Frames:  []giftest.Frame{f0, f1},
		}
	},
	// holes is a single 2x2 frame with a transparent pixel and no loop
	// extension.
	"holes": func() giftest.GIF {
		f := giftest.Solid(0, 0, 2, 2, 0)
		f.Indices = []byte{0, 1, 0, 0}
		f.Transparent = 1
		return giftest.GIF{
			Version: "87a", Width: 2, Height: 2, LoopCount: -1,
			Global: [][3]byte{giftest.Green, giftest.Black},
			Frames: []giftest.Frame{f},
		}
	},
	// nopalette has a frame but no colour table to draw it with.
	"nopalette": func() giftest.GIF {
		return giftest.GIF{
			Width: 1, Height: 1, LoopCount: -1,
			Frames: []giftest.Frame{giftest.Solid(0, 0, 1, 1, 0)},
		}
	},
}

// mkgif writes a fixture GIF: mkgif KIND FILE.
func mkgif() int {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: mkgif KIND FILE")
		return 2
	}
	fix, ok := fixtures[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "mkgif: unknown kind %q\n", os.Args[1])
		return 2
	}
	if err := os.WriteFile(os.Args[2], fix().Bytes(), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func TestReloader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anim.gif")
	if err := os.WriteFile(path, fixtures["redblue"]().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	a := &app{cache: gifanim.NewFrameCache(), log: gifanim.Logger()}
	r := &reloader{app: a, out: &out, files: map[string]string{path: path}}
	if err := r.load(path); err != nil {
		t.Fatalf("load() error = %v", err)
	}
	first := a.cache.Keys()

	if err := os.WriteFile(path, fixtures["holes"]().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	r.handle(ctx, fsnotify.Event{Name: path, Op: fsnotify.Write})

	keys := a.cache.Keys()
	if len(keys) != 1 {
		t.Fatalf("cache holds %d entries after reload, want 1", len(keys))
	}
	if keys[0] == first[0] {
		t.Error("reload kept the stale entry")
	}
	if got := a.cache.Stats().Decodes; got != 2 {
		t.Errorf("Decodes = %d, want 2", got)
	}

	// Events for other files are ignored.
	r.handle(ctx, fsnotify.Event{Name: filepath.Join(dir, "other.gif"), Op: fsnotify.Write})
	if got := a.cache.Stats().Decodes; got != 2 {
		t.Errorf("unwatched event decoded: Decodes = %d, want 2", got)
	}

	r.handle(ctx, fsnotify.Event{Name: path, Op: fsnotify.Remove})
	if a.cache.Len() != 0 {
		t.Errorf("cache holds %d entries after remove, want 0", a.cache.Len())
	}
	if !strings.Contains(out.String(), "removed "+path) {
		t.Errorf("output missing removal:\n%s", out.String())
	}
	if n := strings.Count(out.String(), "loaded "); n != 2 {
		t.Errorf("output has %d loads, want 2:\n%s", n, out.String())
	}
}
