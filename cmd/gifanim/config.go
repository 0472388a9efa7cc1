package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/gifanim"
)

// config is the optional TOML configuration file. Command line flags take
// precedence over it.
//
//	log_level = "debug"
//	log_format = "json"
//	default_delay = "50ms"
//	max_pixels = 16777216
//	cache_capacity = 0
//
//	[export]
//	out = "frames"
//	scale = 2.0
//
//	[play]
//	tick = "16ms"
type config struct {
	LogLevel      string   `toml:"log_level"`
	LogFormat     string   `toml:"log_format"`
	DefaultDelay  duration `toml:"default_delay"`
	MaxPixels     int      `toml:"max_pixels"`
	CacheCapacity int      `toml:"cache_capacity"`

	Export struct {
		Out   string  `toml:"out"`
		Scale float64 `toml:"scale"`
	} `toml:"export"`

	Play struct {
		Tick duration `toml:"tick"`
	} `toml:"play"`
}

// duration is a time.Duration written as a Go duration string.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	md, err := toml.Decode(string(b), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) != 0 {
		return cfg, fmt.Errorf("config %s: unknown keys %v", path, undec)
	}
	return cfg, nil
}

func (c config) cacheOptions() []gifanim.CacheOption {
	return []gifanim.CacheOption{
		gifanim.WithCapacity(c.CacheCapacity),
		gifanim.WithDecodeOptions(
			gifanim.WithDefaultDelay(c.DefaultDelay.Duration),
			gifanim.WithMaxCanvasPixels(c.MaxPixels),
		),
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelWarn, nil
	}
	err := level.UnmarshalText([]byte(s))
	return level, err
}
