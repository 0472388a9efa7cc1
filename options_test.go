package gifanim

import (
	"testing"
	"time"
)

func TestDecodeOptionsDefaults(t *testing.T) {
	o := applyDecodeOptions(nil)
	if o.defaultDelay != DefaultDelay {
		t.Errorf("defaultDelay = %v, want %v", o.defaultDelay, DefaultDelay)
	}
	if o.maxPixels != 0 {
		t.Errorf("maxPixels = %d, want 0", o.maxPixels)
	}
}

func TestDecodeOptionsIgnoreInvalid(t *testing.T) {
	o := applyDecodeOptions([]DecodeOption{
		WithDefaultDelay(-time.Second),
		WithDefaultDelay(0),
		WithMaxCanvasPixels(-10),
	})
	if o.defaultDelay != DefaultDelay {
		t.Errorf("defaultDelay = %v, want %v", o.defaultDelay, DefaultDelay)
	}
	if o.maxPixels != 0 {
		t.Errorf("maxPixels = %d, want 0", o.maxPixels)
	}
}

func TestCacheOptions(t *testing.T) {
	var o cacheOptions
	for _, opt := range []CacheOption{
		WithCapacity(-1),
		WithDecodeOptions(WithDefaultDelay(time.Second)),
		WithDecodeOptions(WithMaxCanvasPixels(9)),
	} {
		opt(&o)
	}
	if o.capacity != 0 {
		t.Errorf("capacity = %d, want 0", o.capacity)
	}
	d := applyDecodeOptions(o.decode)
	if d.defaultDelay != time.Second || d.maxPixels != 9 {
		t.Errorf("decode options = %+v, want 1s delay and 9 pixels", d)
	}
}
