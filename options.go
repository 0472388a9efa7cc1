package gifanim

import "time"

// DecodeOption configures Decode and the decodes performed by a FrameCache.
//
// Example:
//
//	anim, err := gifanim.Decode(data,
//	    gifanim.WithDefaultDelay(50*time.Millisecond),
//	    gifanim.WithMaxCanvasPixels(4096*4096))
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	defaultDelay time.Duration
	maxPixels    int
}

func defaultDecodeOptions() decodeOptions {
	return decodeOptions{defaultDelay: DefaultDelay}
}

func applyDecodeOptions(opts []DecodeOption) decodeOptions {
	o := defaultDecodeOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDefaultDelay sets the delay given to frames that record a delay of
// zero. Non-positive values keep DefaultDelay.
func WithDefaultDelay(d time.Duration) DecodeOption {
	return func(o *decodeOptions) {
		if d > 0 {
			o.defaultDelay = d
		}
	}
}

// WithMaxCanvasPixels rejects animations whose logical screen has more
// than n pixels with ErrInvalidDimensions. Zero, the default, means no
// limit.
func WithMaxCanvasPixels(n int) DecodeOption {
	return func(o *decodeOptions) {
		o.maxPixels = max(n, 0)
	}
}

// CacheOption configures a FrameCache during creation.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	capacity int
	decode   []DecodeOption
}

// WithCapacity bounds each of the cache's 16 shards to n entries, evicting
// the least recently used one when full. Zero, the default, keeps every
// entry until Remove or Purge.
func WithCapacity(n int) CacheOption {
	return func(o *cacheOptions) {
		o.capacity = max(n, 0)
	}
}

// WithDecodeOptions sets the options used for every decode the cache
// performs.
func WithDecodeOptions(opts ...DecodeOption) CacheOption {
	return func(o *cacheOptions) {
		o.decode = append(o.decode, opts...)
	}
}
