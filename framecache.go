package gifanim

import (
	"fmt"
	"hash/fnv"
	"io/fs"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/gifanim/cache"
)

// Key identifies a decoded byte stream: the caller's identity for it and
// the checksum of its contents.
type Key struct {
	// Identity is the caller-chosen name, normalised to Unicode NFC.
	Identity string

	// Checksum is the FNV-1a 32-bit hash of the bytes as 8 lowercase hex
	// digits.
	Checksum string
}

// NewKey returns the cache key for data under identity.
func NewKey(identity string, data []byte) Key {
	return Key{Identity: norm.NFC.String(identity), Checksum: Checksum(data)}
}

// String returns "<identity>_<checksum>".
func (k Key) String() string {
	return k.Identity + "_" + k.Checksum
}

// Checksum returns the FNV-1a 32-bit hash of data as 8 lowercase hex
// digits.
func Checksum(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data) // fnv.Write never returns an error
	return fmt.Sprintf("%08x", h.Sum32())
}

func keyHasher(k Key) uint64 {
	return cache.StringHasher(k.Identity)*31 ^ cache.StringHasher(k.Checksum)
}

// Entry is a cached animation. It is shared by every caller that asks for
// the same key and must not be modified.
type Entry struct {
	Key Key
	*Animation
}

// CacheStats holds FrameCache statistics.
type CacheStats struct {
	// Entries is the number of cached animations.
	Entries int
	// Hits counts lookups served without decoding, including callers that
	// waited on another caller's decode.
	Hits uint64
	// Misses counts lookups that had to decode.
	Misses uint64
	// Decodes counts decode attempts, successful or not.
	Decodes uint64
	// Evictions counts entries dropped to respect WithCapacity.
	Evictions uint64
}

// FrameCache decodes GIF byte streams at most once per key and shares the
// results.
//
// A FrameCache is safe for concurrent use. Decodes of different keys run in
// parallel; concurrent requests for the same key wait for a single decode.
type FrameCache struct {
	entries *cache.ShardedCache[Key, *Entry]
	decode  []DecodeOption
}

// NewFrameCache creates an empty cache.
func NewFrameCache(opts ...CacheOption) *FrameCache {
	var o cacheOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &FrameCache{
		entries: cache.NewSharded[Key, *Entry](o.capacity, keyHasher),
		decode:  o.decode,
	}
}

// GetOrDecode returns the entry for data under identity, decoding it on
// the first request. A failed decode stores nothing, so a later call
// retries; concurrent callers waiting on that decode receive the same
// error.
func (fc *FrameCache) GetOrDecode(identity string, data []byte) (*Entry, error) {
	key := NewKey(identity, data)
	e, shared, err := fc.entries.GetOrLoad(key, func() (*Entry, error) {
		anim, err := Decode(data, fc.decode...)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		return &Entry{Key: key, Animation: anim}, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		Logger().Debug("gifanim: cache hit", "key", key.String())
	} else {
		Logger().Debug("gifanim: decoded", "key", key.String(),
			"frames", e.Len(), "width", e.Width, "height", e.Height)
	}
	return e, nil
}

// Load reads name from fsys and returns its entry, using name as the
// identity. Files that are neither named *.gif nor start with a GIF
// signature fail with ErrNotGIF.
func (fc *FrameCache) Load(fsys fs.FS, name string) (*Entry, error) {
	if !IsGIF(fsys, name) {
		return nil, fmt.Errorf("load %s: %w", name, ErrNotGIF)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return fc.GetOrDecode(name, data)
}

// Remove evicts every entry stored under identity, whatever its checksum,
// and abandons in-flight decodes for it. It returns the number of entries
// removed. Callers already holding an entry keep using it.
func (fc *FrameCache) Remove(identity string) int {
	identity = norm.NFC.String(identity)
	n := fc.entries.DeleteFunc(func(k Key) bool { return k.Identity == identity })
	if n > 0 {
		Logger().Debug("gifanim: cache remove", "identity", identity, "entries", n)
	}
	return n
}

// Purge evicts every entry.
func (fc *FrameCache) Purge() {
	fc.entries.Clear()
}

// Len returns the number of cached entries.
func (fc *FrameCache) Len() int {
	return fc.entries.Len()
}

// Keys returns the keys of all cached entries ordered by their string
// form.
func (fc *FrameCache) Keys() []Key {
	keys := fc.entries.Keys()
	slices.SortFunc(keys, func(a, b Key) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}

// Stats returns current cache statistics.
func (fc *FrameCache) Stats() CacheStats {
	s := fc.entries.Stats()
	return CacheStats{
		Entries:   s.Len,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Decodes:   s.Loads,
		Evictions: s.Evictions,
	}
}
