// Package cache memoizes a comparison's fully-rendered unified-diff
// output keyed on the content hash of both inputs plus the active
// configuration, so re-running subdiff against unchanged files (e.g.
// in a CI loop, or under --watch) skips re-running the differ and
// renderer entirely.
//
// Grounded on the teacher's internal/storage.BadgerStore (badger.DB
// opened once, Update/View closures for writes/reads) and
// internal/safe/compression.go's compressionManager (zstd, a min-size
// threshold, and sniffing the zstd magic bytes on read to tell
// compressed values from plain ones) — simplified here to a single
// get/put pair over []byte rather than a generic Entity store, since
// the cache only ever holds one kind of value.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zstd"

	"subdiff/internal/subdifferr"
)

// zstdMagic is the four-byte frame magic number klauspost/compress's
// zstd writer stamps on every encoded value.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// compressMinSize mirrors compressionManager's 1KB threshold: smaller
// values aren't worth the encode/decode overhead.
const compressMinSize = 1024

// Cache fronts a persistent badger store with an in-process LRU, per
// spec.md §3.3's supplemented caching layer.
type Cache struct {
	db    *badger.DB
	front *lru.Cache[string, []byte]
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// Open opens (creating if absent) a badger store at dir, fronted by an
// LRU of frontSize entries.
func Open(dir string, frontSize int) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, subdifferr.IO("could not create cache dir %s: %v", dir, err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, subdifferr.IO("could not open cache at %s: %v", dir, err)
	}

	front, err := lru.New[string, []byte](frontSize)
	if err != nil {
		db.Close()
		return nil, subdifferr.Internalf("could not create front cache: %v", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, subdifferr.Internalf("could not create zstd encoder: %v", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, subdifferr.Internalf("could not create zstd decoder: %v", err)
	}

	return &Cache{db: db, front: front, enc: enc, dec: dec}, nil
}

// Close releases the badger store.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key describes the inputs that determine a cached diff's content: the
// two files' hashes plus every configuration field that affects
// rendering. Keyed identically regardless of field order since it's
// marshaled as JSON with struct field order, never as a map.
type Key struct {
	OldHash string
	NewHash string
	Conf    any
}

// HashContent returns the sha256 hex digest of content, the same
// construction shared/utils.HashContent uses for content-addressed
// lookups.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (k Key) digest() (string, error) {
	data, err := json.Marshal(k)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached rendering for key, or ok=false on a miss.
func (c *Cache) Get(key Key) (value []byte, ok bool, err error) {
	digest, err := key.digest()
	if err != nil {
		return nil, false, subdifferr.Internalf("could not hash cache key: %v", err)
	}

	if v, found := c.front.Get(digest); found {
		return v, true, nil
	}

	var raw []byte
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(digest))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, subdifferr.IO("could not read cache: %v", err)
	}

	value, err = c.decompress(raw)
	if err != nil {
		return nil, false, subdifferr.Internalf("could not decompress cached value: %v", err)
	}
	c.front.Add(digest, value)
	return value, true, nil
}

// Put stores value under key, compressing it first when it's large
// enough to be worth it.
func (c *Cache) Put(key Key, value []byte) error {
	digest, err := key.digest()
	if err != nil {
		return subdifferr.Internalf("could not hash cache key: %v", err)
	}

	stored := value
	if len(value) >= compressMinSize {
		stored = c.enc.EncodeAll(value, nil)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(digest), stored)
	})
	if err != nil {
		return subdifferr.IO("could not write cache: %v", err)
	}

	c.front.Add(digest, value)
	return nil
}

func (c *Cache) decompress(raw []byte) ([]byte, error) {
	if len(raw) < len(zstdMagic) || string(raw[:len(zstdMagic)]) != string(zstdMagic) {
		return raw, nil
	}
	return c.dec.DecodeAll(raw, nil)
}

// Clear removes every entry from both the front and persistent layers,
// backing `subdiff cache clear`.
func (c *Cache) Clear() error {
	c.front.Purge()
	return c.db.DropAll()
}

// DefaultDir returns $XDG_CACHE_HOME/subdiff, falling back to
// ~/.cache/subdiff, per spec.md §3.3.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "subdiff"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", subdifferr.IO("could not determine home directory: %v", err)
	}
	return filepath.Join(home, ".cache", "subdiff"), nil
}
