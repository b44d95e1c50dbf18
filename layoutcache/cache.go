// Package layoutcache persists packing layouts in LevelDB so repeated builds
// of the same image set skip the packer.
//
// A Cache implements packer.LayoutCache:
//
//	c, err := layoutcache.Open(".atlascache")
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//	atlas, err := texatlas.NewFromPixmaps(pms, texatlas.WithLayoutCache(c))
package layoutcache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/gogpu/texatlas"
	"github.com/gogpu/texatlas/packer"
)

const (
	keyPrefix = "layout-"

	// recordVersion is bumped when the stored encoding changes; older
	// records then read as misses.
	recordVersion = 1
)

// record is the stored form of one layout.
type record struct {
	Version int           `json:"version"`
	Rects   []packer.Rect `json:"rects"`
}

// Cache is a LevelDB-backed packer.LayoutCache. It is safe for concurrent use.
type Cache struct {
	db *leveldb.DB

	hits   atomic.Int64
	misses atomic.Int64
}

var _ packer.LayoutCache = (*Cache)(nil)

// Open opens or creates a cache database in the directory path.
func Open(path string) (*Cache, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("layoutcache: open %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// OpenMem opens a cache that lives only in memory.
func OpenMem() (*Cache, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("layoutcache: open memory storage: %w", err)
	}
	return &Cache{db: db}, nil
}

func dbKey(key [32]byte) []byte {
	return []byte(keyPrefix + hex.EncodeToString(key[:]))
}

// Load returns the layout stored under key. Missing, unreadable and
// outdated records are reported as misses.
func (c *Cache) Load(key [32]byte) ([]packer.Rect, bool) {
	data, err := c.db.Get(dbKey(key), nil)
	if err != nil {
		if !errors.Is(err, leveldb.ErrNotFound) {
			texatlas.Logger().Warn("layoutcache: read failed", slog.String("error", err.Error()))
		}
		c.misses.Add(1)
		return nil, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Version != recordVersion {
		texatlas.Logger().Warn("layoutcache: discarding unreadable record",
			slog.String("key", hex.EncodeToString(key[:8])))
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return rec.Rects, true
}

// Store saves rects under key, replacing any previous layout.
func (c *Cache) Store(key [32]byte, rects []packer.Rect) error {
	data, err := json.Marshal(record{Version: recordVersion, Rects: rects})
	if err != nil {
		return fmt.Errorf("layoutcache: encode layout: %w", err)
	}
	if err := c.db.Put(dbKey(key), data, nil); err != nil {
		return fmt.Errorf("layoutcache: store layout: %w", err)
	}
	return nil
}

// Len returns the number of stored layouts.
func (c *Cache) Len() (int, error) {
	iter := c.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Stats returns the number of Load hits and misses since Open.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
