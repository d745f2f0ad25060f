// ABOUTME: Persistent embedding cache backed by bbolt
// ABOUTME: Wraps any embedder so repeated texts skip the remote API
package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/harper/proposal-forge/internal/util"
	"go.etcd.io/bbolt"
)

var bucketEmbeddings = []byte("embeddings")

// Embedder produces an embedding for a piece of text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Cache is an Embedder that remembers results on disk
type Cache struct {
	db     *bbolt.DB
	inner  Embedder
	model  string
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache effectiveness
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Open opens (or creates) the cache file at path. Keys include model so a
// model change never serves stale vectors.
func Open(path string, inner Embedder, model string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEmbeddings)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Cache{db: db, inner: inner, model: model}, nil
}

// GenerateEmbedding returns a cached vector or asks the inner embedder
func (c *Cache) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	key := c.key(text)

	var cached []float64
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEmbeddings).Get(key)
		if data == nil {
			return nil
		}
		vec, err := util.DecodeVector(data)
		if err != nil {
			return err
		}
		cached = vec
		return nil
	})
	if err == nil && len(cached) > 0 {
		c.hits.Add(1)
		return cached, nil
	}

	c.misses.Add(1)
	vec, err := c.inner.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEmbeddings).Put(key, util.EncodeVector(vec))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store embedding: %w", err)
	}
	return vec, nil
}

// Stats returns hit/miss counters and the number of stored entries
func (c *Cache) Stats() Stats {
	s := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	_ = c.db.View(func(tx *bbolt.Tx) error {
		s.Entries = tx.Bucket(bucketEmbeddings).Stats().KeyN
		return nil
	})
	return s
}

// Clear removes every cached embedding
func (c *Cache) Clear() error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketEmbeddings); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketEmbeddings)
		return err
	})
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) key(text string) []byte {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return []byte(hex.EncodeToString(sum[:]))
}
