package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
)

var bucketSignatures = []byte("signatures")

// cachedSignature is the on-disk record. Signatures past ExpiresAt are
// still returned when the server is unreachable, so the add-in keeps a
// recent signature instead of falling back to the generic one.
type cachedSignature struct {
	Signature models.RenderedSignature `json:"signature"`
	ExpiresAt time.Time                `json:"expiresAt"`
}

// BoltCache persists fetched signatures across add-in restarts.
type BoltCache struct {
	db  *bolt.DB
	ttl time.Duration
}

// NewBoltCache opens (or creates) the cache file.
func NewBoltCache(path string, ttl time.Duration) (*BoltCache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSignatures)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltCache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database
func (c *BoltCache) Close() error {
	return c.db.Close()
}

func cacheKey(email string, variant signature.Variant) []byte {
	return []byte(email + ":" + string(variant))
}

// Get returns the cached signature for email and variant. fresh is true
// while the entry is within its TTL.
func (c *BoltCache) Get(email string, variant signature.Variant) (sig *models.RenderedSignature, fresh bool, err error) {
	err = c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSignatures).Get(cacheKey(email, variant))
		if data == nil {
			return nil
		}
		var rec cachedSignature
		if err := json.Unmarshal(data, &rec); err != nil {
			// Corrupt entry, treat as a miss.
			return nil
		}
		sig = &rec.Signature
		fresh = time.Now().Before(rec.ExpiresAt)
		return nil
	})
	return sig, fresh, err
}

// Put stores a signature with a fresh TTL.
func (c *BoltCache) Put(email string, variant signature.Variant, sig *models.RenderedSignature) error {
	rec := cachedSignature{
		Signature: *sig,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSignatures).Put(cacheKey(email, variant), data)
	})
}

// Purge drops every cached signature.
func (c *BoltCache) Purge() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketSignatures); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketSignatures)
		return err
	})
}

// CachingFetcher combines the API client with the persistent cache.
// Fresh entries short-circuit the network entirely. On fetch errors a
// stale entry is better than nothing.
type CachingFetcher struct {
	client *Client
	cache  *BoltCache
}

// NewCachingFetcher creates a fetcher backed by client and cache.
func NewCachingFetcher(client *Client, cache *BoltCache) *CachingFetcher {
	return &CachingFetcher{client: client, cache: cache}
}

// Fetch implements the add-in fetcher contract.
func (f *CachingFetcher) Fetch(ctx context.Context, email string, variant signature.Variant) (*models.RenderedSignature, error) {
	cached, fresh, err := f.cache.Get(email, variant)
	if err == nil && cached != nil && fresh {
		return cached, nil
	}

	sig, err := f.client.Fetch(ctx, email, variant)
	if err != nil {
		if cached != nil {
			return cached, nil
		}
		return nil, err
	}

	// Best effort, a failed write only costs the next request a fetch.
	_ = f.cache.Put(email, variant, sig)
	return sig, nil
}
