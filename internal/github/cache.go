package github

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const historyBucket = "day_revisions"

// HistoryCache stores fetched day-option lists in a bbolt file so repeated
// invocations against the same repository do not burn API budget. Entries
// expire after a TTL (zero disables expiry); a stale entry reads as a miss.
type HistoryCache struct {
	db  *bolt.DB
	ttl time.Duration
}

type cacheEntry struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Revisions []DayRevision `json:"revisions"`
}

// OpenHistoryCache opens (or creates) the cache file at path.
func OpenHistoryCache(path string, ttl time.Duration) (*HistoryCache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history cache: %w", err)
	}
	return &HistoryCache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (c *HistoryCache) Close() error {
	return c.db.Close()
}

func cacheKey(slug, path string) []byte {
	return []byte(slug + "\x00" + path)
}

// Get returns the cached day-option list for a (slug, path) pair, or
// (nil, false) on a miss or an expired entry.
func (c *HistoryCache) Get(slug, path string) ([]DayRevision, bool) {
	var entry cacheEntry
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return bolt.ErrBucketNotFound
		}
		data := bucket.Get(cacheKey(slug, path))
		if data == nil {
			return bolt.ErrBucketNotFound
		}
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, false
	}
	if c.ttl != 0 && time.Since(entry.FetchedAt) > c.ttl {
		return nil, false
	}
	return entry.Revisions, true
}

// Put stores a freshly fetched day-option list.
func (c *HistoryCache) Put(slug, path string, revisions []DayRevision) error {
	entry := cacheEntry{FetchedAt: time.Now().UTC(), Revisions: revisions}
	return c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		if err != nil {
			return err
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return bucket.Put(cacheKey(slug, path), data)
	})
}
