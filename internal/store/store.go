package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/pixfind/internal/domain"
	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

// Bucket and key names
var (
	bucketPictures = []byte("pictures")

	keyList      = "list"
	keyFetchedAt = "fetched_at"
)

// PictureStore implements domain.PictureStore using BoltDB.
type PictureStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewPictureStore opens (or creates) the cache database in cacheDir.
// An empty cacheDir gives a memory-only store.
func NewPictureStore(cacheDir string) (*PictureStore, error) {
	if cacheDir == "" {
		// Memory-only mode (no persistence)
		return &PictureStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "pixfind.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPictures)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PictureStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *PictureStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *PictureStore) get(key string, dest interface{}) bool {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPictures)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *PictureStore) set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPictures).Put([]byte(key), data)
	})
}

// === Pictures ===

// GetPictures returns the cached list and the time it was fetched
func (s *PictureStore) GetPictures() ([]domain.Picture, time.Time, bool) {
	var pictures []domain.Picture
	if !s.get(keyList, &pictures) {
		return nil, time.Time{}, false
	}

	var fetchedAt int64
	if !s.get(keyFetchedAt, &fetchedAt) {
		return nil, time.Time{}, false
	}
	return pictures, time.Unix(fetchedAt, 0), true
}

// SavePictures stores the list along with its fetch time
func (s *PictureStore) SavePictures(pictures []domain.Picture, fetchedAt time.Time) error {
	if err := s.set(keyList, pictures); err != nil {
		return err
	}
	// Save timestamp separately for freshness checks
	return s.set(keyFetchedAt, fetchedAt.Unix())
}

// Invalidate wipes the cached list from memory and disk
func (s *PictureStore) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketPictures); err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketPictures)
		return err
	})
}
