package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/amaumene/dvmovies/internal/models"
)

var registryBucket = []byte("registry_movies")

// BoltCache implements RegistryCache on a bbolt file.
type BoltCache struct {
	db  *bolt.DB
	now func() time.Time
}

func NewBolt(dbPath string) (*BoltCache, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("cache path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(registryBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &BoltCache{db: db, now: time.Now}, nil
}

func (b *BoltCache) Close() error {
	return b.db.Close()
}

func (b *BoltCache) GetRegistryMovie(code string) (*models.RegistryMovie, error) {
	var movie *models.RegistryMovie
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(registryBucket).Get([]byte(code))
		if data == nil {
			return nil
		}
		movie = &models.RegistryMovie{}
		return json.Unmarshal(data, movie)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read registry movie %s: %w", code, err)
	}
	return movie, nil
}

func (b *BoltCache) StoreRegistryMovie(movie *models.RegistryMovie) error {
	if movie == nil || movie.Code == "" {
		return fmt.Errorf("registry movie code is required")
	}
	if movie.FetchedAt.IsZero() {
		movie.FetchedAt = b.now()
	}

	data, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("failed to encode registry movie: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(registryBucket).Put([]byte(movie.Code), data)
	})
}

func (b *BoltCache) DeleteRegistryOlderThan(age time.Duration) (int, error) {
	cutoff := b.now().Add(-age)
	deleted := 0

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(registryBucket)
		var stale [][]byte

		err := bucket.ForEach(func(k, v []byte) error {
			var movie models.RegistryMovie
			if err := json.Unmarshal(v, &movie); err != nil || movie.FetchedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clean registry cache: %w", err)
	}
	return deleted, nil
}
