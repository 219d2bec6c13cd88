// Package database provides data persistence using BoltDB.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/timshannon/bolthold"
)

const (
	dbFileMode = 0600
	dbDirMode  = 0755

	defaultDBFile = "data.db"
)

// BoltDB implements the Database interface using a bolthold store.
type BoltDB struct {
	store *bolthold.Store
	ttl   time.Duration
}

type boltDetailCache struct {
	Key             string `boltholdKey:"Key"`
	Kind            string
	TMDBID          int
	Runtime         int
	NumberOfSeasons int
	LastAirDate     string
	CreatedAt       time.Time
}

type boltKeywordCache struct {
	Key       string `boltholdKey:"Key"`
	Kind      string
	TMDBID    int
	Keywords  []string
	CreatedAt time.Time
}

// NewBolt opens (or creates) the BoltDB store at dbPath. Entries older
// than ttl are treated as absent on read.
func NewBolt(dbPath string, ttl time.Duration) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := bolthold.Open(dbPath, dbFileMode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	return &BoltDB{store: store, ttl: ttl}, nil
}

// Close closes the database.
func (db *BoltDB) Close() error {
	return db.store.Close()
}

func (db *BoltDB) expired(createdAt time.Time) bool {
	return db.ttl > 0 && time.Since(createdAt) > db.ttl
}

// GetDetailCache retrieves cached details by key. Returns nil without
// error when the entry is absent or expired.
func (db *BoltDB) GetDetailCache(key string) (*DetailCache, error) {
	var cached boltDetailCache
	err := db.store.Get(key, &cached)
	if err == bolthold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get detail cache: %w", err)
	}
	if db.expired(cached.CreatedAt) {
		return nil, nil
	}

	return &DetailCache{
		Key:             cached.Key,
		Kind:            cached.Kind,
		TMDBID:          cached.TMDBID,
		Runtime:         cached.Runtime,
		NumberOfSeasons: cached.NumberOfSeasons,
		LastAirDate:     cached.LastAirDate,
		CreatedAt:       cached.CreatedAt,
	}, nil
}

// StoreDetailCache stores detail fields for a title, replacing any
// existing entry.
func (db *BoltDB) StoreDetailCache(cache *DetailCache) error {
	err := db.store.Upsert(cache.Key, &boltDetailCache{
		Key:             cache.Key,
		Kind:            cache.Kind,
		TMDBID:          cache.TMDBID,
		Runtime:         cache.Runtime,
		NumberOfSeasons: cache.NumberOfSeasons,
		LastAirDate:     cache.LastAirDate,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to store detail cache: %w", err)
	}
	return nil
}

// GetKeywordCache retrieves cached keywords by key. Returns nil without
// error when the entry is absent or expired.
func (db *BoltDB) GetKeywordCache(key string) (*KeywordCache, error) {
	var cached boltKeywordCache
	err := db.store.Get(key, &cached)
	if err == bolthold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword cache: %w", err)
	}
	if db.expired(cached.CreatedAt) {
		return nil, nil
	}

	return &KeywordCache{
		Key:       cached.Key,
		Kind:      cached.Kind,
		TMDBID:    cached.TMDBID,
		Keywords:  cached.Keywords,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// StoreKeywordCache stores keywords for a title, replacing any existing
// entry.
func (db *BoltDB) StoreKeywordCache(cache *KeywordCache) error {
	err := db.store.Upsert(cache.Key, &boltKeywordCache{
		Key:       cache.Key,
		Kind:      cache.Kind,
		TMDBID:    cache.TMDBID,
		Keywords:  cache.Keywords,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to store keyword cache: %w", err)
	}
	return nil
}
