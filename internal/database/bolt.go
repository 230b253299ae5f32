package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/gostremiobr/gostremiobr/internal/magnet"
	"github.com/gostremiobr/gostremiobr/internal/models"
)

var (
	bucketCatalog = []byte("catalog")
	bucketTitles  = []byte("titles")
)

// BoltDB implements Database on a single bbolt file. Catalog entries are
// keyed contentID|infoHash so one content id can carry several curated
// magnets and be scanned by prefix.
type BoltDB struct {
	db *bolt.DB
}

func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketCatalog, bucketTitles} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func catalogKey(contentID, infoHash string) []byte {
	return []byte(contentID + "|" + infoHash)
}

func catalogPrefix(contentID string) []byte {
	return []byte(contentID + "|")
}

func (b *BoltDB) StoreMagnet(m models.CuratedMagnet) error {
	hash, err := magnet.Hash(m.Magnet)
	if err != nil {
		return err
	}
	if m.AddedAt.IsZero() {
		m.AddedAt = time.Now()
	}

	encoded, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalog).Put(catalogKey(m.ContentID, hash), encoded)
	})
}

func (b *BoltDB) FindMagnets(contentID string) ([]models.CuratedMagnet, error) {
	var out []models.CuratedMagnet
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketCatalog).Cursor()
		prefix := catalogPrefix(contentID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var m models.CuratedMagnet
			if err := json.Unmarshal(v, &m); err != nil {
				continue
			}
			out = append(out, m)
		}
		return nil
	})
	return out, err
}

func (b *BoltDB) DeleteMagnet(contentID, infoHash string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalog).Delete(catalogKey(contentID, infoHash))
	})
}

// DeleteMagnets removes every curated magnet of a content id and reports
// how many were deleted.
func (b *BoltDB) DeleteMagnets(contentID string) (int, error) {
	deleted := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCatalog)
		c := bucket.Cursor()
		prefix := catalogPrefix(contentID)

		var keys [][]byte
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

func (b *BoltDB) StoreTitle(contentID, title string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTitles).Put([]byte(contentID), []byte(title))
	})
}

func (b *BoltDB) GetTitle(contentID string) (string, bool, error) {
	var title string
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketTitles).Get([]byte(contentID)); v != nil {
			title = string(v)
			found = true
		}
		return nil
	})
	return title, found, err
}

func (b *BoltDB) Close() error {
	return b.db.Close()
}
