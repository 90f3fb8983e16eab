package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"osindexer/internal/port"
)

var bucketFiles = []byte("files")

// BoltManifest persists per-file ingest state so unchanged files can
// be skipped on re-runs.
type BoltManifest struct {
	db *bbolt.DB
}

func Open(path string) (*BoltManifest, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create files bucket: %w", err)
	}

	return &BoltManifest{db: db}, nil
}

type fileMeta struct {
	ContentHash string `json:"content_hash"`
	Chunks      int    `json:"chunks"`
	IndexedAt   int64  `json:"indexed_at"`
}

func (m *BoltManifest) Get(path string) (port.ManifestEntry, bool, error) {
	var entry port.ManifestEntry
	var found bool

	err := m.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(path))
		if data == nil {
			return nil
		}
		var meta fileMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		entry = port.ManifestEntry{
			Path:        path,
			ContentHash: meta.ContentHash,
			Chunks:      meta.Chunks,
			IndexedAt:   meta.IndexedAt,
		}
		found = true
		return nil
	})
	return entry, found, err
}

func (m *BoltManifest) Put(entry port.ManifestEntry) error {
	return m.db.Update(func(tx *bbolt.Tx) error {
		meta := fileMeta{
			ContentHash: entry.ContentHash,
			Chunks:      entry.Chunks,
			IndexedAt:   entry.IndexedAt,
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketFiles).Put([]byte(entry.Path), data)
	})
}

func (m *BoltManifest) Close() error {
	return m.db.Close()
}
