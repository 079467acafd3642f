// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefixes for BadgerDB storage
const (
	blobKeyPrefix = "blob:"
	metaKeyPrefix = "meta:"
)

// BadgerStore keeps the newest blob of each model in an embedded BadgerDB.
// Saving a model overwrites the previous version in one transaction.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a BadgerDB at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for models: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreFromDB wraps an already open database. Close closes db.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Save stores blob and its metadata under name.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BadgerStore) Save(ctx context.Context, name string, blob []byte, meta Metadata) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		prev, err := getMeta(txn, name)
		switch {
		case errors.Is(err, ErrModelNotFound):
		case err != nil:
			return err
		default:
			meta.Version = prev.Version
		}

		meta.Name = name
		meta.Version++
		meta.SavedAt = time.Now()
		meta.Checksum = checksum(blob)
		meta.SizeBytes = int64(len(blob))

		data, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if err := txn.Set([]byte(blobKeyPrefix+name), blob); err != nil {
			return fmt.Errorf("set blob: %w", err)
		}
		if err := txn.Set([]byte(metaKeyPrefix+name), data); err != nil {
			return fmt.Errorf("set metadata: %w", err)
		}
		return nil
	})
}

func getMeta(txn *badger.Txn, name string) (Metadata, error) {
	var meta Metadata
	item, err := txn.Get([]byte(metaKeyPrefix + name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return meta, fmt.Errorf("%s: %w", name, ErrModelNotFound)
	}
	if err != nil {
		return meta, fmt.Errorf("get metadata: %w", err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &meta)
	})
	if err != nil {
		return meta, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return meta, nil
}

// Load returns the stored blob for name.
func (s *BadgerStore) Load(ctx context.Context, name string) ([]byte, Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, Metadata{}, err
	}

	var (
		blob []byte
		meta Metadata
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if meta, err = getMeta(txn, name); err != nil {
			return err
		}
		item, err := txn.Get([]byte(blobKeyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s: %w", name, ErrModelNotFound)
		}
		if err != nil {
			return fmt.Errorf("get blob: %w", err)
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, Metadata{}, err
	}

	if got := checksum(blob); got != meta.Checksum {
		return nil, Metadata{}, fmt.Errorf("%s v%d: %w: expected %s, got %s",
			name, meta.Version, ErrChecksumMismatch, meta.Checksum, got)
	}
	return blob, meta, nil
}

// Exists reports whether name is stored.
func (s *BadgerStore) Exists(_ context.Context, name string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(metaKeyPrefix + name))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup model: %w", err)
	}
	return true, nil
}

// List returns metadata for every stored model, sorted by name.
func (s *BadgerStore) List(_ context.Context) ([]Metadata, error) {
	var out []Metadata

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var meta Metadata
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				continue
			}
			out = append(out, meta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return out, nil
}

// Delete removes name.
func (s *BadgerStore) Delete(_ context.Context, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := getMeta(txn, name); err != nil {
			return err
		}
		if err := txn.Delete([]byte(blobKeyPrefix + name)); err != nil {
			return fmt.Errorf("delete blob: %w", err)
		}
		if err := txn.Delete([]byte(metaKeyPrefix + name)); err != nil {
			return fmt.Errorf("delete metadata: %w", err)
		}
		return nil
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
