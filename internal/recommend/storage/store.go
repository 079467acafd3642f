// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrModelNotFound is returned when no blob is stored under a name.
	ErrModelNotFound = errors.New("model not found")

	// ErrChecksumMismatch is returned when a stored blob fails verification.
	ErrChecksumMismatch = errors.New("model checksum mismatch")
)

// Metadata describes a stored blob. Name, Version, SavedAt, Checksum and
// SizeBytes are filled in by the store on Save.
type Metadata struct {
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	SavedAt   time.Time `json:"saved_at"`

	// Dataset shape the model was trained on.
	Users   int `json:"users"`
	Movies  int `json:"movies"`
	Ratings int `json:"ratings"`

	// Checksum is the hex SHA-256 of the uncompressed blob.
	Checksum string `json:"checksum"`

	// SizeBytes is the stored (compressed) size.
	SizeBytes int64 `json:"size_bytes"`

	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// BlobStore persists model blobs by name.
type BlobStore interface {
	// Save stores blob as the newest version of name.
	Save(ctx context.Context, name string, blob []byte, meta Metadata) error

	// Load returns the newest version of name.
	Load(ctx context.Context, name string) ([]byte, Metadata, error)

	// Exists reports whether any version of name is stored.
	Exists(ctx context.Context, name string) (bool, error)

	// List returns metadata for the newest version of every stored name,
	// sorted by name.
	List(ctx context.Context) ([]Metadata, error)

	// Delete removes every version of name.
	Delete(ctx context.Context, name string) error

	Close() error
}

// Open returns the backend named by kind ("file" or "badger") rooted at dir.
func Open(kind, dir string) (BlobStore, error) {
	switch kind {
	case "", "file":
		return NewFileStore(dir)
	case "badger":
		return NewBadgerStore(dir)
	default:
		return nil, fmt.Errorf("unknown model backend %q", kind)
	}
}

func checksum(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

func validName(name string) error {
	if name == "" {
		return errors.New("model name is empty")
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return fmt.Errorf("invalid model name %q", name)
		}
	}
	return nil
}
