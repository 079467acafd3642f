// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package storage persists trained models as opaque, versioned blobs.
//
// Models encode themselves (encoding.BinaryMarshaler); this package only
// stores the bytes with metadata and verifies them on the way back.
//
// # Backends
//
//   - FileStore: one gob file per version, gzip-compressed, named
//     {name}_v{version}.gob.gz. Older versions are pruned after each save.
//   - BadgerStore: an embedded BadgerDB keyed by model name.
//
// Both record a SHA-256 checksum of the uncompressed blob at save time and
// return ErrChecksumMismatch when the bytes read back differ. A name that was
// never saved returns ErrModelNotFound.
//
//	store, err := storage.Open("file", "models")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	blob, meta, err := store.Load(ctx, "cf")
//	if errors.Is(err, storage.ErrModelNotFound) {
//	    // train and Save
//	}
//
// # Thread Safety
//
// Both backends are safe for concurrent use.
package storage
