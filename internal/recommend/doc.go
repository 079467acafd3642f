// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package recommend implements the Movierec scoring core.
//
// # Models
//
// Two models are trained from a MovieLens dataset:
//
//   - CFModel: user-based KNN over a sparse user x movie rating matrix, with
//     cosine distance and neighbor-weighted averaging of ratings.
//   - ContentModel: TF-IDF vectors over pipe-delimited genres, compared with
//     cosine similarity.
//
// Blend combines the two score lists with a single weight alpha, and
// TitleResolver maps free-text queries onto catalog titles with difflib-style
// fuzzy matching.
//
// # Engine
//
// Engine owns the trained models as one immutable snapshot. Boot loads the
// models from a storage.BlobStore or trains and persists them; Retrain builds
// a new snapshot and swaps it in atomically:
//
//	engine := recommend.NewEngine(cfg, loader, store, logger)
//	if err := engine.Boot(ctx); err != nil {
//	    return err
//	}
//	recs, err := engine.RecommendForUser(1, 10)
//
// # Determinism
//
// Every ranking sorts by descending score and breaks ties on the lower matrix
// index (or, for blended lists, the lower movieId), so identical inputs always
// produce identical output.
//
// # Thread Safety
//
// Models never change after they are built or decoded. Query methods only read
// them, so any number of goroutines may query one snapshot while a retrain
// builds the next.
package recommend
