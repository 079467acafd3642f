// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package api exposes the recommendation engine over HTTP.

Routes are served by a chi router (see SetupChi):

	GET  /api/recs               ?user_id=1&k=10
	GET  /api/similar            ?movie_id=1&k=10
	GET  /api/search_title       ?q=toy+story
	GET  /api/similar_by_title   ?q=toy+story&k=10
	GET  /api/hybrid             ?user_id=1&movie_id=1&k=10&alpha=0.7
	GET  /api/health/live
	GET  /api/health/ready
	POST /api/admin/retrain
	GET  /metrics

Successful responses are bare JSON arrays or objects:

	[{"movieId":1,"title":"Toy Story (1995)","score":0.8123}]

Failures share one envelope:

	{
	  "success": false,
	  "error": {"code": "VALIDATION_FAILED", "message": "...", "request_id": "..."},
	  "meta": {"timestamp": "...", "duration_ms": 0, "request_id": "..."}
	}

Scored list responses are held in an LRU cache keyed by endpoint and
parameters. The cache is cleared whenever the engine swaps in a new model
snapshot.
*/
package api
