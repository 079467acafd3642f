// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package main is the entry point for the Movierec server.

Movierec serves movie recommendations from the MovieLens "latest small"
dataset. It combines a user-user KNN collaborative filtering model with a
TF-IDF genre content model, and resolves misspelled titles by fuzzy matching.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("movierec")
	├── ModelSupervisor ("model-layer")
	│   ├── Retrain service (scheduled, optional)
	│   └── Cache janitor (when the response cache is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON or console output
 3. Model store: gob+gzip files or BadgerDB
 4. Dataset: download the archive if a table is missing, then parse it
 5. Engine boot: load each model from the store, or train and save it
 6. Supervisor Tree: HTTP server, retrain loop, cache janitor

# Configuration

Priority: Environment variables > Config file > Defaults

	HTTP_PORT=5000                 # HTTP server port
	LOG_LEVEL=info                 # trace, debug, info, warn, error
	LOG_FORMAT=json                # json or console
	DATA_DIR=data                  # holds ratings.csv and movies.csv
	DATA_SOURCE=csv                # csv or duckdb
	MODEL_DIR=models               # model blobs
	MODEL_BACKEND=file             # file or badger
	MODEL_RETRAIN_ON_START=false   # ignore stored models at boot
	MODEL_RETRAIN_INTERVAL=0       # e.g. 24h, 0 disables
	RECOMMEND_ALPHA=0.7            # CF weight in hybrid blends
	CORS_ORIGINS=*                 # comma-separated

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections and drains in-flight requests within the shutdown timeout, then
the model store is closed.

# Example Usage

	./movierec-server
	curl 'http://localhost:5000/api/recs?user_id=1&k=5'
	curl 'http://localhost:5000/api/similar_by_title?q=toy+stry'
*/
package main
