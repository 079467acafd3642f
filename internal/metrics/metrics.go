// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Model Metrics
	ModelTrainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_train_duration_seconds",
			Help:    "Time spent fitting a model",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"model"}, // "cf", "content"
	)

	ModelLoadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_load_total",
			Help: "Model acquisitions at boot or retrain, by source",
		},
		[]string{"model", "source"}, // source: "store", "trained", "corrupt"
	)

	ModelLastTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_last_trained_timestamp_seconds",
			Help: "Unix time of the last successful training run",
		},
	)

	RetrainErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "model_retrain_errors_total",
			Help: "Total number of failed scheduled retrains",
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation lists returned",
		},
		[]string{"kind"}, // "user", "similar", "hybrid", "title"
	)

	// Response Cache Metrics
	ResponseCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"kind"},
	)

	ResponseCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"kind"},
	)

	ResponseCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "response_cache_entries",
			Help: "Current number of cached responses",
		},
	)

	// Dataset Metrics
	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_rows",
			Help: "Rows loaded per MovieLens table",
		},
		[]string{"table"}, // "ratings", "movies"
	)

	DatasetDownloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_downloads_total",
			Help: "Dataset archive download attempts by result",
		},
		[]string{"result"}, // "success", "error"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordModelTrain records a training run for one model.
func RecordModelTrain(model string, duration time.Duration) {
	ModelTrainDuration.WithLabelValues(model).Observe(duration.Seconds())
	ModelLoadTotal.WithLabelValues(model, "trained").Inc()
	ModelLastTrained.Set(float64(time.Now().Unix()))
}

// RecordModelLoad records a model restored from the store.
func RecordModelLoad(model string) {
	ModelLoadTotal.WithLabelValues(model, "store").Inc()
}

// RecordModelCorrupt records a stored model that failed to decode.
func RecordModelCorrupt(model string) {
	ModelLoadTotal.WithLabelValues(model, "corrupt").Inc()
}

// RecordRecommendations counts one served list.
func RecordRecommendations(kind string) {
	RecommendationsServed.WithLabelValues(kind).Inc()
}

// RecordCacheLookup counts a response cache hit or miss.
func RecordCacheLookup(kind string, hit bool) {
	if hit {
		ResponseCacheHits.WithLabelValues(kind).Inc()
	} else {
		ResponseCacheMisses.WithLabelValues(kind).Inc()
	}
}

// SetDatasetRows publishes table sizes after a load.
func SetDatasetRows(ratings, movies int) {
	DatasetRows.WithLabelValues("ratings").Set(float64(ratings))
	DatasetRows.WithLabelValues("movies").Set(float64(movies))
}

// RecordDownload records a dataset download attempt.
func RecordDownload(err error) {
	result := "success"
	if err != nil {
		result = "error"
		if errors.Is(err, os.ErrDeadlineExceeded) {
			result = "timeout"
		}
	}
	DatasetDownloads.WithLabelValues(result).Inc()
}
