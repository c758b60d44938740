// Package metrics defines and registers all custom Prometheus metrics for the
// CampusEvent API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry through
// promauto when the package is initialised.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campusevent"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests turned away by an auth gate.
// Labels:
//   - gate: "session" or "api_key"
//   - reason: internal classification (e.g. "missing", "malformed", "expired")
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by an auth gate.",
	},
	[]string{"gate", "reason"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventWritesTotal counts successful event mutations.
// Label:
//   - operation: "create", "update" or "delete"
var EventWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_writes_total",
		Help:      "Total number of successful event mutations.",
	},
	[]string{"operation"},
)

// GeocodeJobsTotal counts geocoding jobs by outcome.
// Label:
//   - result: "processed", "error" or "dropped"
var GeocodeJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_jobs_total",
		Help:      "Total number of geocoding jobs, by outcome.",
	},
	[]string{"result"},
)

// GeocodeQueueDepth tracks the current number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var GeocodeQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "geocode_queue_depth",
		Help:      "Current number of geocoding jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// GeocodeDuration measures how long a single job takes from dequeue to persistence.
var GeocodeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "geocode_duration_seconds",
		Help:      "Duration of geocoding jobs from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)

// WeatherCacheTotal counts weather cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var WeatherCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weather_cache_total",
		Help:      "Total number of weather cache lookups, by result.",
	},
	[]string{"result"},
)
