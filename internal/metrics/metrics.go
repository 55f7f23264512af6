// Package metrics holds the bot's Prometheus collectors.
//
// Label values are limited to handler names and outcome tags. Chat ids and
// phone numbers never become labels.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// updates counts dispatched updates by handler name.
	updates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled Telegram updates.",
		},
		[]string{"handler"},
	)

	// replies counts delivered replies by delivery mode.
	replies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_replies_total",
			Help: "Total number of replies sent, by delivery mode.",
		},
		[]string{"mode"},
	)

	// rateLimited counts lookup attempts refused by the cooldown gate.
	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_rate_limited_total",
			Help: "Total number of lookups refused by the per-chat cooldown.",
		},
	)

	// lookups counts upstream round trips by outcome kind.
	lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_lookups_total",
			Help: "Total number of upstream lookups, by outcome.",
		},
		[]string{"outcome"},
	)

	// lookupDur records upstream round-trip latency in seconds.
	lookupDur = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_lookup_duration_seconds",
			Help:    "Duration of upstream lookups in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(updates, replies, rateLimited, lookups, lookupDur)
}

// Update records one dispatched update for the named handler.
func Update(handler string) { updates.WithLabelValues(handler).Inc() }

// Reply records one delivered reply; mode is "inline" or "file".
func Reply(mode string) { replies.WithLabelValues(mode).Inc() }

// RateLimited records one lookup refused by the cooldown gate.
func RateLimited() { rateLimited.Inc() }

// Lookup records one upstream round trip with its outcome and duration.
func Lookup(outcome string, d time.Duration) {
	lookups.WithLabelValues(outcome).Inc()
	lookupDur.Observe(d.Seconds())
}
