// Package metrics defines and registers the custom Prometheus metrics of the
// contribution tracker. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default Prometheus registry at package init;
// /metrics exposes them next to the echoprometheus HTTP metrics.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contributions"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "ok", "invalid", "conflict", "not_found", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// RateLimitedTotal counts auth requests rejected by the login throttle.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of auth requests rejected by the rate limiter.",
	},
)

// ── Contribution metrics ──────────────────────────────────────────────────────

// ContributionsCreatedTotal counts newly created contributions.
// Label:
//   - category: one of knownCategories, otherwise "other"
var ContributionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of contributions created, by category.",
	},
	[]string{"category"},
)

// UploadsTotal counts screenshot uploads.
// Label:
//   - result: "stored", "rejected", "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of screenshot uploads, by outcome.",
	},
	[]string{"result"},
)

// ExportsTotal counts generated CSV exports.
var ExportsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of CSV exports generated.",
	},
)

// knownCategories mirrors the options offered by the frontend form. Category
// is free text, so anything else is folded into "other" to bound cardinality.
var knownCategories = map[string]struct{}{
	"event":       {},
	"talk":        {},
	"blog":        {},
	"open source": {},
	"mentoring":   {},
	"community":   {},
}

// CategoryLabel maps a free-text category to a bounded label value.
func CategoryLabel(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if _, ok := knownCategories[c]; ok {
		return c
	}
	return "other"
}
