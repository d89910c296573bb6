// Package metrics defines and registers all custom Prometheus metrics for
// the task API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at init time;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskhive"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts successful logins.
// Label:
//   - flow: the account flow used ("google" or "email")
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by account flow.",
	},
	[]string{"flow"},
)

// SignupsTotal counts newly created accounts.
// Label:
//   - flow: the creation flow ("google" or "email")
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by creation flow.",
	},
	[]string{"flow"},
)

// TokensIssuedTotal counts minted tokens.
// Label:
//   - kind: "session", "refresh", or "guest"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens minted, by token kind.",
	},
	[]string{"kind"},
)

// RefreshesTotal counts successful session refreshes.
var RefreshesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of session tokens reissued from refresh tokens.",
	},
)

// AuthFailuresTotal counts requests rejected by the authentication middleware.
// Label:
//   - reason: "missing_token", "expired", "invalid", "user_not_found"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected during authentication.",
	},
	[]string{"reason"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - type: "todo", "in progress", or "done"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by task type.",
	},
	[]string{"type"},
)
