// Package metrics defines the Prometheus instrumentation for the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bot's counters. All counters are registered on the
// registry passed to New.
type Metrics struct {
	MessagesSeen     prometheus.Counter
	TokensParsed     prometheus.Counter
	DebtsAdded       prometheus.Counter
	PaymentsRecorded prometheus.Counter
	DebtsCleared     prometheus.Counter
}

// New creates and registers the bot metrics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MessagesSeen: factory.NewCounter(prometheus.CounterOpts{
			Name: "debitbot_messages_seen_total",
			Help: "Messages accepted by the community-channel policy gate.",
		}),
		TokensParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "debitbot_amount_tokens_parsed_total",
			Help: "Monetary tokens extracted from inbound messages.",
		}),
		DebtsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "debitbot_debts_added_total",
			Help: "Debt additions applied to the ledger.",
		}),
		PaymentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "debitbot_payments_recorded_total",
			Help: "Partial payments applied to the ledger.",
		}),
		DebtsCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "debitbot_debts_cleared_total",
			Help: "Full clearances applied to the ledger.",
		}),
	}
}

// NewUnregistered creates metrics on a private registry, for tests.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
