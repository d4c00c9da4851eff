// Package bot routes inbound chat events to the ledger and turns ledger
// results into outbound notifications.
//
// The router owns the two policy rules that do not belong in the ledger:
// debt mutation only happens in the configured community channel, and
// only the creditor of record may zero a balance.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hieudt/debitbot/internal/chat"
	"github.com/hieudt/debitbot/internal/ledger"
	"github.com/hieudt/debitbot/internal/metrics"
	"github.com/hieudt/debitbot/internal/parser"
)

// Router classifies inbound messages and commands and drives the ledger.
type Router struct {
	channelName string
	ledger      *ledger.Service
	gateway     chat.Gateway
	metrics     *metrics.Metrics
}

// New creates a router watching the named community channel.
func New(channelName string, svc *ledger.Service, gateway chat.Gateway, m *metrics.Metrics) *Router {
	return &Router{
		channelName: channelName,
		ledger:      svc,
		gateway:     gateway,
		metrics:     m,
	}
}

// HandleMessage processes one free-text message: payment announcements go
// to the payment handler; amount-bearing messages charge every mentioned
// user and post a reminder; everything else is ignored.
func (r *Router) HandleMessage(ctx context.Context, msg chat.Message) error {
	if !ShouldHandle(msg, r.channelName) {
		return nil
	}
	r.metrics.MessagesSeen.Inc()

	if IsPaymentText(msg.Content) {
		return r.handlePaymentMessage(ctx, msg)
	}

	summary := parser.Summarize(msg.Content)
	if summary == nil {
		return nil
	}
	r.metrics.TokensParsed.Add(float64(len(summary.Tokens)))

	if len(msg.Mentions) == 0 {
		return r.gateway.PostNotice(ctx, msg.ChannelID, reminderNote(summary))
	}

	sections := make([]string, 0, len(msg.Mentions))
	for _, debtorID := range msg.Mentions {
		res, err := r.ledger.Add(ctx, debtorID, summary.Tokens, msg.AuthorID)
		if err != nil {
			slog.Error("debt addition failed", "debtor_id", debtorID, "error", err)
			return err
		}
		r.metrics.DebtsAdded.Inc()
		sections = append(sections, addDebtSection(debtorID, summary.Tokens, res))
	}

	return r.gateway.PostNotice(ctx, msg.ChannelID, addDebtNote(msg.AuthorID, sections, msg.Mentions))
}

// reduceByTokens applies one payment token at a time and merges the
// results into a single view. Stops early when the record is fully
// settled mid-way.
func (r *Router) reduceByTokens(ctx context.Context, debtorID string, tokens []string) (*ledger.PayResult, error) {
	var merged *ledger.PayResult
	for _, tok := range tokens {
		res, err := r.ledger.Reduce(ctx, debtorID, tok)
		if err != nil {
			return nil, err
		}
		if res == nil {
			break
		}
		if merged == nil {
			merged = res
			continue
		}
		merged.PaidAmount += res.PaidAmount
		merged.RemainingTotal = res.RemainingTotal
		merged.PaidAmountText = parser.Format(merged.PaidAmount)
		merged.RemainingTotalText = res.RemainingTotalText
	}
	return merged, nil
}

func (r *Router) postNotice(ctx context.Context, channelID string, note chat.Note) error {
	if err := r.gateway.PostNotice(ctx, channelID, note); err != nil {
		return fmt.Errorf("failed to post notice: %w", err)
	}
	return nil
}
