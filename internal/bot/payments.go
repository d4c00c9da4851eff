package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hieudt/debitbot/internal/chat"
	"github.com/hieudt/debitbot/internal/parser"
)

// handlePaymentMessage settles debts announced in free text ("đã trả 50k
// @user", "đã trả hết"). Without mentions the payment applies to the
// author; with mentions it applies to each mentioned user. A message
// carrying a full-payment keyword, or no amount at all, clears the whole
// balance, gated to the creditor of record.
func (r *Router) handlePaymentMessage(ctx context.Context, msg chat.Message) error {
	full := IsFullPaymentText(msg.Content)
	summary := parser.Summarize(msg.Content)
	if summary != nil {
		r.metrics.TokensParsed.Add(float64(len(summary.Tokens)))
	}

	targets := msg.Mentions
	aggregated := len(targets) > 0
	if !aggregated {
		targets = []string{msg.AuthorID}
	}

	sections := make([]string, 0, len(targets))
	for _, debtorID := range targets {
		section, err := r.settleOne(ctx, msg.AuthorID, debtorID, full, summary)
		if err != nil {
			slog.Error("payment handling failed", "debtor_id", debtorID, "error", err)
			return err
		}
		sections = append(sections, section)
	}

	note := chat.Note{
		Content:         strings.Join(sections, "\n\n"),
		AllowedMentions: targets,
	}
	if aggregated {
		note.Content = "✅ **Thông báo thanh toán**\n\n" + note.Content
	}
	return r.postNotice(ctx, msg.ChannelID, note)
}

// settleOne applies one payment announcement to one debtor and returns
// the notification section describing the outcome.
func (r *Router) settleOne(ctx context.Context, actorID, debtorID string, full bool, summary *parser.Summary) (string, error) {
	info, err := r.ledger.Get(ctx, debtorID)
	if err != nil {
		return "", err
	}
	if info == nil {
		return fmt.Sprintf("❌ %s không có nợ nào để xóa.", chat.Mention(debtorID)), nil
	}

	if full || summary == nil {
		if !canClear(actorID, info.CreditorID) {
			return notAuthorizedText(debtorID), nil
		}
		if _, err := r.ledger.Clear(ctx, debtorID); err != nil {
			return "", err
		}
		r.metrics.DebtsCleared.Inc()
		return clearedText(debtorID, info), nil
	}

	res, err := r.reduceByTokens(ctx, debtorID, summary.Tokens)
	if err != nil {
		return "", err
	}
	if res == nil {
		return fmt.Sprintf("❌ Không thể xử lý thanh toán cho %s.", chat.Mention(debtorID)), nil
	}
	r.metrics.PaymentsRecorded.Inc()
	return paymentText(debtorID, info.CreditorID, res), nil
}

// canClear enforces the creditor-of-record rule: full clearance is
// allowed when no creditor was ever recorded, or when the actor is the
// creditor.
func canClear(actorID, creditorID string) bool {
	return creditorID == "" || actorID == creditorID
}
