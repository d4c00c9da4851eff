package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hieudt/debitbot/internal/chat"
	"github.com/hieudt/debitbot/internal/parser"
)

const invalidAmountReply = "❌ Số tiền không hợp lệ. Ví dụ: 50k, 2tr, 1000000"

// HandleCommand dispatches one structured command invocation. Commands
// outside the community channel are rejected with an ephemeral reply.
func (r *Router) HandleCommand(ctx context.Context, cmd chat.Command) error {
	if cmd.ChannelName != r.channelName {
		return r.gateway.Reply(ctx, cmd,
			fmt.Sprintf("❌ Bot chỉ hoạt động trong channel `%s`", r.channelName), true)
	}

	switch cmd.Name {
	case "debt":
		return r.handleDebt(ctx, cmd)
	case "add-debt":
		return r.handleAddDebt(ctx, cmd)
	case "pay":
		return r.handlePay(ctx, cmd)
	case "clear-debt":
		return r.handleClearDebt(ctx, cmd)
	case "list-debts":
		return r.handleListDebts(ctx, cmd)
	case "help":
		return r.gateway.Reply(ctx, cmd, helpText, false)
	default:
		slog.Warn("unknown command", "name", cmd.Name, "actor_id", cmd.ActorID)
		return nil
	}
}

// handleDebt shows one debtor's balance. Defaults to the invoking user.
func (r *Router) handleDebt(ctx context.Context, cmd chat.Command) error {
	target := cmd.TargetID
	if target == "" {
		target = cmd.ActorID
	}

	info, err := r.ledger.Get(ctx, target)
	if err != nil {
		return err
	}
	if info == nil {
		return r.gateway.Reply(ctx, cmd,
			fmt.Sprintf("✅ %s không có nợ nào.", chat.Mention(target)), true)
	}
	return r.gateway.Reply(ctx, cmd, debtInfoText(target, info), false)
}

// handleAddDebt adds debt to the target user, with the invoker as
// creditor, and announces it in the notification thread.
func (r *Router) handleAddDebt(ctx context.Context, cmd chat.Command) error {
	summary := parser.Summarize(cmd.AmountText)
	if summary == nil {
		return r.gateway.Reply(ctx, cmd, invalidAmountReply, true)
	}
	r.metrics.TokensParsed.Add(float64(len(summary.Tokens)))

	res, err := r.ledger.Add(ctx, cmd.TargetID, summary.Tokens, cmd.ActorID)
	if err != nil {
		return err
	}
	r.metrics.DebtsAdded.Inc()

	if err := r.gateway.Reply(ctx, cmd,
		fmt.Sprintf("✅ Đã thêm nợ **%s** cho %s", res.NewTotalText, chat.Mention(cmd.TargetID)), true); err != nil {
		return err
	}

	section := addDebtSection(cmd.TargetID, summary.Tokens, res)
	return r.postNotice(ctx, cmd.ChannelID, addDebtNote(cmd.ActorID, []string{section}, []string{cmd.TargetID}))
}

// handlePay settles debt for the target user (defaulting to the invoker).
// Without an amount the whole balance is cleared, creditor-only.
func (r *Router) handlePay(ctx context.Context, cmd chat.Command) error {
	target := cmd.TargetID
	if target == "" {
		target = cmd.ActorID
	}

	info, err := r.ledger.Get(ctx, target)
	if err != nil {
		return err
	}
	if info == nil {
		return r.gateway.Reply(ctx, cmd,
			fmt.Sprintf("❌ %s không có nợ nào để thanh toán.", chat.Mention(target)), true)
	}

	if cmd.AmountText == "" {
		if !canClear(cmd.ActorID, info.CreditorID) {
			return r.gateway.Reply(ctx, cmd, notAuthorizedText(target), true)
		}
		if _, err := r.ledger.Clear(ctx, target); err != nil {
			return err
		}
		r.metrics.DebtsCleared.Inc()
		if err := r.gateway.Reply(ctx, cmd,
			fmt.Sprintf("✅ Đã xóa toàn bộ nợ của %s", chat.Mention(target)), true); err != nil {
			return err
		}
		return r.postNotice(ctx, cmd.ChannelID, chat.Note{
			Content:         clearedText(target, info),
			AllowedMentions: []string{target},
		})
	}

	summary := parser.Summarize(cmd.AmountText)
	if summary == nil {
		return r.gateway.Reply(ctx, cmd, "❌ Số tiền không hợp lệ. Ví dụ: 50k, 2tr", true)
	}
	r.metrics.TokensParsed.Add(float64(len(summary.Tokens)))

	res, err := r.reduceByTokens(ctx, target, summary.Tokens)
	if err != nil {
		return err
	}
	if res == nil {
		return r.gateway.Reply(ctx, cmd, "❌ Không thể xử lý thanh toán.", true)
	}
	r.metrics.PaymentsRecorded.Inc()

	if err := r.gateway.Reply(ctx, cmd,
		fmt.Sprintf("✅ Đã ghi nhận thanh toán **%s** của %s", res.PaidAmountText, chat.Mention(target)), true); err != nil {
		return err
	}
	return r.postNotice(ctx, cmd.ChannelID, chat.Note{
		Content:         paymentText(target, info.CreditorID, res),
		AllowedMentions: []string{target},
	})
}

// handleClearDebt wipes the target's balance, creditor-only.
func (r *Router) handleClearDebt(ctx context.Context, cmd chat.Command) error {
	target := cmd.TargetID
	if target == "" {
		target = cmd.ActorID
	}

	info, err := r.ledger.Get(ctx, target)
	if err != nil {
		return err
	}
	if info == nil {
		return r.gateway.Reply(ctx, cmd,
			fmt.Sprintf("❌ %s không có nợ nào để xóa.", chat.Mention(target)), true)
	}
	if !canClear(cmd.ActorID, info.CreditorID) {
		return r.gateway.Reply(ctx, cmd, notAuthorizedText(target), true)
	}

	if _, err := r.ledger.Clear(ctx, target); err != nil {
		return err
	}
	r.metrics.DebtsCleared.Inc()

	if err := r.gateway.Reply(ctx, cmd,
		fmt.Sprintf("✅ Đã xóa toàn bộ nợ của %s", chat.Mention(target)), true); err != nil {
		return err
	}
	return r.postNotice(ctx, cmd.ChannelID, chat.Note{
		Content:         clearedText(target, info),
		AllowedMentions: []string{target},
	})
}

// handleListDebts posts the full roll call of outstanding debts.
func (r *Router) handleListDebts(ctx context.Context, cmd chat.Command) error {
	infos, err := r.ledger.List(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return r.gateway.Reply(ctx, cmd, "✅ Không có nợ nào trong hệ thống.", true)
	}
	return r.gateway.Reply(ctx, cmd, listDebtsText(infos), false)
}
