package bot

import (
	"fmt"
	"strings"

	"github.com/hieudt/debitbot/internal/chat"
	"github.com/hieudt/debitbot/internal/ledger"
	"github.com/hieudt/debitbot/internal/parser"
)

// Notification text assembly. All user-facing strings live here so the
// router and command handlers stay about control flow.

// creditorMention renders the creditor of record, falling back to a
// neutral label when unknown.
func creditorMention(creditorID string) string {
	if creditorID == "" {
		return "Không rõ"
	}
	return chat.Mention(creditorID)
}

// reminderNote announces amounts mentioned in free text without a ledger
// change (no one was mentioned, so there is nobody to charge).
func reminderNote(summary *parser.Summary) chat.Note {
	var b strings.Builder
	b.WriteString("💰 **Nhắc thanh toán**\n")
	if len(summary.Tokens) > 1 {
		fmt.Fprintf(&b, "**Các khoản:** %s\n", strings.Join(summary.Tokens, ", "))
		fmt.Fprintf(&b, "**Tổng cộng: %s**\n", summary.TotalText)
	} else {
		fmt.Fprintf(&b, "Số tiền được đề cập: **%s**\n", summary.TotalText)
	}
	b.WriteString("👉 Vui lòng thanh toán đúng hạn.")
	return chat.Note{Content: b.String()}
}

// addDebtSection renders one debtor's updated balance after an addition.
func addDebtSection(debtorID string, tokens []string, res *ledger.AddResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s:**\n", chat.Mention(debtorID))
	if res.OldTotal > 0 {
		if len(tokens) > 1 {
			fmt.Fprintf(&b, "  • Khoản mới: %s (%s)\n", strings.Join(tokens, ", "), res.AddedTotalText)
		} else {
			fmt.Fprintf(&b, "  • Khoản mới: %s\n", res.AddedTotalText)
		}
		fmt.Fprintf(&b, "  • Nợ cũ: %s\n", res.OldTotalText)
		fmt.Fprintf(&b, "  • **Tổng nợ: %s**\n", res.NewTotalText)
	} else {
		if len(tokens) > 1 {
			fmt.Fprintf(&b, "  • Khoản nợ: %s\n", strings.Join(tokens, ", "))
			fmt.Fprintf(&b, "  • **Tổng: %s**\n", res.NewTotalText)
		} else {
			fmt.Fprintf(&b, "  • **Số tiền: %s**\n", res.NewTotalText)
		}
	}
	return b.String()
}

// addDebtNote announces debt additions to the notification thread.
func addDebtNote(creditorID string, sections []string, debtorIDs []string) chat.Note {
	var b strings.Builder
	b.WriteString("💰 **Nhắc thanh toán**\n")
	fmt.Fprintf(&b, "**👤 Người chủ nợ:** %s\n\n", chat.Mention(creditorID))
	for _, section := range sections {
		b.WriteString(section)
		b.WriteString("\n")
	}
	b.WriteString("👉 Vui lòng thanh toán đúng hạn.")
	return chat.Note{Content: b.String(), AllowedMentions: debtorIDs}
}

// clearedText announces a full settlement.
func clearedText(debtorID string, info *ledger.DebtInfo) string {
	return fmt.Sprintf("✅ **Đã xóa nợ**\n%s đã thanh toán hết nợ: **%s**\n**👤 Người chủ nợ:** %s\n🎉 Không còn nợ!",
		chat.Mention(debtorID), info.TotalText, creditorMention(info.CreditorID))
}

// paymentText announces a partial payment, or a payment that happened to
// settle the whole balance.
func paymentText(debtorID, creditorID string, res *ledger.PayResult) string {
	if res.RemainingTotal == 0 {
		return fmt.Sprintf("✅ **Đã thanh toán**\n%s đã trả: **%s**\n**👤 Người chủ nợ:** %s\n🎉 Đã thanh toán hết nợ!",
			chat.Mention(debtorID), res.PaidAmountText, creditorMention(creditorID))
	}
	return fmt.Sprintf("✅ **Đã thanh toán một phần**\n%s:\n  • Đã trả: **%s**\n  • Nợ cũ: %s\n  • **Còn lại: %s**\n**👤 Người chủ nợ:** %s",
		chat.Mention(debtorID), res.PaidAmountText, res.OldTotalText, res.RemainingTotalText, creditorMention(creditorID))
}

// notAuthorizedText rejects a full clearance by someone other than the
// creditor of record.
func notAuthorizedText(debtorID string) string {
	return fmt.Sprintf("❌ Bạn không có quyền xóa toàn bộ nợ của %s. Chỉ **chủ nợ** mới được xóa.",
		chat.Mention(debtorID))
}

// debtInfoText renders one debtor's balance for the debt command.
func debtInfoText(debtorID string, info *ledger.DebtInfo) string {
	var b strings.Builder
	b.WriteString("💰 **Thông tin nợ**\n")
	fmt.Fprintf(&b, "**Người nợ:** %s\n", chat.Mention(debtorID))
	fmt.Fprintf(&b, "**Người chủ nợ:** %s\n", creditorMention(info.CreditorID))
	fmt.Fprintf(&b, "Tổng nợ: **%s**\n", info.TotalText)
	fmt.Fprintf(&b, "Số khoản: %d", len(info.History))
	return b.String()
}

// listDebtsText renders the full roll call for the list-debts command.
func listDebtsText(infos []*ledger.DebtInfo) string {
	var b strings.Builder
	b.WriteString("📋 **Danh sách nợ**\n")
	fmt.Fprintf(&b, "Tổng cộng: **%d** người có nợ\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(&b, "• %s nợ **%s** (chủ nợ: %s)\n",
			chat.Mention(info.DebtorID), info.TotalText, creditorMention(info.CreditorID))
	}
	return strings.TrimRight(b.String(), "\n")
}

const helpText = "📖 **Hướng dẫn sử dụng Bot Quản Lý Nợ**\n" +
	"💰 `/debt [user]` — Xem nợ của một người (để trống để xem nợ của bạn)\n" +
	"➕ `/add-debt <user> <amount>` — Thêm nợ cho người khác. Ví dụ: `/add-debt @user 50k`\n" +
	"💳 `/pay [user] [amount]` — Thanh toán nợ. Để trống amount để trả hết. Ví dụ: `/pay @user 50k`\n" +
	"🗑️ `/clear-debt [user]` — Xóa toàn bộ nợ (chỉ chủ nợ)\n" +
	"📋 `/list-debts` — Liệt kê tất cả nợ trong hệ thống\n" +
	"💬 Chat bình thường cũng được:\n" +
	"• `anh @user 50k` → Tự động thêm nợ\n" +
	"• `đã trả 50k @user` → Thanh toán nợ"
