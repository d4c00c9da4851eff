// Package reminder builds the scheduled morning post: a greeting plus the
// roll call of everyone who still owes money.
package reminder

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/hieudt/debitbot/internal/chat"
	"github.com/hieudt/debitbot/internal/ledger"
)

var greetings = []string{
	"☀️ Chào buổi sáng! Chúc một ngày code mượt ✨",
	"🚀 Good morning! Ship something meaningful today",
	"☕ Coffee first, bugs later",
	"🔥 Morning! Refactor with confidence",
}

var weekdays = map[time.Weekday]string{
	time.Sunday:    "Chủ Nhật",
	time.Monday:    "Thứ Hai",
	time.Tuesday:   "Thứ Ba",
	time.Wednesday: "Thứ Tư",
	time.Thursday:  "Thứ Năm",
	time.Friday:    "Thứ Sáu",
	time.Saturday:  "Thứ Bảy",
}

// Build assembles the morning note. Debtors with outstanding balances get
// a reminder line each; a debt-free day gets a cheer instead.
func Build(infos []*ledger.DebtInfo, now time.Time) chat.Note {
	var b strings.Builder
	b.WriteString("🌅 **Good Morning**\n")
	b.WriteString(greetings[rand.Intn(len(greetings))])
	b.WriteString("\n")
	fmt.Fprintf(&b, "_%s, %s_\n", weekdays[now.Weekday()], now.Format("02/01/2006"))

	if len(infos) == 0 {
		b.WriteString("\n🎉 Không ai còn nợ. Ngày đẹp trời!")
		return chat.Note{Content: b.String()}
	}

	b.WriteString("\n💰 **Nhắc nợ buổi sáng:**\n")
	var debtors []string
	for _, info := range infos {
		fmt.Fprintf(&b, "• %s nợ **%s** (chủ nợ: %s)\n",
			chat.Mention(info.DebtorID), info.TotalText, creditorLabel(info.CreditorID))
		debtors = append(debtors, info.DebtorID)
	}
	b.WriteString("👉 Vui lòng thanh toán đúng hạn.")

	return chat.Note{
		Content:         strings.TrimRight(b.String(), "\n"),
		AllowedMentions: debtors,
	}
}

func creditorLabel(creditorID string) string {
	if creditorID == "" {
		return "Không rõ"
	}
	return chat.Mention(creditorID)
}
