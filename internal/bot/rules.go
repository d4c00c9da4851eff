package bot

import (
	"strings"

	"github.com/hieudt/debitbot/internal/chat"
)

// Keywords that mark a message as a payment announcement rather than a
// new debt. Matching is case-insensitive substring search.
var paymentKeywords = []string{
	"đã trả",
	"đã trả hết",
	"đã thanh toán",
	"đã thanh toán hết",
	"paid",
	"clear debt",
	"xóa nợ",
}

// Keywords that mean the whole balance was settled, not a partial amount.
var fullPaymentKeywords = []string{
	"đã trả hết",
	"đã thanh toán hết",
	"clear all",
	"xóa hết",
}

// ShouldHandle is the policy gate for inbound messages: bots are ignored
// and only the configured community channel (or its threads) is watched.
func ShouldHandle(msg chat.Message, channelName string) bool {
	if msg.AuthorIsBot {
		return false
	}
	return msg.ChannelName == channelName
}

// IsPaymentText reports whether content announces a payment. Full
// settlement phrases count too.
func IsPaymentText(content string) bool {
	return containsAny(content, paymentKeywords) || containsAny(content, fullPaymentKeywords)
}

// IsFullPaymentText reports whether content announces a full settlement.
func IsFullPaymentText(content string) bool {
	return containsAny(content, fullPaymentKeywords)
}

func containsAny(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
