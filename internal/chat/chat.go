// Package chat defines the boundary to the messaging platform.
//
// The platform client itself (connection handling, thread creation,
// mention rendering) is an external collaborator; the bot only consumes
// the data below and posts notices back through the Gateway interface.
package chat

import "context"

// Message is one inbound free-text message.
type Message struct {
	// ChannelID identifies the channel (or the parent channel when the
	// message was posted inside a thread).
	ChannelID string

	// ChannelName is the parent channel's display name, used for the
	// community-channel policy gate.
	ChannelName string

	// AuthorID identifies the sender.
	AuthorID string

	// AuthorIsBot is true for messages from bots, including our own.
	AuthorIsBot bool

	// Content is the raw message text, mentions included.
	Content string

	// Mentions holds the mentioned user IDs in order of appearance.
	Mentions []string
}

// Command is one structured command invocation.
type Command struct {
	// Name is the command name: debt, add-debt, pay, clear-debt,
	// list-debts or help.
	Name string

	// ChannelID and ChannelName locate the invocation like Message does.
	ChannelID   string
	ChannelName string

	// ActorID is the user who invoked the command.
	ActorID string

	// TargetID is the user option, empty when omitted.
	TargetID string

	// AmountText is the raw amount option, empty when omitted.
	AmountText string
}

// Note is an outbound notification for the channel's notification thread.
type Note struct {
	// Content is the rendered notification text.
	Content string

	// AllowedMentions lists the user IDs whose mentions may render as
	// live pings; everyone else stays plain text.
	AllowedMentions []string
}

// Gateway is the outbound half of the platform client. PostNotice targets
// the channel's dedicated notification thread, which the gateway creates
// lazily when absent.
type Gateway interface {
	PostNotice(ctx context.Context, channelID string, note Note) error

	// Reply answers a command invocation. Ephemeral replies are visible
	// only to the invoking user on platforms that support it.
	Reply(ctx context.Context, cmd Command, content string, ephemeral bool) error
}

// Mention renders a user mention in the platform's wire syntax.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
