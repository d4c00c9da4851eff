// Package console is a stdin/stdout development gateway.
//
// It lets the whole pipeline run locally without a platform connection:
// lines typed as "author: text" become messages, "author: /name args"
// become commands, and outbound notices print to stdout. The production
// platform adapter is an external collaborator and lives outside this
// repository.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/hieudt/debitbot/internal/chat"
)

// Ensure Gateway implements chat.Gateway
var _ chat.Gateway = (*Gateway)(nil)

// Handler receives the events parsed from input lines.
type Handler interface {
	HandleMessage(ctx context.Context, msg chat.Message) error
	HandleCommand(ctx context.Context, cmd chat.Command) error
}

// Gateway prints notices and replies to an io.Writer.
type Gateway struct {
	out io.Writer
}

// New creates a console gateway writing to out.
func New(out io.Writer) *Gateway {
	return &Gateway{out: out}
}

// PostNotice prints the notice.
func (g *Gateway) PostNotice(_ context.Context, channelID string, note chat.Note) error {
	fmt.Fprintf(g.out, "--- notice (#%s) ---\n%s\n", channelID, note.Content)
	return nil
}

// Reply prints the command reply.
func (g *Gateway) Reply(_ context.Context, cmd chat.Command, content string, ephemeral bool) error {
	visibility := "public"
	if ephemeral {
		visibility = "ephemeral"
	}
	fmt.Fprintf(g.out, "--- reply to %s (/%s, %s) ---\n%s\n", cmd.ActorID, cmd.Name, visibility, content)
	return nil
}

var mentionIDRe = regexp.MustCompile(`<@!?(\w+)>`)

// Run reads input lines until EOF and feeds them to the handler. The
// channel is fixed to the given name so the policy gate behaves exactly
// as it would in production.
func Run(ctx context.Context, in io.Reader, handler Handler, channelID, channelName string) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		author := "console"
		if i := strings.Index(line, ": "); i > 0 {
			author = line[:i]
			line = strings.TrimSpace(line[i+2:])
		}

		if strings.HasPrefix(line, "/") {
			cmd := parseCommand(line, author, channelID, channelName)
			if err := handler.HandleCommand(ctx, cmd); err != nil {
				return err
			}
			continue
		}

		msg := chat.Message{
			ChannelID:   channelID,
			ChannelName: channelName,
			AuthorID:    author,
			Content:     line,
			Mentions:    extractMentions(line),
		}
		if err := handler.HandleMessage(ctx, msg); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseCommand splits "/add-debt <@123> 50k" into a chat.Command.
func parseCommand(line, author, channelID, channelName string) chat.Command {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	cmd := chat.Command{
		ChannelID:   channelID,
		ChannelName: channelName,
		ActorID:     author,
	}
	if len(fields) == 0 {
		return cmd
	}
	cmd.Name = fields[0]

	rest := fields[1:]
	if len(rest) > 0 {
		if m := mentionIDRe.FindStringSubmatch(rest[0]); m != nil {
			cmd.TargetID = m[1]
			rest = rest[1:]
		}
	}
	cmd.AmountText = strings.Join(rest, " ")
	return cmd
}

func extractMentions(line string) []string {
	var ids []string
	for _, m := range mentionIDRe.FindAllStringSubmatch(line, -1) {
		ids = append(ids, m[1])
	}
	return ids
}
