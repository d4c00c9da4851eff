package console

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/hieudt/debitbot/internal/chat"
)

type recordingHandler struct {
	messages []chat.Message
	commands []chat.Command
}

func (h *recordingHandler) HandleMessage(_ context.Context, msg chat.Message) error {
	h.messages = append(h.messages, msg)
	return nil
}

func (h *recordingHandler) HandleCommand(_ context.Context, cmd chat.Command) error {
	h.commands = append(h.commands, cmd)
	return nil
}

func TestRun(t *testing.T) {
	input := strings.Join([]string{
		"alice: anh <@42> 50k",
		"",
		"bob: /add-debt <@43> 2tr",
		"/list-debts",
		"just a line without an author",
	}, "\n")

	handler := &recordingHandler{}
	err := Run(context.Background(), strings.NewReader(input), handler, "chan-1", "đại-gia-bđs")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(handler.messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(handler.messages))
	}
	msg := handler.messages[0]
	if msg.AuthorID != "alice" || msg.Content != "anh <@42> 50k" {
		t.Errorf("message = %+v", msg)
	}
	if !reflect.DeepEqual(msg.Mentions, []string{"42"}) {
		t.Errorf("Mentions = %v, want [42]", msg.Mentions)
	}
	if msg.ChannelName != "đại-gia-bđs" {
		t.Errorf("ChannelName = %q", msg.ChannelName)
	}
	if handler.messages[1].AuthorID != "console" {
		t.Errorf("author should default to console, got %q", handler.messages[1].AuthorID)
	}

	if len(handler.commands) != 2 {
		t.Fatalf("commands = %d, want 2", len(handler.commands))
	}
	cmd := handler.commands[0]
	if cmd.Name != "add-debt" || cmd.ActorID != "bob" || cmd.TargetID != "43" || cmd.AmountText != "2tr" {
		t.Errorf("command = %+v", cmd)
	}
	if handler.commands[1].Name != "list-debts" || handler.commands[1].TargetID != "" {
		t.Errorf("command = %+v", handler.commands[1])
	}
}

func TestGatewayOutput(t *testing.T) {
	var out strings.Builder
	gw := New(&out)

	if err := gw.PostNotice(context.Background(), "chan-1", chat.Note{Content: "hello"}); err != nil {
		t.Fatalf("PostNotice failed: %v", err)
	}
	if err := gw.Reply(context.Background(), chat.Command{Name: "help", ActorID: "alice"}, "usage", true); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"hello", "usage", "ephemeral", "alice"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
