package convo_test

import (
	"context"
	"testing"

	"github.com/chatwire/wabridge/internal/channel"
	"github.com/chatwire/wabridge/internal/convo"
)

func TestRegistry_StartConversationRunsStarter(t *testing.T) {
	t.Parallel()
	registry := convo.NewRegistry(nil)

	var started *convo.ManagedConversation
	registry.SetStarter(func(ctx context.Context, c *convo.ManagedConversation, msg channel.Message) error {
		started = c
		if msg.Text != "hello" {
			t.Fatalf("starter msg.Text = %q, want %q", msg.Text, "hello")
		}
		return nil
	})

	source := channel.Message{Text: "hello", ChannelID: "+1555", UserID: "+1555"}
	if err := registry.StartConversation(context.Background(), source); err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}
	if started == nil {
		t.Fatal("starter was not invoked")
	}
	if started.ID() == "" {
		t.Fatal("started conversation has no id")
	}
	if !started.IsActive() {
		t.Fatal("started conversation is not active")
	}
	if started.SourceMessage().ChannelID != "+1555" {
		t.Fatalf("SourceMessage().ChannelID = %q, want %q", started.SourceMessage().ChannelID, "+1555")
	}
}

func TestRegistry_ListConversationsCreationOrder(t *testing.T) {
	t.Parallel()
	registry := convo.NewRegistry(nil)
	ctx := context.Background()

	for _, id := range []string{"+1001", "+1002", "+1003"} {
		if err := registry.StartConversation(ctx, channel.Message{ChannelID: id, UserID: id}); err != nil {
			t.Fatalf("StartConversation(%s) error = %v", id, err)
		}
	}

	conversations := registry.ListConversations(ctx)
	if len(conversations) != 3 {
		t.Fatalf("ListConversations() len = %d, want 3", len(conversations))
	}
	for i, want := range []string{"+1001", "+1002", "+1003"} {
		if got := conversations[i].SourceMessage().ChannelID; got != want {
			t.Fatalf("conversations[%d].ChannelID = %q, want %q", i, got, want)
		}
	}
}

func TestManagedConversation_ReceiveAfterEnd(t *testing.T) {
	t.Parallel()
	registry := convo.NewRegistry(nil)
	ctx := context.Background()

	var conversation *convo.ManagedConversation
	registry.SetStarter(func(ctx context.Context, c *convo.ManagedConversation, msg channel.Message) error {
		conversation = c
		return nil
	})
	if err := registry.StartConversation(ctx, channel.Message{ChannelID: "+1555"}); err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}

	if err := conversation.Receive(ctx, channel.Message{Text: "first"}); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	conversation.End()
	if conversation.IsActive() {
		t.Fatal("conversation still active after End()")
	}
	if err := conversation.Receive(ctx, channel.Message{Text: "late"}); err != convo.ErrConversationEnded {
		t.Fatalf("Receive() after End error = %v, want ErrConversationEnded", err)
	}
	if got := conversation.Received(); len(got) != 1 || got[0].Text != "first" {
		t.Fatalf("Received() = %v, want the single pre-End message", got)
	}

	// Ended conversations stay enumerable but the locator skips them.
	conversations := registry.ListConversations(ctx)
	if len(conversations) != 1 {
		t.Fatalf("ListConversations() len = %d, want 1", len(conversations))
	}
	if _, ok := convo.Locate(channel.Message{ChannelID: "+1555"}, conversations); ok {
		t.Fatal("Locate() matched an ended conversation")
	}
}

func TestManagedConversation_OnMessageHandler(t *testing.T) {
	t.Parallel()
	registry := convo.NewRegistry(nil)
	ctx := context.Background()

	var replies []string
	registry.SetStarter(func(ctx context.Context, c *convo.ManagedConversation, msg channel.Message) error {
		c.OnMessage(func(ctx context.Context, m channel.Message) error {
			replies = append(replies, m.Text)
			return nil
		})
		return nil
	})
	if err := registry.StartConversation(ctx, channel.Message{ChannelID: "+1555"}); err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}

	conversation := registry.ListConversations(ctx)[0]
	if err := conversation.Receive(ctx, channel.Message{Text: "follow-up"}); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if len(replies) != 1 || replies[0] != "follow-up" {
		t.Fatalf("handler saw %v, want the follow-up text", replies)
	}
}
