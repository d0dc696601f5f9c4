package convo_test

import (
	"context"
	"testing"

	"github.com/chatwire/wabridge/internal/channel"
	"github.com/chatwire/wabridge/internal/convo"
)

type fakeConversation struct {
	name     string
	source   channel.Message
	active   bool
	received []channel.Message
	notify   chan struct{}
}

func (c *fakeConversation) SourceMessage() channel.Message { return c.source }
func (c *fakeConversation) IsActive() bool                 { return c.active }
func (c *fakeConversation) Receive(ctx context.Context, msg channel.Message) error {
	c.received = append(c.received, msg)
	if c.notify != nil {
		c.notify <- struct{}{}
	}
	return nil
}

func TestLocate_SingleActiveMatch(t *testing.T) {
	t.Parallel()
	target := &fakeConversation{
		name:   "match",
		source: channel.Message{ChannelID: "+1555", UserID: "+1555"},
		active: true,
	}
	conversations := []convo.Conversation{
		&fakeConversation{name: "other", source: channel.Message{ChannelID: "+1666", UserID: "+1666"}, active: true},
		target,
	}

	got, ok := convo.Locate(channel.Message{ChannelID: "+1555", UserID: "+1555"}, conversations)
	if !ok {
		t.Fatal("Locate() = none, want match")
	}
	if got != target {
		t.Fatalf("Locate() = %v, want %v", got, target)
	}
}

func TestLocate_FirstMatchWins(t *testing.T) {
	t.Parallel()
	first := &fakeConversation{name: "first", source: channel.Message{ChannelID: "+1555", UserID: "+1555"}, active: true}
	second := &fakeConversation{name: "second", source: channel.Message{ChannelID: "+1555", UserID: "+1555"}, active: true}

	got, ok := convo.Locate(channel.Message{ChannelID: "+1555", UserID: "+1555"}, []convo.Conversation{first, second})
	if !ok || got != first {
		t.Fatalf("Locate() = (%v, %v), want first conversation in enumeration order", got, ok)
	}
}

func TestLocate_ChannelMatchOverridesUserMismatch(t *testing.T) {
	t.Parallel()
	target := &fakeConversation{source: channel.Message{ChannelID: "+1555", UserID: "+1555"}, active: true}

	got, ok := convo.Locate(channel.Message{ChannelID: "+1555", UserID: "+1777"}, []convo.Conversation{target})
	if !ok || got != target {
		t.Fatalf("Locate() = (%v, %v), want channel-id match despite user mismatch", got, ok)
	}
}

func TestLocate_UserMatchAlone(t *testing.T) {
	t.Parallel()
	target := &fakeConversation{source: channel.Message{ChannelID: "+1555", UserID: "+1555"}, active: true}

	got, ok := convo.Locate(channel.Message{ChannelID: "+1999", UserID: "+1555"}, []convo.Conversation{target})
	if !ok || got != target {
		t.Fatalf("Locate() = (%v, %v), want user-id match despite channel mismatch", got, ok)
	}
}

func TestLocate_SkipsInactive(t *testing.T) {
	t.Parallel()
	inactive := &fakeConversation{source: channel.Message{ChannelID: "+1555", UserID: "+1555"}, active: false}
	active := &fakeConversation{source: channel.Message{ChannelID: "+1555", UserID: "+1555"}, active: true}

	got, ok := convo.Locate(channel.Message{ChannelID: "+1555"}, []convo.Conversation{inactive, active})
	if !ok || got != active {
		t.Fatalf("Locate() = (%v, %v), want the active conversation", got, ok)
	}
}

func TestLocate_NoMatch(t *testing.T) {
	t.Parallel()
	conversations := []convo.Conversation{
		&fakeConversation{source: channel.Message{ChannelID: "+1666", UserID: "+1666"}, active: true},
	}

	got, ok := convo.Locate(channel.Message{ChannelID: "+1555", UserID: "+1555"}, conversations)
	if ok || got != nil {
		t.Fatalf("Locate() = (%v, %v), want (nil, false)", got, ok)
	}
}
