// Package convo connects inbound channel messages to the conversation engine:
// it locates the in-flight conversation a message continues, or asks the
// engine to start a new one.
package convo

import (
	"context"

	"github.com/chatwire/wabridge/internal/channel"
)

// Conversation is one in-flight exchange with a counterparty, owned by the
// engine. The bridge only reads the source message and the active flag.
type Conversation interface {
	SourceMessage() channel.Message
	IsActive() bool
	Receive(ctx context.Context, msg channel.Message) error
}

// Engine abstracts the conversational bot runtime. ListConversations must
// enumerate in a stable, engine-defined order (typically creation order) and
// must not be mutated by callers.
type Engine interface {
	ListConversations(ctx context.Context) []Conversation
	StartConversation(ctx context.Context, msg channel.Message) error
}
