package convo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/chatwire/wabridge/internal/channel"
)

// ErrConversationEnded is returned when a message reaches an ended conversation.
var ErrConversationEnded = fmt.Errorf("conversation has ended")

// ReceiveFunc handles a follow-up message delivered to a conversation.
type ReceiveFunc func(ctx context.Context, msg channel.Message) error

// StarterFunc runs the bot script for a newly started conversation. It may
// call OnMessage to receive follow-ups and End to close the conversation.
type StarterFunc func(ctx context.Context, c *ManagedConversation, msg channel.Message) error

// ManagedConversation is the Registry's Conversation implementation. It only
// tracks the source message, the active flag, and the received transcript;
// conversation scripting lives with the embedding application.
type ManagedConversation struct {
	id     string
	source channel.Message

	mu        sync.Mutex
	active    bool
	onMessage ReceiveFunc
	received  []channel.Message
}

// ID returns the conversation identifier.
func (c *ManagedConversation) ID() string {
	return c.id
}

// SourceMessage returns the message that started this conversation.
func (c *ManagedConversation) SourceMessage() channel.Message {
	return c.source
}

// IsActive reports whether the conversation still accepts messages.
func (c *ManagedConversation) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// OnMessage installs the handler invoked for each received follow-up.
func (c *ManagedConversation) OnMessage(fn ReceiveFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}

// Receive delivers a follow-up message to the conversation.
func (c *ManagedConversation) Receive(ctx context.Context, msg channel.Message) error {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return ErrConversationEnded
	}
	c.received = append(c.received, msg)
	handler := c.onMessage
	c.mu.Unlock()
	if handler == nil {
		return nil
	}
	return handler(ctx, msg)
}

// End marks the conversation inactive. Ended conversations are skipped by the
// locator but stay enumerable until the registry is reset.
func (c *ManagedConversation) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}

// Received returns a copy of the follow-up messages delivered so far.
func (c *ManagedConversation) Received() []channel.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]channel.Message, len(c.received))
	copy(out, c.received)
	return out
}

type task struct {
	id     string
	convos []*ManagedConversation
}

// Registry is an in-memory conversation engine: a task list where each
// started conversation opens a task, mirroring the runtime this bridge feeds.
// Enumeration order is creation order, which makes the locator's
// first-match-wins tie-break deterministic.
type Registry struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	tasks   []*task
	starter StarterFunc
}

// NewRegistry creates an empty conversation registry.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{logger: log.With(slog.String("component", "convo"))}
}

// SetStarter installs the bot script hook run for each new conversation.
func (r *Registry) SetStarter(fn StarterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starter = fn
}

// ListConversations enumerates all conversations in creation order.
func (r *Registry) ListConversations(ctx context.Context) []Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Conversation, 0, len(r.tasks))
	for _, t := range r.tasks {
		for _, c := range t.convos {
			items = append(items, c)
		}
	}
	return items
}

// StartConversation opens a new task holding one active conversation rooted
// at the given source message, then runs the starter hook if one is set.
func (r *Registry) StartConversation(ctx context.Context, msg channel.Message) error {
	conversation := &ManagedConversation{
		id:     uuid.NewString(),
		source: msg,
		active: true,
	}
	r.mu.Lock()
	r.tasks = append(r.tasks, &task{id: uuid.NewString(), convos: []*ManagedConversation{conversation}})
	starter := r.starter
	r.mu.Unlock()

	r.logger.Info("conversation started",
		slog.String("conversation_id", conversation.id),
		slog.String("channel_id", msg.ChannelID))

	if starter == nil {
		return nil
	}
	return starter(ctx, conversation, msg)
}
