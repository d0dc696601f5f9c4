package convo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chatwire/wabridge/internal/channel"
)

// ErrQueueFull is returned by Enqueue when the inbound queue is saturated.
var ErrQueueFull = fmt.Errorf("inbound queue is full")

// Dispatcher routes decoded inbound messages into the conversation engine.
// A single worker drains the queue, so messages from one sender are processed
// in arrival order. Enqueue never blocks the caller; the webhook response is
// not on the routing path.
//
// Two messages decoded before either is routed can still both miss the
// locator and each start a conversation (for example across process
// instances); that race is accepted, not serialized away.
type Dispatcher struct {
	engine Engine
	logger *slog.Logger
	queue  chan channel.Message
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher creates a Dispatcher over the given engine.
func NewDispatcher(log *slog.Logger, engine Engine) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		engine: engine,
		logger: log.With(slog.String("component", "dispatcher")),
		queue:  make(chan channel.Message, 256),
		done:   make(chan struct{}),
	}
}

// Start launches the worker. Subsequent calls are no-ops.
func (d *Dispatcher) Start(ctx context.Context) {
	d.once.Do(func() {
		ctx, d.cancel = context.WithCancel(ctx)
		go d.run(ctx)
	})
}

// Shutdown stops the worker and waits for it to exit.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue hands an inbound message to the worker without blocking.
func (d *Dispatcher) Enqueue(msg channel.Message) error {
	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			d.dispatch(ctx, msg)
		}
	}
}

// dispatch routes one message: an active conversation matching by channel or
// user id continues, otherwise the engine starts a new one. Errors are logged
// and isolated to the message that caused them.
func (d *Dispatcher) dispatch(ctx context.Context, msg channel.Message) {
	if d.engine == nil {
		d.logger.Error("no engine configured, dropping message", slog.String("user_id", msg.UserID))
		return
	}
	if existing, ok := Locate(msg, d.engine.ListConversations(ctx)); ok {
		if err := existing.Receive(ctx, msg); err != nil {
			d.logger.Error("conversation receive failed",
				slog.String("channel_id", msg.ChannelID),
				slog.Any("error", err))
		}
		return
	}
	if err := d.engine.StartConversation(ctx, msg); err != nil {
		d.logger.Error("start conversation failed",
			slog.String("channel_id", msg.ChannelID),
			slog.Any("error", err))
	}
}
