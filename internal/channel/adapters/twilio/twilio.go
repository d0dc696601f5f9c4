// Package twilio bridges Twilio's WhatsApp channel to the internal message
// shape: webhook ingest with request-signature verification inbound, the
// Messages REST API outbound.
package twilio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chatwire/wabridge/internal/channel"
	"github.com/chatwire/wabridge/internal/config"
)

// Type is the channel type served by this adapter.
const Type = channel.ChannelType("twiliowhatsapp")

// TwilioAdapter implements the channel.Adapter and channel.Sender interfaces
// for WhatsApp over Twilio.
type TwilioAdapter struct {
	logger *slog.Logger
	cfg    config.TwilioConfig
	client *Client
}

// NewTwilioAdapter creates a TwilioAdapter with the given configuration.
func NewTwilioAdapter(log *slog.Logger, cfg config.TwilioConfig) *TwilioAdapter {
	if log == nil {
		log = slog.Default()
	}
	logger := log.With(slog.String("adapter", "twiliowhatsapp"))
	return &TwilioAdapter{
		logger: logger,
		cfg:    cfg,
		client: NewClient(logger, cfg.AccountSID, cfg.AuthToken),
	}
}

// Type returns the Twilio WhatsApp channel type.
func (a *TwilioAdapter) Type() channel.ChannelType {
	return Type
}

// Descriptor returns the channel metadata.
func (a *TwilioAdapter) Descriptor() channel.Descriptor {
	return channel.Descriptor{
		Type:        Type,
		DisplayName: "Twilio WhatsApp",
	}
}

// Send encodes the reply into the carrier's wire format and delivers it with
// a single Messages API call. The returned identifier is the carrier's
// message sid; a transport failure is returned unmodified.
func (a *TwilioAdapter) Send(ctx context.Context, msg channel.OutboundMessage) (string, error) {
	out := msg.Message
	if target := strings.TrimSpace(msg.Target); target != "" {
		out.ChannelID = target
	}
	if strings.TrimSpace(out.ChannelID) == "" {
		return "", fmt.Errorf("target is required")
	}
	if out.IsEmpty() {
		return "", fmt.Errorf("message is required")
	}
	return a.client.CreateMessage(ctx, encodeOutbound(out, a.cfg.TwilioNumber))
}
