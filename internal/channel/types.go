// Package channel provides the channel-agnostic message shape and the adapter
// registry used to bridge messaging carriers to the conversation engine.
package channel

import "strings"

// ChannelType identifies a messaging carrier (e.g., "twiliowhatsapp").
type ChannelType string

// String returns the channel type as a plain string.
func (c ChannelType) String() string {
	return string(c)
}

// Message is the internal representation of one inbound or outbound message.
// Inbound messages always carry UserID and ChannelID; Text may be empty.
// Instances are constructed fresh per webhook call and read-only afterward.
type Message struct {
	Text              string `json:"text"`
	UserID            string `json:"user_id"`
	ChannelID         string `json:"channel_id"`
	From              string `json:"from,omitempty"`
	To                string `json:"to,omitempty"`
	Timestamp         int64  `json:"timestamp,omitempty"` // unix milliseconds at decode time
	ProviderMessageID string `json:"provider_message_id,omitempty"`
	MediaURL          string `json:"media_url,omitempty"`
}

// IsEmpty reports whether the message carries no deliverable content.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == "" && strings.TrimSpace(m.MediaURL) == ""
}

// OutboundMessage pairs a delivery target with the message content.
// An empty Target falls back to the message's ChannelID.
type OutboundMessage struct {
	Target  string  `json:"target,omitempty"`
	Message Message `json:"message"`
}
