package twilio

import (
	"net/url"
	"time"

	"github.com/chatwire/wabridge/internal/channel"
)

// decodeInbound maps a Twilio webhook form to the internal message shape.
// It is total: absent wire fields decode to empty values, never an error.
// UserID and ChannelID are both the sender address; the carrier has no
// separate thread identifier.
func decodeInbound(form url.Values) channel.Message {
	sender := form.Get("From")
	return channel.Message{
		Text:              form.Get("Body"),
		UserID:            sender,
		ChannelID:         sender,
		From:              sender,
		To:                form.Get("To"),
		Timestamp:         time.Now().UnixMilli(),
		ProviderMessageID: form.Get("MessageSid"),
		MediaURL:          form.Get("MediaUrl0"),
	}
}

// encodeOutbound maps an internal message to the carrier's Messages API form.
// From is always the bridge's own configured number, never the message's
// original sender. MediaUrl is only present when the message carries one;
// encoding must not fabricate keys.
func encodeOutbound(msg channel.Message, fromNumber string) url.Values {
	payload := url.Values{}
	payload.Set("Body", msg.Text)
	payload.Set("From", fromNumber)
	payload.Set("To", msg.ChannelID)
	if msg.MediaURL != "" {
		payload.Set("MediaUrl", msg.MediaURL)
	}
	return payload
}
