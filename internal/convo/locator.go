package convo

import "github.com/chatwire/wabridge/internal/channel"

// Locate returns the first conversation in enumeration order that is active
// and matches the message by channel id or user id. The match is deliberately
// an OR of the two keys: a reply can arrive on the same channel under a
// different reported user id, or vice versa, depending on carrier quirks.
// First match wins; candidates are never scored against each other.
func Locate(msg channel.Message, conversations []Conversation) (Conversation, bool) {
	for _, c := range conversations {
		if c == nil || !c.IsActive() {
			continue
		}
		source := c.SourceMessage()
		if source.ChannelID == msg.ChannelID || source.UserID == msg.UserID {
			return c, true
		}
	}
	return nil, false
}
