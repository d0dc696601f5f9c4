package channel

import "context"

// Adapter is the base interface every carrier adapter must implement.
type Adapter interface {
	Type() ChannelType
	Descriptor() Descriptor
}

// Descriptor holds read-only metadata for a registered carrier.
type Descriptor struct {
	Type        ChannelType
	DisplayName string
}

// Sender is an adapter capable of delivering outbound messages. On success it
// returns the carrier's message identifier; on failure the transport error is
// returned unmodified. One attempt per call, no implicit retry.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) (providerMessageID string, err error)
}
