package publishers

import "context"

// Publisher sends events to a downstream sink (SQS, SNS, Pub/Sub, HTTP).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Sender is the broker-facing half of a queue publisher. It delivers one
// event without knowing its registry identity, which keeps the SDK
// surface small enough to fake in tests.
type Sender interface {
	Send(ctx context.Context, evt Event) error
}
