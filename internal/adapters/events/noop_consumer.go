package events

import "context"

// NoopConsumer stands in when no broker is configured; snapshot reads still
// expire entries through their TTL.
type NoopConsumer struct{}

func NewNoopConsumer() *NoopConsumer {
	return &NoopConsumer{}
}

func (n *NoopConsumer) Poll(_ context.Context, _ int) ([]Message, error) {
	return nil, nil
}
