package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/productcatalog/internal/platform/messaging"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsPublisher publishes events to a JetStream stream.
type NatsPublisher struct {
	js jetstream.JetStream
}

func NewNatsPublisher(js jetstream.JetStream) *NatsPublisher {
	return &NatsPublisher{js: js}
}

// Publish sends the event payload on the event subject and waits for the stream ack.
// Events carrying headers (e.g. trace context) have them copied onto the message.
func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	msg := nats.NewMsg(event.Subject())
	msg.Data = data
	if hc, ok := event.(messaging.HeaderCarrier); ok {
		for key, value := range hc.Headers() {
			msg.Header.Set(key, value)
		}
	}
	if _, err := p.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event on %s: %w", event.Subject(), err)
	}
	return nil
}
