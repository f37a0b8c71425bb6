package infrastructure

import (
	"zlpix/domain/events"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher drops all events. Used when NATS is not configured,
// e.g. in local development.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish logs and drops the event
func (p *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Debug("Dropping event (noop publisher)")
	return nil
}
