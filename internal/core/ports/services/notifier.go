package services

import "github.com/wagetrack/wagetrack/internal/core/domain"

// EventPublisher is the push side of the live notification fan-out. Publish
// is best-effort and must never block or fail the triggering mutation.
type EventPublisher interface {
	Publish(event domain.Event, userIDs []int64)
}

// EventSubscriber is the pull side consumed by the event stream endpoint. The
// returned cancel func releases the subscription and closes the channel.
type EventSubscriber interface {
	Subscribe(userID int64) (<-chan domain.Event, func())
}
