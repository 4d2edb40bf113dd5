package service

import (
	"context"

	"github.com/iliyamo/waste-pickup/internal/queue"
)

// EventPublisher delivers booking events.  Implementations may be slow or
// fail; callers treat delivery as best effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}
