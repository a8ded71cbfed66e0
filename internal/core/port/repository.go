package port

import (
	"context"

	"github.com/Wyydra/huddle/internal/core/domain"
)

// EventPublisher mirrors membership events to observers outside the process.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.MembershipEvent) error
	Close() error
}
