package port

import (
	"context"

	"github.com/Wyydra/huddle/internal/core/domain"
)

// Notifier delivers outbound messages to connected participants.
// Implementations must not block on a slow recipient.
type Notifier interface {
	Notify(ctx context.Context, recipients []domain.ParticipantID, msg domain.Message) error
}
