package nop

import (
	"context"

	"github.com/Wyydra/huddle/internal/core/domain"
)

// Publisher discards membership events.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, ev domain.MembershipEvent) error {
	return nil
}

func (p *Publisher) Close() error {
	return nil
}
