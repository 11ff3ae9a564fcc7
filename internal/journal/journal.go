package journal

import (
	"context"
	"time"

	"onboard/internal/domain"
)

// Entry records one orchestrator transition. The journal is the ops-facing
// trace of a journey: which event moved it from which step to which step.
type Entry struct {
	ID         string      `json:"id"`
	JourneyID  string      `json:"journey_id"`
	FromStep   domain.Step `json:"from_step"`
	ToStep     domain.Step `json:"to_step"`
	Event      string      `json:"event"`
	Detail     string      `json:"detail,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Store persists journey transition entries for the lifetime of the journey.
// Drop discards a journey's entries once its session ends; nothing outlives
// the journey in this design.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByJourney(ctx context.Context, journeyID string) ([]Entry, error)
	Drop(ctx context.Context, journeyID string) error
}
