package verification

import (
	"time"

	"onboard/internal/domain"
	dErrors "onboard/pkg/domain-errors"
)

const (
	externalIDStageDelay = 500 * time.Millisecond
	externalIDStages     = 4
)

// ExternalIDFlow simulates confirmation against the national digital-identity
// service. The customer must consent to sharing before anything runs; once
// consented the simulated call always succeeds.
type ExternalIDFlow struct {
	status     Status
	stagesDone int
}

func NewExternalIDFlow() *ExternalIDFlow {
	return &ExternalIDFlow{status: StatusAwaitingConsent}
}

// Consent resolves the sharing gate. Declining cancels the flow; the
// orchestrator returns the journey to the step before the sub-flow with the
// context untouched.
func (f *ExternalIDFlow) Consent(agree bool) (time.Duration, error) {
	if f.status != StatusAwaitingConsent {
		return 0, dErrors.New(dErrors.CodeInvalidState, "consent already resolved")
	}
	if !agree {
		f.status = StatusCancelled
		return 0, nil
	}
	f.status = StatusRunning
	return externalIDStageDelay, nil
}

func (f *ExternalIDFlow) Advance() (time.Duration, bool) {
	if f.status != StatusRunning {
		return 0, true
	}
	f.stagesDone++
	if f.stagesDone >= externalIDStages {
		f.status = StatusSucceeded
		return 0, true
	}
	return externalIDStageDelay, false
}

func (f *ExternalIDFlow) Cancel() {
	if !f.status.Resolved() {
		f.status = StatusCancelled
	}
}

func (f *ExternalIDFlow) Status() Status { return f.status }

func (f *ExternalIDFlow) Progress() Progress {
	return Progress{
		Stage:   "confirming",
		Percent: f.stagesDone * 100 / externalIDStages,
	}
}

// Result is valid only once the flow has succeeded.
func (f *ExternalIDFlow) Result() domain.VerificationResult {
	return domain.VerificationResult{
		Channel: domain.ChannelExternalID,
		Success: f.status == StatusSucceeded,
	}
}
