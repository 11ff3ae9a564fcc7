package verification

import (
	"time"
)

const (
	biometricStageDelay = time.Second
	biometricStages     = 3
)

// BiometricFlow simulates the capture ramp (0 to 100% over about three
// seconds) and resolves to the provider's outcome. A preset fixture pins the
// provider; otherwise the weighted random default rules.
type BiometricFlow struct {
	status     Status
	stagesDone int
	outcome    OutcomeProvider
	succeeded  bool
}

func NewBiometricFlow(outcome OutcomeProvider) *BiometricFlow {
	return &BiometricFlow{status: StatusRunning, outcome: outcome}
}

func (f *BiometricFlow) FirstDelay() time.Duration { return biometricStageDelay }

func (f *BiometricFlow) Advance() (time.Duration, bool) {
	if f.status != StatusRunning {
		return 0, true
	}
	f.stagesDone++
	if f.stagesDone >= biometricStages {
		if f.succeeded = f.outcome.Draw(); f.succeeded {
			f.status = StatusSucceeded
		} else {
			f.status = StatusFailed
		}
		return 0, true
	}
	return biometricStageDelay, false
}

func (f *BiometricFlow) Cancel() {
	if !f.status.Resolved() {
		f.status = StatusCancelled
	}
}

func (f *BiometricFlow) Status() Status { return f.status }

func (f *BiometricFlow) Progress() Progress {
	return Progress{
		Stage:   "capturing",
		Percent: f.stagesDone * 100 / biometricStages,
	}
}

// Succeeded is valid only once the flow has resolved.
func (f *BiometricFlow) Succeeded() bool { return f.succeeded }
