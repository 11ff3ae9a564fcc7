package verification

import (
	"time"

	"onboard/internal/domain"
)

const nfcStageDelay = 1500 * time.Millisecond

// nfcStages are the sequential chip-read phases; each takes roughly 1.5s in
// the simulation.
var nfcStages = []string{"detect", "read", "parse", "cross_check", "complete"}

// NFCFlow simulates reading the identity chip. The scan starts as soon as the
// step is entered and always succeeds unless cancelled mid-read.
type NFCFlow struct {
	status     Status
	stagesDone int
}

func NewNFCFlow() *NFCFlow {
	return &NFCFlow{status: StatusRunning}
}

// FirstDelay is the wait before the first stage completes.
func (f *NFCFlow) FirstDelay() time.Duration { return nfcStageDelay }

func (f *NFCFlow) Advance() (time.Duration, bool) {
	if f.status != StatusRunning {
		return 0, true
	}
	f.stagesDone++
	if f.stagesDone >= len(nfcStages) {
		f.status = StatusSucceeded
		return 0, true
	}
	return nfcStageDelay, false
}

func (f *NFCFlow) Cancel() {
	if !f.status.Resolved() {
		f.status = StatusCancelled
	}
}

func (f *NFCFlow) Status() Status { return f.status }

func (f *NFCFlow) Progress() Progress {
	stage := nfcStages[min(f.stagesDone, len(nfcStages)-1)]
	return Progress{
		Stage:   stage,
		Percent: f.stagesDone * 100 / len(nfcStages),
	}
}

func (f *NFCFlow) Result() domain.VerificationResult {
	return domain.VerificationResult{
		Channel: domain.ChannelNFC,
		Success: f.status == StatusSucceeded,
	}
}
