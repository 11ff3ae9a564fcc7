package verification

import (
	"math/rand/v2"
	"time"
)

// Status is the lifecycle of a verification sub-flow instance.
type Status string

const (
	StatusAwaitingConsent Status = "awaiting_consent"
	StatusRunning         Status = "running"
	StatusSucceeded       Status = "succeeded"
	StatusFailed          Status = "failed"
	StatusCancelled       Status = "cancelled"
)

// Resolved reports whether the flow produced its one result (or was
// abandoned) and will ignore further events.
func (s Status) Resolved() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}

// Progress is the renderable snapshot of a running flow.
type Progress struct {
	Stage   string `json:"stage"`
	Percent int    `json:"percent"`
}

// Subflow is the common surface the orchestrator drives. Advance is called
// when the scheduled stage delay elapses; it returns the delay until the next
// stage, or done=true when the flow has resolved.
type Subflow interface {
	Advance() (next time.Duration, done bool)
	Cancel()
	Status() Status
	Progress() Progress
}

// OutcomeProvider abstracts the biometric result draw so tests can pin it
// while production keeps the weighted random default.
type OutcomeProvider interface {
	Draw() bool
}

// WeightedProvider draws success with a fixed probability. The production
// default is the 70/30 split the demo uses for realism.
type WeightedProvider struct {
	successRate float64
}

func NewWeightedProvider(successRate float64) *WeightedProvider {
	return &WeightedProvider{successRate: successRate}
}

func (p *WeightedProvider) Draw() bool {
	return rand.Float64() < p.successRate
}

// PresetProvider always returns the configured outcome. It backs the fixture
// rows that pin biometric success or failure.
type PresetProvider struct {
	outcome bool
}

func NewPresetProvider(outcome bool) *PresetProvider {
	return &PresetProvider{outcome: outcome}
}

func (p *PresetProvider) Draw() bool {
	return p.outcome
}
