package journey

import "time"

// ManualScheduler queues callbacks instead of arming timers so tests can fire
// simulated latency deterministically, in order, without sleeping.
type ManualScheduler struct {
	pending []scheduled
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.pending = append(s.pending, scheduled{delay: d, fn: fn})
}

// Fire runs the oldest pending callback. Returns false when nothing is queued.
func (s *ManualScheduler) Fire() bool {
	if len(s.pending) == 0 {
		return false
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	next.fn()
	return true
}

// FireAll drains the queue, including callbacks scheduled by earlier ones.
func (s *ManualScheduler) FireAll() {
	for s.Fire() {
	}
}

// Pending reports how many callbacks are queued.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// LastDelay returns the delay of the most recently scheduled callback.
func (s *ManualScheduler) LastDelay() time.Duration {
	if len(s.pending) == 0 {
		return 0
	}
	return s.pending[len(s.pending)-1].delay
}
