package journey

import "time"

// Scheduler delivers one-shot elapsed callbacks for simulated sub-flow
// latency and timed redirects. Callbacks carry the sub-flow instance token
// they were scheduled under; the orchestrator drops any callback whose token
// no longer matches, so a fired timer for a cancelled flow is a no-op and no
// explicit timer cancellation is required.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler is the production scheduler backed by the runtime timer heap.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
