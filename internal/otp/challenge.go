package otp

// Phase is the OTP sub-machine state. Verifying is transient: a submission
// enters it and resolves before Submit returns.
type Phase string

const (
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseVerifying     Phase = "verifying"
	PhaseSuccess       Phase = "success"
	PhaseExpired       Phase = "expired"
	PhaseLockedOut     Phase = "locked_out"
)

// Challenge holds one OTP attempt's transient state. It is created when the
// OTP step is entered and discarded when the step is exited.
type Challenge struct {
	codeHash              []byte
	Phase                 Phase
	AttemptsUsed          int
	SecondsUntilExpiry    int
	ResendCooldownSeconds int
}

// Accepting reports whether the challenge still takes code submissions.
func (c *Challenge) Accepting() bool {
	return c.Phase == PhaseAwaitingInput
}

// Expired reports whether the countdown ran out before a successful submit.
func (c *Challenge) Expired() bool {
	return c.Phase == PhaseExpired
}

// LockedOut reports whether the attempt budget is exhausted.
func (c *Challenge) LockedOut() bool {
	return c.Phase == PhaseLockedOut
}

// RemainingAttempts never goes below zero even if callers keep submitting.
func (c *Challenge) RemainingAttempts(maxAttempts int) int {
	if remaining := maxAttempts - c.AttemptsUsed; remaining > 0 {
		return remaining
	}
	return 0
}

// CanResend is true only when the resend cooldown has fully elapsed.
func (c *Challenge) CanResend() bool {
	return c.ResendCooldownSeconds == 0
}
