package journey

import (
	"onboard/internal/domain"
	"onboard/internal/otp"
	"onboard/internal/verification"
)

// OTPView is the renderable slice of the live OTP challenge. The code hash
// never leaves the sub-machine.
type OTPView struct {
	Phase                 otp.Phase `json:"phase"`
	AttemptsUsed          int       `json:"attempts_used"`
	SecondsUntilExpiry    int       `json:"seconds_until_expiry"`
	ResendCooldownSeconds int       `json:"resend_cooldown_seconds"`
}

// SubflowView is the renderable slice of the active verification sub-flow.
type SubflowView struct {
	Kind     string                `json:"kind"`
	Status   verification.Status   `json:"status"`
	Progress verification.Progress `json:"progress"`
}

// Snapshot is the presentation layer's read model: current step, the full
// context, and whichever sub-machine is live. Reading it never mutates the
// journey; two reads with no event in between are identical.
type Snapshot struct {
	JourneyID       string                `json:"journey_id"`
	Step            domain.Step           `json:"step"`
	Context         domain.JourneyContext `json:"context"`
	OTP             *OTPView              `json:"otp,omitempty"`
	Subflow         *SubflowView          `json:"subflow,omitempty"`
	Notice          string                `json:"notice,omitempty"`
	CompletionToken string                `json:"completion_token,omitempty"`
}

// Snapshot returns the current read model.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		JourneyID:       o.journeyID,
		Step:            o.step,
		Context:         o.journeyCtx,
		Notice:          o.notice,
		CompletionToken: o.completionToken,
	}

	if o.challenge != nil {
		snap.OTP = &OTPView{
			Phase:                 o.challenge.Phase,
			AttemptsUsed:          o.challenge.AttemptsUsed,
			SecondsUntilExpiry:    o.challenge.SecondsUntilExpiry,
			ResendCooldownSeconds: o.challenge.ResendCooldownSeconds,
		}
	}

	switch o.flowKind {
	case subflowExternalID:
		snap.Subflow = &SubflowView{Kind: string(subflowExternalID), Status: o.external.Status(), Progress: o.external.Progress()}
	case subflowNFC:
		snap.Subflow = &SubflowView{Kind: string(subflowNFC), Status: o.nfc.Status(), Progress: o.nfc.Progress()}
	case subflowBiometric:
		snap.Subflow = &SubflowView{Kind: string(subflowBiometric), Status: o.biometric.Status(), Progress: o.biometric.Progress()}
	}

	return snap
}
