package domain

import (
	dErrors "onboard/pkg/domain-errors"
)

// Step identifies the major onboarding step a journey is in. Exactly one step
// is active at a time; sub-machine state lives next to it, not inside it.
type Step string

const (
	StepEntry              Step = "entry"
	StepOTPChallenge       Step = "otp_challenge"
	StepVerificationChoice Step = "verification_choice"
	StepExternalIDConfirm  Step = "external_id_confirm"
	StepNFCRead            Step = "nfc_read"
	StepBiometricCapture   Step = "biometric_capture"
	StepVerificationFailed Step = "verification_failed"
	StepDetails            Step = "details"
	StepTerms              Step = "terms"
	StepEmail              Step = "email"
	StepComplete           Step = "complete"
)

// IsValid checks the step is one of the supported enum values.
func (s Step) IsValid() bool {
	switch s {
	case StepEntry, StepOTPChallenge, StepVerificationChoice, StepExternalIDConfirm,
		StepNFCRead, StepBiometricCapture, StepVerificationFailed, StepDetails,
		StepTerms, StepEmail, StepComplete:
		return true
	}
	return false
}

// Terminal reports whether the step ends the journey. Complete is the happy
// terminal; VerificationFailed is terminal for the attempt and auto-returns to
// entry.
func (s Step) Terminal() bool {
	return s == StepComplete || s == StepVerificationFailed
}

// VerificationChannel records which identity verification strategy succeeded.
type VerificationChannel string

const (
	ChannelNone       VerificationChannel = "none"
	ChannelExternalID VerificationChannel = "external_id"
	ChannelNFC        VerificationChannel = "nfc"
)

func (c VerificationChannel) IsValid() bool {
	return c == ChannelNone || c == ChannelExternalID || c == ChannelNFC
}

// ParseVerificationChannel validates a channel selection from the presentation
// layer. Only the two real strategies are selectable; "none" is not.
func ParseVerificationChannel(s string) (VerificationChannel, error) {
	c := VerificationChannel(s)
	if c != ChannelExternalID && c != ChannelNFC {
		return "", dErrors.New(dErrors.CodeInvalidInput, "verification channel must be 'external_id' or 'nfc'")
	}
	return c, nil
}

// VerificationResult is produced by a verification sub-flow and consumed once
// by the orchestrator to pick the next step. It is not retained afterwards.
type VerificationResult struct {
	Channel VerificationChannel
	Success bool
}

// Profile is the classification fragment the customer directory resolves from
// a phone number. BiometricOutcomePreset, when set, pins the biometric
// sub-flow outcome for demo determinism; nil means draw at random.
type Profile struct {
	NationalID             string
	IsExistingCustomer     bool
	IsNewNationalID        bool
	HasBiometric           bool
	BiometricOutcomePreset *bool
}

// JourneyContext is the canonical customer context owned by the orchestrator.
// It is replaced wholesale on each transition; a transition either fully
// succeeds or the journey stays in its prior state.
type JourneyContext struct {
	PhoneNumber            string              `json:"phone_number"`
	NationalID             string              `json:"national_id"`
	IsExistingCustomer     bool                `json:"is_existing_customer"`
	IsNewNationalID        bool                `json:"is_new_national_id"`
	HasBiometric           bool                `json:"has_biometric"`
	BiometricOutcomePreset *bool               `json:"-"`
	VerificationChannel    VerificationChannel `json:"verification_channel"`
	EmailAddress           string              `json:"email_address,omitempty"`
	AcceptedTerms          bool                `json:"accepted_terms"`
}

// WithProfile returns a copy of the context with the classification fragment
// applied. PhoneNumber is never touched here; it is set exactly once at entry.
func (c JourneyContext) WithProfile(p Profile) JourneyContext {
	c.NationalID = p.NationalID
	c.IsExistingCustomer = p.IsExistingCustomer
	c.IsNewNationalID = p.IsNewNationalID
	c.HasBiometric = p.HasBiometric
	c.BiometricOutcomePreset = p.BiometricOutcomePreset
	return c
}

// CompleteFor reports whether the context carries everything a step needs on
// entry. Arriving at a step with an incomplete context is a protocol
// violation by the caller and fatal to the journey.
func (c JourneyContext) CompleteFor(step Step) bool {
	switch step {
	case StepEntry:
		return true
	case StepEmail, StepComplete:
		return c.PhoneNumber != "" && c.NationalID != "" && c.AcceptedTerms
	default:
		return c.PhoneNumber != "" && c.NationalID != ""
	}
}
