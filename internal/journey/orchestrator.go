package journey

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"onboard/internal/directory"
	"onboard/internal/domain"
	"onboard/internal/journal"
	"onboard/internal/journey/metrics"
	"onboard/internal/otp"
	"onboard/internal/verification"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
)

// Config tunes orchestrator timing.
type Config struct {
	// FailureRedirectDelay bounds how long the terminal failure step is shown
	// before the journey auto-returns to entry.
	FailureRedirectDelay time.Duration
	// BiometricSuccessRate is the weighted draw used when the classified
	// profile carries no preset outcome.
	BiometricSuccessRate float64
}

func DefaultConfig() Config {
	return Config{
		FailureRedirectDelay: 10 * time.Second,
		BiometricSuccessRate: 0.7,
	}
}

// TokenIssuer mints the completion token handed to the presentation layer
// when a journey reaches the complete step.
type TokenIssuer interface {
	IssueCompletionToken(journeyID, nationalID string) (string, error)
}

type subflowKind string

const (
	subflowExternalID subflowKind = "external_id"
	subflowNFC        subflowKind = "nfc"
	subflowBiometric  subflowKind = "biometric"
)

// Orchestrator owns one journey: the canonical context, the active step, and
// whichever sub-machine is live. Events are processed one at a time to
// completion; timers deliver elapsed callbacks back through the same lock, and
// an instance token makes callbacks for a superseded sub-flow no-ops.
type Orchestrator struct {
	mu sync.Mutex

	journeyID       string
	step            domain.Step
	journeyCtx      domain.JourneyContext
	challenge       *otp.Challenge
	flowKind        subflowKind
	external        *verification.ExternalIDFlow
	nfc             *verification.NFCFlow
	biometric       *verification.BiometricFlow
	flowToken       uint64
	notice          string
	completionToken string

	directory  directory.Directory
	otpService *otp.Service
	scheduler  Scheduler
	journal    journal.Store
	issuer     TokenIssuer
	metrics    *metrics.Metrics
	logger     *slog.Logger
	config     Config
	outcomes   verification.OutcomeProvider
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

func WithScheduler(s Scheduler) Option {
	return func(o *Orchestrator) { o.scheduler = s }
}

func WithJournal(store journal.Store) Option {
	return func(o *Orchestrator) { o.journal = store }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithTokenIssuer(issuer TokenIssuer) Option {
	return func(o *Orchestrator) { o.issuer = issuer }
}

func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) { o.config = cfg }
}

func WithOTPService(svc *otp.Service) Option {
	return func(o *Orchestrator) { o.otpService = svc }
}

// WithOutcomeProvider overrides the default weighted biometric draw. Fixture
// presets still win over this.
func WithOutcomeProvider(p verification.OutcomeProvider) Option {
	return func(o *Orchestrator) { o.outcomes = p }
}

func New(dir directory.Directory, opts ...Option) (*Orchestrator, error) {
	if dir == nil {
		return nil, errors.New("customer directory is required")
	}

	o := &Orchestrator{
		journeyID: uuid.NewString(),
		step:      domain.StepEntry,
		directory: dir,
		config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.scheduler == nil {
		o.scheduler = TimerScheduler{}
	}
	if o.otpService == nil {
		o.otpService = otp.New(otp.WithLogger(o.logger))
	}
	if o.outcomes == nil {
		o.outcomes = verification.NewWeightedProvider(o.config.BiometricSuccessRate)
	}
	return o, nil
}

// JourneyID identifies the current attempt; a reset starts a new attempt with
// a new ID.
func (o *Orchestrator) JourneyID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.journeyID
}

// Run drives the one-second cooperative clock until ctx is done. Only the OTP
// countdown and cooldown consume it; sub-flow latency uses scheduled elapsed
// callbacks instead.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Tick()
		}
	}
}

// Tick advances the journey clock by one second.
func (o *Orchestrator) Tick() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step == domain.StepOTPChallenge && o.challenge != nil {
		o.otpService.Tick(o.challenge)
	}
}

// SubmitPhoneNumber starts the journey: format validation, classification,
// then the OTP challenge. The phone number is set here exactly once.
func (o *Orchestrator) SubmitPhoneNumber(ctx context.Context, raw string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepEntry {
		return dErrors.New(dErrors.CodeInvalidState, "journey already started")
	}
	if err := domain.ValidatePhoneNumber(raw); err != nil {
		return err
	}

	profile, err := o.directory.Classify(ctx, raw)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "customer classification failed")
	}

	challenge, err := o.otpService.Start()
	if err != nil {
		return err
	}

	o.journeyCtx = domain.JourneyContext{
		PhoneNumber:         raw,
		VerificationChannel: domain.ChannelNone,
	}.WithProfile(profile)
	o.challenge = challenge
	o.notice = ""
	o.completionToken = ""

	if o.metrics != nil {
		o.metrics.IncrementJourneysStarted()
	}
	return o.transition(ctx, "phone_submitted", domain.StepOTPChallenge, "")
}

// SubmitOTP resolves a code against the live challenge. Lockout is fatal to
// the journey and forces a reset to entry; other failures leave the journey
// where it is.
func (o *Orchestrator) SubmitOTP(ctx context.Context, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepOTPChallenge || o.challenge == nil {
		return dErrors.New(dErrors.CodeInvalidState, "no otp challenge is active")
	}

	// Count attempts the challenge actually consumed: malformed codes and
	// submissions against a dead challenge are rejected without burning one.
	attemptsBefore := o.challenge.AttemptsUsed
	if err := o.otpService.Submit(o.challenge, code); err != nil {
		if o.metrics != nil && o.challenge.AttemptsUsed > attemptsBefore {
			o.metrics.IncrementOTPAttempts()
		}
		if errors.Is(err, sentinel.ErrLocked) {
			if o.metrics != nil {
				o.metrics.IncrementOTPLockouts()
			}
			o.reset(ctx, "otp_locked_out", "otp_locked_out")
		}
		return err
	}

	if o.metrics != nil {
		o.metrics.IncrementOTPAttempts()
	}

	// Challenge resolved; it does not survive the step.
	o.challenge = nil
	return o.routeAfterOTP(ctx)
}

// routeAfterOTP decides the next step once the code matched: an already
// NFC-verified context skips re-verification, existing customers with
// biometrics authenticate biometrically, everyone else picks a channel.
func (o *Orchestrator) routeAfterOTP(ctx context.Context) error {
	switch {
	case o.journeyCtx.VerificationChannel == domain.ChannelNFC:
		return o.transition(ctx, "otp_succeeded", domain.StepDetails, "nfc already verified")
	case o.journeyCtx.IsExistingCustomer && o.journeyCtx.HasBiometric:
		return o.startBiometric(ctx, "otp_succeeded")
	default:
		return o.transition(ctx, "otp_succeeded", domain.StepVerificationChoice, "")
	}
}

// RequestResend re-issues the OTP code when the cooldown allows it.
func (o *Orchestrator) RequestResend(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepOTPChallenge || o.challenge == nil {
		return dErrors.New(dErrors.CodeInvalidState, "no otp challenge is active")
	}
	return o.otpService.Resend(o.challenge)
}

// ChooseVerificationChannel enters the selected verification sub-flow.
func (o *Orchestrator) ChooseVerificationChannel(ctx context.Context, channel domain.VerificationChannel) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepVerificationChoice {
		return dErrors.New(dErrors.CodeInvalidState, "journey is not at verification choice")
	}

	switch channel {
	case domain.ChannelExternalID:
		o.external = verification.NewExternalIDFlow()
		o.flowKind = subflowExternalID
		// No timer yet: nothing runs until the customer consents.
		o.flowToken++
		return o.transition(ctx, "channel_chosen", domain.StepExternalIDConfirm, string(channel))
	case domain.ChannelNFC:
		o.nfc = verification.NewNFCFlow()
		o.flowKind = subflowNFC
		token := o.bumpFlowToken()
		o.scheduleAdvance(o.nfc.FirstDelay(), token)
		return o.transition(ctx, "channel_chosen", domain.StepNFCRead, string(channel))
	default:
		return dErrors.New(dErrors.CodeInvalidInput, "unsupported verification channel")
	}
}

// ConfirmExternalIDSharing resolves the consent gate. Declining is
// recoverable: the journey returns to the choice step with the context
// untouched.
func (o *Orchestrator) ConfirmExternalIDSharing(ctx context.Context, consent bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepExternalIDConfirm || o.external == nil {
		return dErrors.New(dErrors.CodeInvalidState, "no external-id confirmation is active")
	}

	delay, err := o.external.Consent(consent)
	if err != nil {
		return err
	}
	if !consent {
		o.dropSubflow()
		return o.transition(ctx, "consent_declined", domain.StepVerificationChoice, "")
	}

	token := o.bumpFlowToken()
	o.scheduleAdvance(delay, token)
	return nil
}

// CancelActiveSubflow aborts the in-progress verification sub-flow. External
// -ID and NFC cancellation are recoverable (back to the choice step); from the
// terminal failure step it is the manual "return now" action.
func (o *Orchestrator) CancelActiveSubflow(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.step {
	case domain.StepExternalIDConfirm:
		o.external.Cancel()
		o.dropSubflow()
		return o.transition(ctx, "subflow_cancelled", domain.StepVerificationChoice, "external_id")
	case domain.StepNFCRead:
		o.nfc.Cancel()
		o.dropSubflow()
		return o.transition(ctx, "subflow_cancelled", domain.StepVerificationChoice, "nfc")
	case domain.StepVerificationFailed:
		o.reset(ctx, "failure_acknowledged", "verification_failed")
		return nil
	case domain.StepBiometricCapture:
		return dErrors.New(dErrors.CodeInvalidState, "biometric capture cannot be cancelled")
	default:
		return dErrors.New(dErrors.CodeInvalidState, "no sub-flow is active")
	}
}

// ConfirmDetails acknowledges the identity details shown after verification.
func (o *Orchestrator) ConfirmDetails(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepDetails {
		return dErrors.New(dErrors.CodeInvalidState, "journey is not at details")
	}
	return o.transition(ctx, "details_confirmed", domain.StepTerms, "")
}

// AcceptTerms moves past the terms step. Declining keeps the journey there.
func (o *Orchestrator) AcceptTerms(ctx context.Context, accept bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepTerms {
		return dErrors.New(dErrors.CodeInvalidState, "journey is not at terms")
	}
	if !accept {
		return dErrors.New(dErrors.CodeInvalidInput, "terms must be accepted to continue")
	}
	o.journeyCtx.AcceptedTerms = true
	return o.transition(ctx, "terms_accepted", domain.StepEmail, "")
}

// SubmitProfile finishes the email step. An empty email with an empty
// confirmation skips the step; otherwise the email must be well formed and
// the confirmation copy must match exactly. Addresses are free-form.
func (o *Orchestrator) SubmitProfile(ctx context.Context, email, emailConfirmation string, addresses []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepEmail {
		return dErrors.New(dErrors.CodeInvalidState, "journey is not at the email step")
	}

	if email != "" || emailConfirmation != "" {
		if err := domain.ValidateEmail(email); err != nil {
			return err
		}
		if email != emailConfirmation {
			return dErrors.New(dErrors.CodeInvalidInput, "email confirmation does not match")
		}
		o.journeyCtx.EmailAddress = email
	}
	_ = addresses // free-form, recorded by the presentation layer only

	return o.complete(ctx)
}

func (o *Orchestrator) complete(ctx context.Context) error {
	if o.issuer != nil {
		token, err := o.issuer.IssueCompletionToken(o.journeyID, o.journeyCtx.NationalID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue completion token")
		}
		o.completionToken = token
	}
	if o.metrics != nil {
		o.metrics.IncrementJourneysCompleted()
	}
	return o.transition(ctx, "profile_submitted", domain.StepComplete, "")
}

// Restart leaves the terminal complete step and returns to entry with the
// success banner. The biometric enrollment offer is recorded but, being a new
// journey, has no effect on the next attempt's classification.
func (o *Orchestrator) Restart(ctx context.Context, enableBiometric bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step != domain.StepComplete {
		return dErrors.New(dErrors.CodeInvalidState, "journey is not complete")
	}
	detail := ""
	if enableBiometric {
		detail = "biometric_enrollment_requested"
	}
	o.journalAppend(ctx, "journey_restarted", o.step, domain.StepEntry, detail)
	o.resetState()
	o.notice = "registration_complete"
	return nil
}

// --- sub-flow progression -------------------------------------------------

func (o *Orchestrator) startBiometric(ctx context.Context, event string) error {
	provider := o.outcomes
	if o.journeyCtx.BiometricOutcomePreset != nil {
		provider = verification.NewPresetProvider(*o.journeyCtx.BiometricOutcomePreset)
	}
	o.biometric = verification.NewBiometricFlow(provider)
	o.flowKind = subflowBiometric
	token := o.bumpFlowToken()
	o.scheduleAdvance(o.biometric.FirstDelay(), token)
	return o.transition(ctx, event, domain.StepBiometricCapture, "")
}

// bumpFlowToken invalidates every previously scheduled callback and returns
// the token the next schedule should carry.
func (o *Orchestrator) bumpFlowToken() uint64 {
	o.flowToken++
	return o.flowToken
}

func (o *Orchestrator) dropSubflow() {
	o.external = nil
	o.nfc = nil
	o.biometric = nil
	o.flowKind = ""
	o.flowToken++
}

func (o *Orchestrator) scheduleAdvance(d time.Duration, token uint64) {
	o.scheduler.AfterFunc(d, func() {
		o.advanceSubflow(token)
	})
}

// advanceSubflow is the elapsed-timer entry point. A stale token means the
// sub-flow instance it was armed for is gone; the callback must do nothing.
func (o *Orchestrator) advanceSubflow(token uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if token != o.flowToken {
		return
	}
	ctx := context.Background()

	switch o.flowKind {
	case subflowExternalID:
		next, done := o.external.Advance()
		if !done {
			o.scheduleAdvance(next, token)
			return
		}
		o.resolveExternalID(ctx)
	case subflowNFC:
		next, done := o.nfc.Advance()
		if !done {
			o.scheduleAdvance(next, token)
			return
		}
		o.resolveNFC(ctx)
	case subflowBiometric:
		next, done := o.biometric.Advance()
		if !done {
			o.scheduleAdvance(next, token)
			return
		}
		o.resolveBiometric(ctx)
	}
}

func (o *Orchestrator) resolveExternalID(ctx context.Context) {
	result := o.external.Result()
	o.dropSubflow()
	if o.metrics != nil {
		o.metrics.ObserveVerificationOutcome("external_id", "success")
	}
	o.journeyCtx.VerificationChannel = result.Channel

	// Routing after external-id confirmation: attempt biometric capture
	// whenever the classified profile carries the capability, otherwise go
	// straight to details.
	if o.journeyCtx.HasBiometric {
		_ = o.startBiometric(ctx, "external_id_confirmed")
		return
	}
	_ = o.transition(ctx, "external_id_confirmed", domain.StepDetails, "")
}

func (o *Orchestrator) resolveNFC(ctx context.Context) {
	result := o.nfc.Result()
	o.dropSubflow()
	if o.metrics != nil {
		o.metrics.ObserveVerificationOutcome("nfc", "success")
	}
	o.journeyCtx.VerificationChannel = result.Channel

	// A completed chip read bypasses biometric capture regardless of the
	// profile's biometric capability.
	_ = o.transition(ctx, "nfc_completed", domain.StepDetails, "")
}

func (o *Orchestrator) resolveBiometric(ctx context.Context) {
	succeeded := o.biometric.Succeeded()
	o.dropSubflow()

	if succeeded {
		if o.metrics != nil {
			o.metrics.ObserveVerificationOutcome("biometric", "success")
		}
		_ = o.transition(ctx, "biometric_succeeded", domain.StepDetails, "")
		return
	}

	if o.metrics != nil {
		o.metrics.ObserveVerificationOutcome("biometric", "failure")
	}
	if err := o.transition(ctx, "biometric_failed", domain.StepVerificationFailed, ""); err != nil {
		return
	}
	// Bounded stay on the failure step, then back to entry.
	token := o.bumpFlowToken()
	o.scheduler.AfterFunc(o.config.FailureRedirectDelay, func() {
		o.failureRedirect(token)
	})
}

func (o *Orchestrator) failureRedirect(token uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if token != o.flowToken || o.step != domain.StepVerificationFailed {
		return
	}
	o.reset(context.Background(), "failure_redirect", "verification_failed")
}

// --- transitions ----------------------------------------------------------

// transition is the single place journeys change step. Arriving at a step
// with an incomplete context is a protocol violation and fatal: the journey
// resets and the diagnostic is surfaced through the snapshot.
func (o *Orchestrator) transition(ctx context.Context, event string, to domain.Step, detail string) error {
	if !o.journeyCtx.CompleteFor(to) {
		o.logger.ErrorContext(ctx, "context incomplete on step entry",
			"journey_id", o.journeyID,
			"event", event,
			"step", to,
		)
		o.reset(ctx, "context_violation", "context_violation")
		return dErrors.New(dErrors.CodeInternal, "journey context incomplete, journey reset")
	}

	from := o.step
	o.step = to
	o.journalAppend(ctx, event, from, to, detail)
	o.logger.InfoContext(ctx, "journey transition",
		"journey_id", o.journeyID,
		"event", event,
		"from", from,
		"to", to,
	)
	return nil
}

// reset abandons the current attempt: fresh context, fresh journey ID, all
// sub-machines discarded, outstanding timers invalidated.
func (o *Orchestrator) reset(ctx context.Context, reason, notice string) {
	o.journalAppend(ctx, "journey_reset", o.step, domain.StepEntry, reason)
	if o.metrics != nil {
		o.metrics.IncrementJourneysReset(reason)
	}
	o.resetState()
	o.notice = notice
}

func (o *Orchestrator) resetState() {
	o.journeyID = uuid.NewString()
	o.step = domain.StepEntry
	o.journeyCtx = domain.JourneyContext{}
	o.challenge = nil
	o.dropSubflow()
	o.completionToken = ""
}

func (o *Orchestrator) journalAppend(ctx context.Context, event string, from, to domain.Step, detail string) {
	if o.journal == nil {
		return
	}
	entry := journal.Entry{
		ID:         uuid.NewString(),
		JourneyID:  o.journeyID,
		FromStep:   from,
		ToStep:     to,
		Event:      event,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
	if err := o.journal.Append(ctx, entry); err != nil {
		o.logger.WarnContext(ctx, "journal append failed",
			"journey_id", o.journeyID,
			"event", event,
			"error", err,
		)
	}
}
