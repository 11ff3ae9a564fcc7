package otp

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
)

// Config tunes the sub-machine. Defaults match the demo journey: three
// attempts, a three-minute code, a one-minute resend cooldown.
type Config struct {
	MaxAttempts           int
	ExpirySeconds         int
	ResendCooldownSeconds int
	// DemoCode stands in for the real OTP issuance service; every challenge
	// accepts exactly this code.
	DemoCode string
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:           3,
		ExpirySeconds:         180,
		ResendCooldownSeconds: 60,
		DemoCode:              "123456",
	}
}

// Service owns challenge issuance and resolution. The issued code is kept
// only as a bcrypt hash; the plaintext never leaves issuance.
type Service struct {
	config Config
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithConfig(cfg Config) Option {
	return func(s *Service) { s.config = cfg }
}

func New(opts ...Option) *Service {
	svc := &Service{config: DefaultConfig()}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// Start issues a fresh challenge with a full expiry window and no cooldown.
func (s *Service) Start() (*Challenge, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.config.DemoCode), bcrypt.MinCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue otp challenge")
	}
	return &Challenge{
		codeHash:           hash,
		Phase:              PhaseAwaitingInput,
		SecondsUntilExpiry: s.config.ExpirySeconds,
	}, nil
}

// Submit resolves a six-digit code against the challenge. A mismatch burns an
// attempt; the third mismatch locks the challenge out, which the orchestrator
// treats as fatal to the journey.
func (s *Service) Submit(ch *Challenge, code string) error {
	switch ch.Phase {
	case PhaseLockedOut:
		return dErrors.Wrap(sentinel.ErrLocked, dErrors.CodeLocked, "maximum attempts exceeded")
	case PhaseExpired:
		return dErrors.Wrap(sentinel.ErrExpired, dErrors.CodeExpired, "code expired, request a new one")
	case PhaseSuccess:
		return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeInvalidState, "challenge already resolved")
	}

	if len(code) != 6 || !allDigits(code) {
		return dErrors.New(dErrors.CodeInvalidInput, "code must be exactly 6 digits")
	}

	ch.Phase = PhaseVerifying
	if err := bcrypt.CompareHashAndPassword(ch.codeHash, []byte(code)); err != nil {
		ch.AttemptsUsed++
		if ch.AttemptsUsed >= s.config.MaxAttempts {
			ch.Phase = PhaseLockedOut
			s.logger.Warn("otp challenge locked out", "attempts_used", ch.AttemptsUsed)
			return dErrors.Wrap(sentinel.ErrLocked, dErrors.CodeLocked, "maximum attempts exceeded")
		}
		ch.Phase = PhaseAwaitingInput
		return dErrors.New(dErrors.CodeInvalidInput, "code does not match")
	}

	ch.Phase = PhaseSuccess
	return nil
}

// Resend re-issues the code: full expiry again, cooldown armed. Attempts are
// deliberately not reset; resending is not a way around the lockout budget.
func (s *Service) Resend(ch *Challenge) error {
	if ch.LockedOut() {
		return dErrors.Wrap(sentinel.ErrLocked, dErrors.CodeLocked, "maximum attempts exceeded")
	}
	if !ch.CanResend() {
		return dErrors.Wrap(sentinel.ErrCooldownActive, dErrors.CodeCooldown, "resend cooldown has not elapsed")
	}
	ch.SecondsUntilExpiry = s.config.ExpirySeconds
	ch.ResendCooldownSeconds = s.config.ResendCooldownSeconds
	if ch.Phase == PhaseExpired {
		ch.Phase = PhaseAwaitingInput
	}
	return nil
}

// Tick advances the challenge clocks by one second. Expiry only counts down
// while the challenge is live; the cooldown counts down regardless.
func (s *Service) Tick(ch *Challenge) {
	if ch.ResendCooldownSeconds > 0 {
		ch.ResendCooldownSeconds--
	}
	if ch.Phase != PhaseAwaitingInput && ch.Phase != PhaseVerifying {
		return
	}
	if ch.SecondsUntilExpiry > 0 {
		ch.SecondsUntilExpiry--
		if ch.SecondsUntilExpiry == 0 {
			ch.Phase = PhaseExpired
		}
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
