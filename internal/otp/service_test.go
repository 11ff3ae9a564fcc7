package otp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
)

type OTPServiceSuite struct {
	suite.Suite
	service *Service
}

func TestOTPServiceSuite(t *testing.T) {
	suite.Run(t, new(OTPServiceSuite))
}

func (s *OTPServiceSuite) SetupTest() {
	s.service = New()
}

func (s *OTPServiceSuite) start() *Challenge {
	ch, err := s.service.Start()
	s.Require().NoError(err)
	return ch
}

func (s *OTPServiceSuite) TestStart() {
	ch := s.start()
	s.Equal(PhaseAwaitingInput, ch.Phase)
	s.Equal(0, ch.AttemptsUsed)
	s.Equal(180, ch.SecondsUntilExpiry)
	s.Equal(0, ch.ResendCooldownSeconds)
	s.True(ch.CanResend())
}

func (s *OTPServiceSuite) TestSubmit() {
	s.Run("the demo code always succeeds", func() {
		ch := s.start()
		s.NoError(s.service.Submit(ch, "123456"))
		s.Equal(PhaseSuccess, ch.Phase)
	})

	s.Run("incomplete codes are rejected without burning an attempt", func() {
		ch := s.start()
		err := s.service.Submit(ch, "123")
		s.Error(err)
		s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
		s.Equal(0, ch.AttemptsUsed)
		s.True(ch.Accepting())
	})

	s.Run("non-digit codes are rejected without burning an attempt", func() {
		ch := s.start()
		s.Error(s.service.Submit(ch, "12a456"))
		s.Equal(0, ch.AttemptsUsed)
	})

	s.Run("a mismatch burns an attempt and returns to awaiting input", func() {
		ch := s.start()
		err := s.service.Submit(ch, "000000")
		s.Error(err)
		s.Equal(1, ch.AttemptsUsed)
		s.Equal(PhaseAwaitingInput, ch.Phase)
		s.Equal(2, ch.RemainingAttempts(3))
	})

	s.Run("the third mismatch locks the challenge out", func() {
		ch := s.start()
		s.Error(s.service.Submit(ch, "000000"))
		s.Error(s.service.Submit(ch, "111111"))
		err := s.service.Submit(ch, "222222")
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrLocked))
		s.Equal(PhaseLockedOut, ch.Phase)
		s.Equal(0, ch.RemainingAttempts(3))
	})

	s.Run("a locked challenge rejects even the correct code", func() {
		ch := s.start()
		for _, code := range []string{"000000", "111111", "222222"} {
			s.Error(s.service.Submit(ch, code))
		}
		err := s.service.Submit(ch, "123456")
		s.True(errors.Is(err, sentinel.ErrLocked))
	})

	s.Run("an expired challenge rejects submission", func() {
		ch := s.start()
		for i := 0; i < 180; i++ {
			s.service.Tick(ch)
		}
		s.True(ch.Expired())
		err := s.service.Submit(ch, "123456")
		s.True(errors.Is(err, sentinel.ErrExpired))
	})
}

func (s *OTPServiceSuite) TestResend() {
	s.Run("allowed when cooldown is zero, resets expiry and arms cooldown", func() {
		ch := s.start()
		for i := 0; i < 30; i++ {
			s.service.Tick(ch)
		}
		s.Equal(150, ch.SecondsUntilExpiry)

		s.NoError(s.service.Resend(ch))
		s.Equal(180, ch.SecondsUntilExpiry)
		s.Equal(60, ch.ResendCooldownSeconds)
	})

	s.Run("rejected while the cooldown is active", func() {
		ch := s.start()
		s.Require().NoError(s.service.Resend(ch))
		err := s.service.Resend(ch)
		s.True(errors.Is(err, sentinel.ErrCooldownActive))
	})

	s.Run("cooldown elapses one second at a time", func() {
		ch := s.start()
		s.Require().NoError(s.service.Resend(ch))
		for i := 0; i < 60; i++ {
			s.False(ch.CanResend())
			s.service.Tick(ch)
		}
		s.True(ch.CanResend())
		s.NoError(s.service.Resend(ch))
	})

	s.Run("resend does not reset attempts", func() {
		ch := s.start()
		s.Error(s.service.Submit(ch, "000000"))
		s.Require().NoError(s.service.Resend(ch))
		s.Equal(1, ch.AttemptsUsed)
	})

	s.Run("resend revives an expired challenge", func() {
		ch := s.start()
		for i := 0; i < 180; i++ {
			s.service.Tick(ch)
		}
		s.True(ch.Expired())
		s.Require().NoError(s.service.Resend(ch))
		s.True(ch.Accepting())
		s.NoError(s.service.Submit(ch, "123456"))
	})

	s.Run("resend is pointless after lockout", func() {
		ch := s.start()
		for _, code := range []string{"000000", "111111", "222222"} {
			s.Error(s.service.Submit(ch, code))
		}
		err := s.service.Resend(ch)
		s.True(errors.Is(err, sentinel.ErrLocked))
	})
}

func (s *OTPServiceSuite) TestTick() {
	s.Run("expiry counts down only while live", func() {
		ch := s.start()
		s.NoError(s.service.Submit(ch, "123456"))
		s.service.Tick(ch)
		s.Equal(180, ch.SecondsUntilExpiry)
	})

	s.Run("reaching zero moves to expired exactly once", func() {
		ch := s.start()
		for i := 0; i < 400; i++ {
			s.service.Tick(ch)
		}
		s.Equal(PhaseExpired, ch.Phase)
		s.Equal(0, ch.SecondsUntilExpiry)
	})
}
