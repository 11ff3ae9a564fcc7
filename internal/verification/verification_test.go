package verification

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"onboard/internal/domain"
)

type VerificationSuite struct {
	suite.Suite
}

func TestVerificationSuite(t *testing.T) {
	suite.Run(t, new(VerificationSuite))
}

func drain(s *VerificationSuite, f Subflow) {
	for i := 0; i < 20; i++ {
		if _, done := f.Advance(); done {
			return
		}
	}
	s.FailNow("subflow did not resolve within 20 stages")
}

func (s *VerificationSuite) TestExternalIDFlow() {
	s.Run("runs only after consent and always succeeds", func() {
		f := NewExternalIDFlow()
		s.Equal(StatusAwaitingConsent, f.Status())

		delay, err := f.Consent(true)
		s.Require().NoError(err)
		s.Positive(delay)

		drain(s, f)
		s.Equal(StatusSucceeded, f.Status())
		s.Equal(domain.VerificationResult{Channel: domain.ChannelExternalID, Success: true}, f.Result())
		s.Equal(100, f.Progress().Percent)
	})

	s.Run("declining consent cancels the flow", func() {
		f := NewExternalIDFlow()
		delay, err := f.Consent(false)
		s.Require().NoError(err)
		s.Zero(delay)
		s.Equal(StatusCancelled, f.Status())
	})

	s.Run("consent cannot be resolved twice", func() {
		f := NewExternalIDFlow()
		_, err := f.Consent(true)
		s.Require().NoError(err)
		_, err = f.Consent(true)
		s.Error(err)
	})

	s.Run("cancel mid-run stops progress", func() {
		f := NewExternalIDFlow()
		_, err := f.Consent(true)
		s.Require().NoError(err)
		_, done := f.Advance()
		s.False(done)
		f.Cancel()
		s.Equal(StatusCancelled, f.Status())
		_, done = f.Advance()
		s.True(done)
	})
}

func (s *VerificationSuite) TestNFCFlow() {
	s.Run("walks five stages and succeeds", func() {
		f := NewNFCFlow()
		s.Equal(StatusRunning, f.Status())
		s.Equal("detect", f.Progress().Stage)

		stages := 0
		for {
			_, done := f.Advance()
			stages++
			if done {
				break
			}
		}
		s.Equal(5, stages)
		s.Equal(StatusSucceeded, f.Status())
		s.Equal(domain.VerificationResult{Channel: domain.ChannelNFC, Success: true}, f.Result())
	})

	s.Run("cancellation before completion aborts without a result", func() {
		f := NewNFCFlow()
		f.Advance()
		f.Advance()
		f.Cancel()
		s.Equal(StatusCancelled, f.Status())
		s.False(f.Result().Success)
	})

	s.Run("cancel after success is a no-op", func() {
		f := NewNFCFlow()
		drain(s, f)
		f.Cancel()
		s.Equal(StatusSucceeded, f.Status())
	})
}

func (s *VerificationSuite) TestBiometricFlow() {
	s.Run("preset success always succeeds", func() {
		f := NewBiometricFlow(NewPresetProvider(true))
		drain(s, f)
		s.Equal(StatusSucceeded, f.Status())
		s.True(f.Succeeded())
	})

	s.Run("preset failure always fails", func() {
		f := NewBiometricFlow(NewPresetProvider(false))
		drain(s, f)
		s.Equal(StatusFailed, f.Status())
		s.False(f.Succeeded())
	})

	s.Run("progress ramps to 100 before resolving", func() {
		f := NewBiometricFlow(NewPresetProvider(true))
		s.Equal(0, f.Progress().Percent)
		_, done := f.Advance()
		s.False(done)
		s.Greater(f.Progress().Percent, 0)
		drain(s, f)
		s.Equal(100, f.Progress().Percent)
	})
}

// TestWeightedProviderDistribution is statistical: the default 70/30 split
// should land near 0.7 over many draws but will never be exact.
func TestWeightedProviderDistribution(t *testing.T) {
	provider := NewWeightedProvider(0.7)

	const trials = 20000
	successes := 0
	for i := 0; i < trials; i++ {
		if provider.Draw() {
			successes++
		}
	}

	rate := float64(successes) / float64(trials)
	if rate < 0.65 || rate > 0.75 {
		t.Fatalf("expected success rate near 0.70, got %.3f", rate)
	}
}
