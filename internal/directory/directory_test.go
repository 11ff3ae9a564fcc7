package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DirectorySuite struct {
	suite.Suite
	dir *FixtureDirectory
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.dir = NewFixtureDirectory()
}

func (s *DirectorySuite) TestFixtureRows() {
	ctx := context.Background()

	s.Run("0123456789 is a new customer with a new national id", func() {
		p, err := s.dir.Classify(ctx, "0123456789")
		s.Require().NoError(err)
		s.False(p.IsExistingCustomer)
		s.True(p.IsNewNationalID)
		s.False(p.HasBiometric)
		s.Nil(p.BiometricOutcomePreset)
		s.NotEmpty(p.NationalID)
	})

	s.Run("0223456789 is a new customer with a known national id", func() {
		p, err := s.dir.Classify(ctx, "0223456789")
		s.Require().NoError(err)
		s.False(p.IsExistingCustomer)
		s.False(p.IsNewNationalID)
	})

	s.Run("0323456789 is existing with biometrics preset to fail", func() {
		p, err := s.dir.Classify(ctx, "0323456789")
		s.Require().NoError(err)
		s.True(p.IsExistingCustomer)
		s.True(p.HasBiometric)
		s.Require().NotNil(p.BiometricOutcomePreset)
		s.False(*p.BiometricOutcomePreset)
	})

	s.Run("0423456789 is existing with biometrics preset to succeed", func() {
		p, err := s.dir.Classify(ctx, "0423456789")
		s.Require().NoError(err)
		s.True(p.IsExistingCustomer)
		s.True(p.HasBiometric)
		s.Require().NotNil(p.BiometricOutcomePreset)
		s.True(*p.BiometricOutcomePreset)
	})

	s.Run("0523456789 is existing without biometrics", func() {
		p, err := s.dir.Classify(ctx, "0523456789")
		s.Require().NoError(err)
		s.True(p.IsExistingCustomer)
		s.False(p.HasBiometric)
		s.Nil(p.BiometricOutcomePreset)
	})
}

func (s *DirectorySuite) TestDefaultRow() {
	ctx := context.Background()

	s.Run("unmatched numbers classify as new customer, new national id", func() {
		p, err := s.dir.Classify(ctx, "0987654321")
		s.Require().NoError(err)
		s.False(p.IsExistingCustomer)
		s.True(p.IsNewNationalID)
		s.NotEmpty(p.NationalID)
	})

	s.Run("classification is deterministic across calls", func() {
		first, err := s.dir.Classify(ctx, "0987654321")
		s.Require().NoError(err)
		second, err := s.dir.Classify(ctx, "0987654321")
		s.Require().NoError(err)
		s.Equal(first, second)
	})

	s.Run("distinct numbers resolve distinct national ids", func() {
		a, err := s.dir.Classify(ctx, "0911111111")
		s.Require().NoError(err)
		b, err := s.dir.Classify(ctx, "0922222222")
		s.Require().NoError(err)
		s.NotEqual(a.NationalID, b.NationalID)
	})
}

func (s *DirectorySuite) TestFixtureNationalIDsAreStable() {
	ctx := context.Background()
	for _, phone := range []string{"0123456789", "0223456789", "0323456789", "0423456789", "0523456789"} {
		first, err := s.dir.Classify(ctx, phone)
		s.Require().NoError(err)
		second, err := s.dir.Classify(ctx, phone)
		s.Require().NoError(err)
		s.Equal(first.NationalID, second.NationalID, "national id must be stable for %s", phone)
	}
}
