package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TokenSuite struct {
	suite.Suite
	service *Service
}

func TestTokenSuite(t *testing.T) {
	suite.Run(t, new(TokenSuite))
}

func (s *TokenSuite) SetupTest() {
	s.service = NewService("test-signing-key", "onboard-demo", time.Hour)
}

func (s *TokenSuite) TestIssueAndValidate() {
	s.Run("round trip preserves claims", func() {
		signed, err := s.service.IssueCompletionToken("journey-1", "840115000101")
		s.Require().NoError(err)
		s.NotEmpty(signed)

		claims, err := s.service.Validate(signed)
		s.Require().NoError(err)
		s.Equal("journey-1", claims.JourneyID)
		s.Equal("840115000101", claims.NationalID)
		s.Equal("onboard-demo", claims.Issuer)
		s.NotEmpty(claims.ID)
	})

	s.Run("tokens carry unique ids", func() {
		first, err := s.service.IssueCompletionToken("journey-1", "840115000101")
		s.Require().NoError(err)
		second, err := s.service.IssueCompletionToken("journey-1", "840115000101")
		s.Require().NoError(err)
		s.NotEqual(first, second)
	})
}

func (s *TokenSuite) TestValidateRejects() {
	s.Run("garbage input", func() {
		_, err := s.service.Validate("not-a-token")
		s.Error(err)
	})

	s.Run("token signed with a different key", func() {
		other := NewService("other-key", "onboard-demo", time.Hour)
		signed, err := other.IssueCompletionToken("journey-1", "840115000101")
		s.Require().NoError(err)

		_, err = s.service.Validate(signed)
		s.Error(err)
	})

	s.Run("expired token", func() {
		shortLived := NewService("test-signing-key", "onboard-demo", -time.Minute)
		signed, err := shortLived.IssueCompletionToken("journey-1", "840115000101")
		s.Require().NoError(err)

		_, err = s.service.Validate(signed)
		s.Error(err)
	})
}
