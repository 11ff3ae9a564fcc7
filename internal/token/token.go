package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "onboard/pkg/domain-errors"
)

// Claims carries the completed journey's identity facts. The token stands in
// for the authenticated session a real banking backend would hand out.
type Claims struct {
	JourneyID  string `json:"journey_id"`
	NationalID string `json:"national_id"`
	jwt.RegisteredClaims
}

// Service mints and validates HS256 completion tokens.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey, issuer string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// IssueCompletionToken satisfies the orchestrator's TokenIssuer dependency.
func (s *Service) IssueCompletionToken(journeyID, nationalID string) (string, error) {
	now := time.Now()
	claims := Claims{
		JourneyID:  journeyID,
		NationalID: nationalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign completion token")
	}
	return signed, nil
}

// Validate parses and verifies a completion token.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.Wrap(err, dErrors.CodeExpired, "completion token expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid completion token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid completion token")
	}
	return claims, nil
}
