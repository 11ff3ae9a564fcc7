package directory

import (
	"context"

	"onboard/internal/domain"
)

// Directory is the customer-directory collaborator: it resolves a validated
// phone number into the classification fragment that drives routing. The
// fixture implementation below is the only one in this demo; the interface
// keeps the orchestrator wired for a real directory service.
type Directory interface {
	Classify(ctx context.Context, phoneNumber string) (domain.Profile, error)
}

func boolPtr(b bool) *bool { return &b }

// fixture ties a phone number to its demo classification row.
type fixture struct {
	nationalID             string
	isExistingCustomer     bool
	isNewNationalID        bool
	hasBiometric           bool
	biometricOutcomePreset *bool
}

// fixtures is the static classification table. Each row carries a fixed
// national ID so a phone number that re-enters the journey resolves to the
// same identity every time.
var fixtures = map[string]fixture{
	"0123456789": {nationalID: "840115000101", isNewNationalID: true},
	"0223456789": {nationalID: "840115000202"},
	"0323456789": {
		nationalID:             "840115000303",
		isExistingCustomer:     true,
		hasBiometric:           true,
		biometricOutcomePreset: boolPtr(false),
	},
	"0423456789": {
		nationalID:             "840115000404",
		isExistingCustomer:     true,
		hasBiometric:           true,
		biometricOutcomePreset: boolPtr(true),
	},
	"0523456789": {nationalID: "840115000505", isExistingCustomer: true},
}

// FixtureDirectory answers classification queries from the in-memory table.
// It is pure and deterministic: no side effects, same answer for the same
// number for the lifetime of the process.
type FixtureDirectory struct{}

func NewFixtureDirectory() *FixtureDirectory {
	return &FixtureDirectory{}
}

// Classify is total over validly formatted numbers: unmatched numbers fall
// back to the new-customer, new-national-ID default with a national ID
// derived deterministically from the phone number.
func (d *FixtureDirectory) Classify(_ context.Context, phoneNumber string) (domain.Profile, error) {
	if f, ok := fixtures[phoneNumber]; ok {
		return domain.Profile{
			NationalID:             f.nationalID,
			IsExistingCustomer:     f.isExistingCustomer,
			IsNewNationalID:        f.isNewNationalID,
			HasBiometric:           f.hasBiometric,
			BiometricOutcomePreset: f.biometricOutcomePreset,
		}, nil
	}
	return domain.Profile{
		NationalID:      defaultNationalID(phoneNumber),
		IsNewNationalID: true,
	}, nil
}

// defaultNationalID keeps unmatched numbers referentially consistent: the
// same phone always maps to the same synthetic twelve-digit identifier.
func defaultNationalID(phoneNumber string) string {
	return "99" + phoneNumber
}
