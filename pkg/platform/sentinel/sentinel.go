package sentinel

import "errors"

// Sentinel errors for infrastructure and sub-machine facts. Stores and
// sub-machines return these (optionally wrapped) so services can translate
// them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrExpired: challenge/code/token has expired
// - ErrLocked: retry budget exhausted, identifier is locked out
// - ErrCooldownActive: resend requested before the cooldown elapsed
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrExpired        = errors.New("expired")
	ErrLocked         = errors.New("locked")
	ErrCooldownActive = errors.New("cooldown active")
	ErrInvalidState   = errors.New("invalid state")
	ErrUnavailable    = errors.New("unavailable")
)
