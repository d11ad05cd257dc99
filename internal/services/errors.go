// Package services defines the business logic for periods, records and the
// trash ("papelera"). This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Trash errors.
var (
	// ErrGuardViolation is returned when a delete targets the period (or the
	// year) that is currently active in the caller's session.
	ErrGuardViolation = errors.New("cannot delete the active period")

	// ErrUnknownRecoveryScope is returned when a recovery scope is not one of
	// record, period or year.
	ErrUnknownRecoveryScope = errors.New("unknown recovery scope")

	// ErrInvalidRecoveryKey is returned when a recovery key cannot be decoded
	// for its scope.
	ErrInvalidRecoveryKey = errors.New("invalid recovery key")
)

// Period and record errors.
var (
	// ErrDuplicateKey indicates that an insert collided with an existing
	// (year, month-variant) pair. Callers should reload state and retry.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is the generic lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrPeriodNotFound indicates that the period does not exist or is in the
	// trash.
	ErrPeriodNotFound = errors.New("period not found")

	// ErrRecordNotFound indicates that the record does not exist, is in the
	// trash, or belongs to another period.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNoActivePeriod is returned by record operations when the session has
	// no complete (year, month) selection.
	ErrNoActivePeriod = errors.New("no active period selected")

	// ErrInvalidYear is returned for empty or malformed year tokens.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidMonth is returned for empty month-variants.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrEmptyChildName is returned when a record is saved without a child name.
	ErrEmptyChildName = errors.New("child name is empty")
)

// ErrInvalidCredentials is returned by AuthService on a failed login.
var ErrInvalidCredentials = errors.New("invalid credentials")
