package handlers

// Error codes carried in ErrorResponse.Code. Clients branch on the code, not
// on the message.
//
// The middleware answers with its own codes: unauthorized (no session),
// too_many_requests, bad_idempotency_key and internal_error (panic).
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Deleting the period or year the session is working in.
	ErrCodeGuardViolation = "guard_violation"
	// Records listed or written before a year and month are selected.
	ErrCodeNoActivePeriod = "no_active_period"

	ErrCodeUnknownScope       = "unknown_scope"
	ErrCodeInvalidKey         = "invalid_recovery_key"
	ErrCodeInvalidCredentials = "invalid_credentials"

	// 500 fallbacks naming the operation that failed.
	ErrCodeCreateFailed = "create_failed"
	ErrCodeListFailed   = "list_failed"
)
