package service

import "errors"

// Verification outcomes. These are explicit results the caller branches on,
// not control flow inside the state machine.
var (
	// ErrRateLimited means the identity exhausted its issuance budget for
	// the current window.
	ErrRateLimited = errors.New("too many verification requests, try again later")

	// ErrDeliveryFailed means the passcode email could not be sent; any
	// ephemeral state written for the attempt has been rolled back.
	ErrDeliveryFailed = errors.New("failed to deliver verification code")

	// ErrNotFoundOrExpired covers both "never issued" and "expired", so a
	// caller cannot probe which identities have pending signups.
	ErrNotFoundOrExpired = errors.New("invalid or expired code")

	// ErrCodeMismatch means the supplied code did not match; the stored
	// passcode survives, so retries are allowed until it expires.
	ErrCodeMismatch = errors.New("incorrect verification code")

	// ErrSessionExpired means the staged signup vanished between
	// verification and promotion; the caller must restart from signup.
	ErrSessionExpired = errors.New("session expired, please sign up again")

	// ErrAccountCreateFailed means the durable store rejected the account
	// write; the staged signup is kept so promotion can be retried.
	ErrAccountCreateFailed = errors.New("failed to create account")

	// ErrAllocationExhausted means the tracking-ID allocator gave up after
	// its retry budget without finding a free identifier.
	ErrAllocationExhausted = errors.New("tracking id allocation exhausted")
)
