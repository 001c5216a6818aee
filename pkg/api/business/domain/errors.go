package domain

import "errors"

// The six error categories callers across the system classify failures
// into. Concrete errors wrap one of these with %w so callers can branch on
// errors.Is without caring about the underlying cause.
var (
	// ErrAuthFailure signals a linked account's credentials are unusable
	// after a refresh attempt and the account needs re-linking.
	ErrAuthFailure = errors.New("auth failure")

	// ErrTransient signals a retryable failure (5xx, timeout, quota).
	ErrTransient = errors.New("transient error")

	// ErrNotFound signals the requested resource does not exist upstream
	// or in storage.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity signals stored data failed an integrity check (e.g. a
	// ciphertext that will not decrypt under the current key).
	ErrIntegrity = errors.New("integrity error")

	// ErrValidation signals caller-supplied input failed validation.
	ErrValidation = errors.New("validation error")

	// ErrSystem is the catch-all for unexpected failures recorded to the
	// audit log as SYSTEM_ERROR.
	ErrSystem = errors.New("system error")
)
