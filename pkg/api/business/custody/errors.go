package custody

import (
	"fmt"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// ErrAuthFailure means the token is unusable after a refresh attempt; the
// caller must surface this without proceeding.
var ErrAuthFailure = fmt.Errorf("custody: account requires re-authentication: %w", domain.ErrAuthFailure)

// ErrIntegrityError means stored ciphertext failed to decrypt with the
// current key. The account is deactivated when this occurs.
var ErrIntegrityError = fmt.Errorf("custody: stored token ciphertext failed to decrypt: %w", domain.ErrIntegrity)

var ErrAccountNotFound = fmt.Errorf("custody: linked account not found: %w", domain.ErrNotFound)
