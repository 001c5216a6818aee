package coppa

import (
	"context"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// Decision is the verdict ensure_allowed returns.
type Decision string

const (
	// DecisionAllowed means a LinkedAccount may be created.
	DecisionAllowed Decision = "ALLOWED"
	// DecisionPending means a verification is already submitted and under
	// review; the caller should not prompt for a new one.
	DecisionPending Decision = "PENDING"
	// DecisionRequiresVerification means no usable verification exists; the
	// caller must collect one before linking can proceed.
	DecisionRequiresVerification Decision = "REQUIRES_VERIFICATION"
)

// autoApprovalTTL is how long an auto-approved verification is valid before
// it must be resubmitted.
const autoApprovalTTL = 365 * 24 * time.Hour

// ChildProfileRepository resolves a child profile's age for the gate check.
type ChildProfileRepository interface {
	GetChildProfile(ctx context.Context, childProfileID string) (*domain.ChildProfile, error)
}

// Repository defines storage operations for CoppaVerification rows (port).
type Repository interface {
	// GetActiveVerification returns the VERIFIED, non-expired record for
	// (childProfileID, platform), or nil if none exists.
	GetActiveVerification(ctx context.Context, childProfileID string, platform domain.Platform) (*domain.CoppaVerification, error)
	// GetPendingVerification returns a PENDING record for
	// (childProfileID, platform), or nil if none exists.
	GetPendingVerification(ctx context.Context, childProfileID string, platform domain.Platform) (*domain.CoppaVerification, error)
	CreateVerification(ctx context.Context, verification *domain.CoppaVerification) error
}

// Auditor is the narrow slice of the audit service the gate calls.
type Auditor interface {
	RecordAction(ctx context.Context, action domain.AuditActionType, resourceType, resourceID string, details map[string]any)
}

// IDGenerator generates unique verification row IDs.
type IDGenerator func() string

// Clock abstracts wall-clock time for deterministic testing.
type Clock interface {
	Now() time.Time
}
