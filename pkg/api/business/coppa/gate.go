// Package coppa guards account linking for children under 13, per §4.6: a
// LinkedAccount for an under-13 ChildProfile requires an active VERIFIED
// CoppaVerification for that platform.
package coppa

import (
	"context"
	"errors"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

var (
	ErrFailedToCheck        = errors.New("failed to check coppa verification status")
	ErrFailedToSubmit       = errors.New("failed to submit coppa verification")
	ErrChildProfileNotFound = errors.New("child profile not found")
)

// methodsAutoApproved are the verification methods accepted as VERIFIED the
// moment they're submitted. All other methods (AGE_CHECK, DOCUMENT_UPLOAD)
// land as PENDING until a reviewer acts on them.
var methodsAutoApproved = map[domain.VerificationMethod]bool{
	domain.VerificationMethodCreditCard:       true,
	domain.VerificationMethodDigitalSignature: true,
}

// Gate implements the COPPA Verification Gate.
type Gate struct {
	children    ChildProfileRepository
	repo        Repository
	audit       Auditor
	idGenerator IDGenerator
	clock       Clock
}

func NewGate(children ChildProfileRepository, repo Repository, audit Auditor, idGenerator IDGenerator, clock Clock) *Gate {
	return &Gate{children: children, repo: repo, audit: audit, idGenerator: idGenerator, clock: clock}
}

// EnsureAllowed implements the gate's algorithm: children 13 or older (or
// with no recorded age) are always Allowed; younger children need an active
// VERIFIED record, else fall back to Pending or RequiresVerification.
func (g *Gate) EnsureAllowed(ctx context.Context, childProfileID string, platform domain.Platform) (Decision, error) {
	child, err := g.children.GetChildProfile(ctx, childProfileID)
	if err != nil {
		return "", errors.Join(ErrChildProfileNotFound, err)
	}

	if !child.IsUnder13() {
		return DecisionAllowed, nil
	}

	active, err := g.repo.GetActiveVerification(ctx, childProfileID, platform)
	if err != nil {
		return "", errors.Join(ErrFailedToCheck, err)
	}

	if active != nil && (active.ExpiresAt == nil || active.ExpiresAt.After(g.clock.Now())) {
		return DecisionAllowed, nil
	}

	pending, err := g.repo.GetPendingVerification(ctx, childProfileID, platform)
	if err != nil {
		return "", errors.Join(ErrFailedToCheck, err)
	}

	if pending != nil {
		return DecisionPending, nil
	}

	return DecisionRequiresVerification, nil
}

// SubmitVerification records a verification attempt. CREDIT_CARD and
// DIGITAL_SIGNATURE methods are auto-approved in v1 and land VERIFIED with a
// 365-day expiry; every other method lands PENDING awaiting manual review.
func (g *Gate) SubmitVerification(
	ctx context.Context,
	childProfileID string,
	platform domain.Platform,
	method domain.VerificationMethod,
	notes string,
	data []byte,
) (*domain.CoppaVerification, error) {
	now := g.clock.Now()

	verification := &domain.CoppaVerification{
		ID:             g.idGenerator(),
		ChildProfileID: childProfileID,
		Platform:       platform,
		Method:         method,
		Status:         domain.VerificationStatusPending,
		VerifiedAt:     nil,
		ExpiresAt:      nil,
		Notes:          notes,
		Data:           data,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if methodsAutoApproved[method] {
		expiresAt := now.Add(autoApprovalTTL)
		verification.Status = domain.VerificationStatusVerified
		verification.VerifiedAt = &now
		verification.ExpiresAt = &expiresAt
	}

	if err := g.repo.CreateVerification(ctx, verification); err != nil {
		return nil, errors.Join(ErrFailedToSubmit, err)
	}

	g.audit.RecordAction(ctx, domain.AuditActionAccountLink, "coppa_verification", verification.ID, map[string]any{
		"child_profile_id": childProfileID,
		"platform":         string(platform),
		"method":           string(method),
		"status":           string(verification.Status),
	})

	return verification, nil
}
