// Package domain holds the entity types shared across the oversight
// services: parents, children, linked platform accounts, and the scan
// artifacts (channels, videos, analysis results, alerts) produced for them.
package domain

import (
	"time"

	"github.com/parentwatch/scanguard/pkg/riskanalysis"
)

type Platform string

const (
	PlatformYouTube Platform = "YOUTUBE"
)

type ParentUser struct {
	ID             string
	Email          string
	HashedPassword string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ChildProfile struct {
	ID          string
	ParentID    string
	DisplayName string
	Age         *int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsUnder13 reports whether the child is subject to the COPPA gate. A nil
// age is treated as unknown, not as under 13.
func (c *ChildProfile) IsUnder13() bool {
	return c.Age != nil && *c.Age < 13
}

type LinkedAccount struct {
	ID                     string
	ChildProfileID         string
	Platform               Platform
	PlatformAccountID      string
	PlatformUsername       string
	AccessTokenCiphertext  []byte
	RefreshTokenCiphertext []byte
	TokenExpiry            *time.Time
	Scopes                 string
	LastScanAt             *time.Time
	IsActive               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type VerificationMethod string

const (
	VerificationMethodAgeCheck         VerificationMethod = "AGE_CHECK"
	VerificationMethodCreditCard       VerificationMethod = "CREDIT_CARD"
	VerificationMethodDigitalSignature VerificationMethod = "DIGITAL_SIGNATURE"
	VerificationMethodDocumentUpload   VerificationMethod = "DOCUMENT_UPLOAD"
)

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusVerified VerificationStatus = "VERIFIED"
	VerificationStatusRejected VerificationStatus = "REJECTED"
	VerificationStatusExpired  VerificationStatus = "EXPIRED"
)

type CoppaVerification struct {
	ID             string
	ChildProfileID string
	Platform       Platform
	Method         VerificationMethod
	Status         VerificationStatus
	VerifiedAt     *time.Time
	ExpiresAt      *time.Time
	Notes          string
	Data           []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SubscribedChannel struct {
	ID              string
	LinkedAccountID string
	ChannelID       string
	Title           string
	Description     string
	ThumbnailURL    string
	SubscriberCount *int64
	VideoCount      *int64
	TopicDetails    []byte
	LastFetchedAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AnalyzedVideo struct {
	ID              string
	ChannelID       string
	VideoPlatformID string
	Title           string
	Description     string
	PublishedAt     *time.Time
	Duration        string
	ViewCount       *int64
	LikeCount       *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RiskCategory and Severity are the canonical lowercase-snake wire forms
// produced by the risk analyzer; aliased here so storage and alert code
// share the same type without a second definition to drift out of sync.
type RiskCategory = riskanalysis.Category

type Severity = riskanalysis.Severity

const (
	RiskCategoryHateSpeech         = riskanalysis.CategoryHateSpeech
	RiskCategorySelfHarm           = riskanalysis.CategorySelfHarm
	RiskCategoryGraphicViolence    = riskanalysis.CategoryGraphicViolence
	RiskCategoryExplicitContent    = riskanalysis.CategoryExplicitContent
	RiskCategoryBullying           = riskanalysis.CategoryBullying
	RiskCategoryDangerousChallenge = riskanalysis.CategoryDangerousChallenge
	RiskCategoryMisinformation     = riskanalysis.CategoryMisinformation
)

const (
	SeverityLow    = riskanalysis.SeverityLow
	SeverityMedium = riskanalysis.SeverityMedium
	SeverityHigh   = riskanalysis.SeverityHigh
)

type AnalysisResult struct {
	ID                 string
	VideoID            string
	ChannelID          string
	RiskCategory       RiskCategory
	Severity           Severity
	FlaggedText        string
	KeywordsMatched    []string
	ConfidenceScore    float64
	MarkedNotHarmful   bool
	MarkedNotHarmfulAt *time.Time
	MarkedNotHarmfulBy *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type AlertType string

const (
	AlertTypeScanComplete  AlertType = "SCAN_COMPLETE"
	AlertTypeNewFlags      AlertType = "NEW_FLAGS"
	AlertTypeHighRisk      AlertType = "HIGH_RISK"
	AlertTypeAccountChange AlertType = "ACCOUNT_CHANGE"
)

type Alert struct {
	ID             string
	ChildProfileID string
	AlertType      AlertType
	Title          string
	Message        string
	SummaryData    map[string]any
	IsRead         bool
	ReadAt         *time.Time
	CreatedAt      time.Time
}

type AuditActionType string

const (
	AuditActionUserLogin        AuditActionType = "USER_LOGIN"
	AuditActionUserLogout       AuditActionType = "USER_LOGOUT"
	AuditActionProfileCreate    AuditActionType = "PROFILE_CREATE"
	AuditActionProfileUpdate    AuditActionType = "PROFILE_UPDATE"
	AuditActionProfileDelete    AuditActionType = "PROFILE_DELETE"
	AuditActionAccountLink      AuditActionType = "ACCOUNT_LINK"
	AuditActionAccountUnlink    AuditActionType = "ACCOUNT_UNLINK"
	AuditActionScanTriggered    AuditActionType = "SCAN_TRIGGERED"
	AuditActionScanCompleted    AuditActionType = "SCAN_COMPLETED"
	AuditActionScanCancelled    AuditActionType = "SCAN_CANCELLED"
	AuditActionMarkNotHarmful   AuditActionType = "MARK_NOT_HARMFUL"
	AuditActionDataAccessed     AuditActionType = "DATA_ACCESSED"
	AuditActionDataCreated      AuditActionType = "DATA_CREATED"
	AuditActionDataUpdated      AuditActionType = "DATA_UPDATED"
	AuditActionDataDeleted      AuditActionType = "DATA_DELETED"
	AuditActionSystemError      AuditActionType = "SYSTEM_ERROR"
)

type AuditLog struct {
	ID           string
	ParentID     *string
	Action       AuditActionType
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}

type NotificationPreferences struct {
	ParentID          string
	EmailEnabled      bool
	PushEnabled       bool
	PerAlertTypeMuted map[AlertType]bool
}

type DeviceToken struct {
	ID        string
	ParentID  string
	Token     string
	Platform  string
	CreatedAt time.Time
}
