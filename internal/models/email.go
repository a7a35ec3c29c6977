package models

// Gmail-side draft statuses. Distinct from the review-queue Draft statuses:
// these mirror the state of the draft resource inside Gmail.
const (
	EmailDraftPending = "pending"
	EmailDraftSent    = "sent"
	EmailDraftDeleted = "deleted"
)

// ValidEmailDraftStatus reports whether s is a declared gmail draft status.
func ValidEmailDraftStatus(s string) bool {
	return s == EmailDraftPending || s == EmailDraftSent || s == EmailDraftDeleted
}

// EmailDraft links a Gmail draft resource to the email it replies to.
type EmailDraft struct {
	ID              string `gorm:"primaryKey;size:32"`
	DraftID         string `gorm:"size:64;not null;uniqueIndex"`
	ThreadID        string `gorm:"size:64;not null;index"`
	OriginalEmailID string `gorm:"size:64;not null"`
	Status          string `gorm:"size:16;default:pending;index"`
	ToneMatchScore  float64
	CreatedAt       int64 `gorm:"not null"`
	SentAt          int64
}

// EmailClassification is the triage verdict for one inbound email.
type EmailClassification struct {
	ID              string  `gorm:"primaryKey;size:32"`
	EmailID         string  `gorm:"size:64;not null;uniqueIndex"`
	ThreadID        string  `gorm:"size:64;not null"`
	Category        string  `gorm:"size:32;not null;index"`
	Confidence      float64 `gorm:"not null"`
	Priority        float64 `gorm:"not null"`
	ShouldAutoReply bool    `gorm:"default:false"`
	Reasoning       string  `gorm:"type:text;not null"`
	SenderDomain    string  `gorm:"size:128"`
	ProcessedAt     int64   `gorm:"not null;index"`
}

// EmailToneProfile captures the operator's writing style, learned from sent
// mail. ProfileData is an opaque JSON blob owned by the analyzer.
type EmailToneProfile struct {
	ID             string `gorm:"primaryKey;size:32"`
	UserID         string `gorm:"size:128;not null;uniqueIndex"`
	ProfileData    string `gorm:"type:json;not null"`
	SampleCount    int    `gorm:"not null"`
	LastAnalyzedAt int64  `gorm:"not null"`
}

// GmailConfig holds per-account settings for the inbox watcher.
type GmailConfig struct {
	ID              string `gorm:"primaryKey;size:32"`
	UserID          string `gorm:"size:128;not null;uniqueIndex"`
	ExcludedDomains string `gorm:"type:json"`
	LastSyncAt      int64
	Enabled         bool `gorm:"default:true"`
}
