package models

// Draft statuses (review queue).
const (
	DraftPending   = "pending"
	DraftSent      = "sent"
	DraftEdited    = "edited"
	DraftDiscarded = "discarded"
)

// ValidDraftStatus reports whether s is a declared draft status.
func ValidDraftStatus(s string) bool {
	return s == DraftPending || s == DraftSent || s == DraftEdited || s == DraftDiscarded
}

// ValidDraftCategory reports whether c is a declared draft category.
func ValidDraftCategory(c string) bool {
	return c == "client" || c == "internal" || c == "personal" || c == "other"
}

// Draft is an email draft written by the assistant, pending human review.
type Draft struct {
	ID           string `gorm:"primaryKey;size:32"`
	Subject      string `gorm:"not null"`
	To           string `gorm:"size:255;not null"`
	Body         string `gorm:"type:text;not null"`
	ThreadID     string `gorm:"size:64"`
	MessageID    string `gorm:"size:64"`
	GmailDraftID string `gorm:"size:64"`
	Status       string `gorm:"size:16;default:pending;index"`
	Category     string `gorm:"size:16"`
	Priority     string `gorm:"size:8;index"`
	CreatedAt    int64  `gorm:"not null;index"`
	SentAt       int64
}
