package models

// Approval types.
const (
	ApprovalEmailSend      = "email_send"
	ApprovalSocialPost     = "social_post"
	ApprovalPurchase       = "purchase"
	ApprovalExternalAction = "external_action"
	ApprovalCodeDeploy     = "code_deploy"
	ApprovalOther          = "other"
)

// Approval statuses.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Queue priorities, shared by approvals and questions.
const (
	PriorityUrgent = "urgent"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// ValidApprovalType reports whether t is a declared approval type.
func ValidApprovalType(t string) bool {
	switch t {
	case ApprovalEmailSend, ApprovalSocialPost, ApprovalPurchase,
		ApprovalExternalAction, ApprovalCodeDeploy, ApprovalOther:
		return true
	}
	return false
}

// ValidQueuePriority reports whether p is urgent, normal, or low.
func ValidQueuePriority(p string) bool {
	return p == PriorityUrgent || p == PriorityNormal || p == PriorityLow
}

// Approval is an action waiting for human sign-off.
type Approval struct {
	ID          string `gorm:"primaryKey;size:32"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	Type        string `gorm:"size:16;not null;index"`
	Content     string `gorm:"type:text"`
	Metadata    string `gorm:"type:json"`
	Status      string `gorm:"size:16;default:pending;index"`
	Priority    string `gorm:"size:8;not null;index"`
	Feedback    string `gorm:"type:text"`
	DecidedAt   int64
	ExpiresAt   int64
	Timestamp   int64 `gorm:"not null;index"`
}
