package models

// Decision categories.
const (
	DecisionEmail          = "email"
	DecisionScheduling     = "scheduling"
	DecisionPrioritization = "prioritization"
	DecisionCommunication  = "communication"
	DecisionTechnical      = "technical"
	DecisionOther          = "other"
)

// Decision feedback values.
const (
	FeedbackGood    = "good"
	FeedbackBad     = "bad"
	FeedbackNeutral = "neutral"
)

// ValidDecisionCategory reports whether c is a declared decision category.
func ValidDecisionCategory(c string) bool {
	switch c {
	case DecisionEmail, DecisionScheduling, DecisionPrioritization,
		DecisionCommunication, DecisionTechnical, DecisionOther:
		return true
	}
	return false
}

// Decision impact levels.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// ValidImpact reports whether i is low, medium, or high.
func ValidImpact(i string) bool {
	return i == ImpactLow || i == ImpactMedium || i == ImpactHigh
}

// ValidFeedback reports whether f is a declared feedback value.
func ValidFeedback(f string) bool {
	return f == FeedbackGood || f == FeedbackBad || f == FeedbackNeutral
}

// Decision is an autonomous choice the assistant made, logged for review.
type Decision struct {
	ID           string `gorm:"primaryKey;size:32"`
	Title        string `gorm:"not null"`
	Description  string `gorm:"type:text;not null"`
	Alternatives string `gorm:"type:json"`
	Reasoning    string `gorm:"type:text;not null"`
	Category     string `gorm:"size:16;not null;index"`
	Impact       string `gorm:"size:8;not null"`
	Feedback     string `gorm:"size:8;index"`
	FeedbackNote string `gorm:"type:text"`
	Reviewed     bool   `gorm:"default:false;index"`
	Timestamp    int64  `gorm:"not null;index"`
}
