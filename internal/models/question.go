package models

// Question categories.
const (
	QuestionClarification = "clarification"
	QuestionPermission    = "permission"
	QuestionPreference    = "preference"
	QuestionDecision      = "decision"
	QuestionFeedback      = "feedback"
	QuestionOther         = "other"
)

// Question statuses.
const (
	QuestionPending   = "pending"
	QuestionAnswered  = "answered"
	QuestionDismissed = "dismissed"
)

// ValidQuestionCategory reports whether c is a declared question category.
func ValidQuestionCategory(c string) bool {
	switch c {
	case QuestionClarification, QuestionPermission, QuestionPreference,
		QuestionDecision, QuestionFeedback, QuestionOther:
		return true
	}
	return false
}

// Question is something the assistant wants to ask its operator.
type Question struct {
	ID         string `gorm:"primaryKey;size:32"`
	Question   string `gorm:"type:text;not null"`
	Context    string `gorm:"type:text"`
	Category   string `gorm:"size:16;not null"`
	Priority   string `gorm:"size:8;not null;index"`
	Status     string `gorm:"size:16;default:pending;index"`
	Answer     string `gorm:"type:text"`
	AnsweredAt int64
	RelatedTo  string `gorm:"size:255"`
	Timestamp  int64  `gorm:"not null;index"`
}
