package models

// Lesson categories.
const (
	LessonCommunication  = "communication"
	LessonTechnical      = "technical"
	LessonPrioritization = "prioritization"
	LessonStyle          = "style"
	LessonProcess        = "process"
	LessonOther          = "other"
)

// Lesson sources.
const (
	SourceFeedback    = "feedback"
	SourceCorrection  = "correction"
	SourceObservation = "observation"
	SourceExplicit    = "explicit"
)

// ValidLessonCategory reports whether c is a declared lesson category.
func ValidLessonCategory(c string) bool {
	switch c {
	case LessonCommunication, LessonTechnical, LessonPrioritization,
		LessonStyle, LessonProcess, LessonOther:
		return true
	}
	return false
}

// ValidLessonSource reports whether s is a declared lesson source.
func ValidLessonSource(s string) bool {
	switch s {
	case SourceFeedback, SourceCorrection, SourceObservation, SourceExplicit:
		return true
	}
	return false
}

// Lesson records something the assistant learned from feedback.
type Lesson struct {
	ID          string `gorm:"primaryKey;size:32"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	Lesson      string `gorm:"type:text;not null"`
	Category    string `gorm:"size:16;not null;index"`
	Source      string `gorm:"size:16;not null"`
	Applied     bool   `gorm:"default:false;index"`
	Timestamp   int64  `gorm:"not null;index"`
}
