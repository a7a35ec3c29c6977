package models

// Calendar event types.
const (
	EventTask     = "task"
	EventCron     = "cron"
	EventMeeting  = "meeting"
	EventBirthday = "birthday"
	EventDeadline = "deadline"
	EventReminder = "reminder"
)

// ValidEventType reports whether t is a declared event type.
func ValidEventType(t string) bool {
	switch t {
	case EventTask, EventCron, EventMeeting, EventBirthday, EventDeadline, EventReminder:
		return true
	}
	return false
}

// Event is one calendar entry.
type Event struct {
	ID          string `gorm:"primaryKey;size:32"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Type        string `gorm:"size:16;not null;index"`
	StartTime   int64  `gorm:"not null;index"`
	EndTime     int64
	Recurring   string `gorm:"size:64"`
	Completed   bool   `gorm:"default:false"`
	CreatedAt   int64  `gorm:"not null"`
}
