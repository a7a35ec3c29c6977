package models

// Activity event types. This is the single declaration of the event-type set;
// every producer references these constants.
const (
	ActivityTaskStarted       = "task_started"
	ActivityTaskCompleted     = "task_completed"
	ActivityEmailDrafted      = "email_drafted"
	ActivityMemoryAdded       = "memory_added"
	ActivityCronExecuted      = "cron_executed"
	ActivityHeartbeat         = "heartbeat"
	ActivitySessionStarted    = "session_started"
	ActivityDecisionMade      = "decision_made"
	ActivityApprovalRequested = "approval_requested"
	ActivityQuestionAsked     = "question_asked"
	ActivityError             = "error"
	ActivityInfo              = "info"
)

// ActivityTypes lists every valid activity event type.
var ActivityTypes = []string{
	ActivityTaskStarted,
	ActivityTaskCompleted,
	ActivityEmailDrafted,
	ActivityMemoryAdded,
	ActivityCronExecuted,
	ActivityHeartbeat,
	ActivitySessionStarted,
	ActivityDecisionMade,
	ActivityApprovalRequested,
	ActivityQuestionAsked,
	ActivityError,
	ActivityInfo,
}

// ValidActivityType reports whether t is a declared activity event type.
func ValidActivityType(t string) bool {
	for _, v := range ActivityTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ActivityEvent is one row of the append-only audit log. Rows are never
// mutated after insert; the only deletion path is the retention purge.
type ActivityEvent struct {
	ID        string `gorm:"primaryKey;size:32"`
	AgentID   string `gorm:"size:32;index"`
	AgentName string `gorm:"size:64"`
	Type      string `gorm:"size:24;not null;index:idx_activity_type"`
	Action    string `gorm:"not null"`
	Details   string `gorm:"type:text"`
	Metadata  string `gorm:"type:json"`
	Timestamp int64  `gorm:"not null;index:idx_activity_ts"`
}
