package models

// Task statuses and assignees.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskDone       = "done"

	AssigneeHuman = "human"
	AssigneeAI    = "ai"
)

// ValidTaskStatus reports whether s is a declared task status.
func ValidTaskStatus(s string) bool {
	return s == TaskTodo || s == TaskInProgress || s == TaskDone
}

// ValidAssignee reports whether a is a declared task assignee.
func ValidAssignee(a string) bool {
	return a == AssigneeHuman || a == AssigneeAI
}

// ValidPriority reports whether p is a declared task priority.
func ValidPriority(p string) bool {
	return p == "low" || p == "medium" || p == "high"
}

// Task is one card on the task board.
type Task struct {
	ID          string `gorm:"primaryKey;size:32"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:16;default:todo;index"`
	Assignee    string `gorm:"size:8;not null;index"`
	Priority    string `gorm:"size:8"`
	DueDate     int64
	CreatedAt   int64 `gorm:"not null"`
	UpdatedAt   int64 `gorm:"not null"`
}
