package models

// Agent statuses.
const (
	AgentIdle    = "idle"
	AgentWorking = "working"
	AgentOffline = "offline"
)

// ValidAgentStatus reports whether s is a declared agent status.
func ValidAgentStatus(s string) bool {
	return s == AgentIdle || s == AgentWorking || s == AgentOffline
}

// Agent is a member of the AI team roster. Status transitions are driven
// externally; nothing here flips an agent offline on timeout.
type Agent struct {
	ID               string `gorm:"primaryKey;size:32"`
	Name             string `gorm:"size:64;not null"`
	Role             string `gorm:"size:64;not null;index"`
	Responsibilities string `gorm:"type:json"`
	Status           string `gorm:"size:16;default:idle;index"`
	CurrentTask      string `gorm:"type:text"`
	Avatar           string `gorm:"size:255"`
	CreatedAt        int64  `gorm:"not null"`
}
