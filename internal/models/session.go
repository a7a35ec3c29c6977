package models

// Session entry types.
const (
	EntryEmail         = "email"
	EntryCoding        = "coding"
	EntryResearch      = "research"
	EntryAutomation    = "automation"
	EntryCommunication = "communication"
	EntryMemory        = "memory"
	EntryOther         = "other"
)

// ValidEntryType reports whether t is a declared session entry type.
func ValidEntryType(t string) bool {
	switch t {
	case EntryEmail, EntryCoding, EntryResearch, EntryAutomation,
		EntryCommunication, EntryMemory, EntryOther:
		return true
	}
	return false
}

// Session summarizes one day of autonomous assistant work.
type Session struct {
	ID           string `gorm:"primaryKey;size:32"`
	Date         string `gorm:"size:10;not null;uniqueIndex"`
	Summary      string `gorm:"type:text"`
	TotalActions int    `gorm:"default:0"`
	Categories   string `gorm:"type:json"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null"`
}

// SessionEntry is one action inside a session.
type SessionEntry struct {
	ID        string `gorm:"primaryKey;size:32"`
	SessionID string `gorm:"size:32;index"`
	Date      string `gorm:"size:10;not null;index"`
	Type      string `gorm:"size:16;not null;index"`
	Action    string `gorm:"not null"`
	Reasoning string `gorm:"type:text"`
	Outcome   string `gorm:"type:text"`
	Duration  int
	RelatedTo string `gorm:"size:255"`
	Timestamp int64  `gorm:"not null;index"`
}
