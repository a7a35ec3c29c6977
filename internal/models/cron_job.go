package models

// Cron job statuses.
const (
	CronActive = "active"
	CronPaused = "paused"
	CronFailed = "failed"
)

// ValidCronStatus reports whether s is a declared cron job status.
func ValidCronStatus(s string) bool {
	return s == CronActive || s == CronPaused || s == CronFailed
}

// CronJob tracks a scheduled job run by the external worker. The registry is
// tracking-only; nothing here executes jobs.
type CronJob struct {
	ID          string `gorm:"primaryKey;size:32"`
	Name        string `gorm:"size:128;not null"`
	Schedule    string `gorm:"size:64;not null"`
	Description string `gorm:"type:text"`
	LastRun     int64
	NextRun     int64  `gorm:"index"`
	Status      string `gorm:"size:16;default:active;index"`
	LastOutput  string `gorm:"type:text"`
	RunCount    int    `gorm:"default:0"`
	CreatedAt   int64  `gorm:"not null"`
}
