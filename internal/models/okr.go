package models

// OKR statuses.
const (
	OKROnTrack  = "on_track"
	OKRAtRisk   = "at_risk"
	OKRBehind   = "behind"
	OKRAchieved = "achieved"
)

// ValidOKRStatus reports whether s is a declared OKR status.
func ValidOKRStatus(s string) bool {
	return s == OKROnTrack || s == OKRAtRisk || s == OKRBehind || s == OKRAchieved
}

// KeyResult is one measurable result under an objective. Stored as a JSON
// array in OKR.KeyResults.
type KeyResult struct {
	Description string  `json:"description"`
	Target      float64 `json:"target"`
	Current     float64 `json:"current"`
	Unit        string  `json:"unit"`
}

// OKR is an objective with its key results for a quarter.
type OKR struct {
	ID         string `gorm:"primaryKey;size:32"`
	Objective  string `gorm:"not null"`
	KeyResults string `gorm:"type:json;not null"`
	Quarter    string `gorm:"size:16;not null;index"`
	Status     string `gorm:"size:16;not null;index"`
	Owner      string `gorm:"size:64;not null;index"`
	Notes      string `gorm:"type:text"`
	CreatedAt  int64  `gorm:"not null"`
	UpdatedAt  int64  `gorm:"not null"`
}
