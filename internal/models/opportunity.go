package models

// Opportunity stages.
const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"
)

// OpportunityStages lists the pipeline stages in funnel order.
var OpportunityStages = []string{
	StageLead, StageQualified, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost,
}

// ValidOpportunityStage reports whether s is a declared opportunity stage.
func ValidOpportunityStage(s string) bool {
	for _, v := range OpportunityStages {
		if s == v {
			return true
		}
	}
	return false
}

// Opportunity is one deal in the sales pipeline.
type Opportunity struct {
	ID            string  `gorm:"primaryKey;size:32"`
	Name          string  `gorm:"size:128;not null"`
	Stage         string  `gorm:"size:16;not null;index"`
	Value         float64 `gorm:"not null"`
	Probability   float64 `gorm:"not null"`
	ExpectedClose int64   `gorm:"index"`
	Owner         string  `gorm:"size:64;not null;index"`
	Source        string  `gorm:"size:64"`
	ExternalID    string  `gorm:"size:64;index"`
	Contact       string  `gorm:"size:128"`
	Notes         string  `gorm:"type:text"`
	LastActivity  int64
	CreatedAt     int64 `gorm:"not null"`
	UpdatedAt     int64 `gorm:"not null"`
}
