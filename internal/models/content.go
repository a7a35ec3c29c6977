package models

// Content pipeline stages, in production order.
const (
	StageIdea      = "idea"
	StageScript    = "script"
	StageThumbnail = "thumbnail"
	StageFilming   = "filming"
	StageEditing   = "editing"
	StagePublished = "published"
)

// ContentStages lists the pipeline stages in order.
var ContentStages = []string{
	StageIdea, StageScript, StageThumbnail, StageFilming, StageEditing, StagePublished,
}

// ValidContentStage reports whether s is a declared pipeline stage.
func ValidContentStage(s string) bool {
	for _, v := range ContentStages {
		if s == v {
			return true
		}
	}
	return false
}

// ContentItem is one piece of content moving through the pipeline.
type ContentItem struct {
	ID           string `gorm:"primaryKey;size:32"`
	Title        string `gorm:"not null"`
	Description  string `gorm:"type:text"`
	Stage        string `gorm:"size:16;default:idea;index"`
	Script       string `gorm:"type:text"`
	ThumbnailURL string `gorm:"size:255"`
	PublishedURL string `gorm:"size:255"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null"`
}
