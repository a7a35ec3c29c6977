package models

// Skill types.
const (
	SkillMaker    = "maker"
	SkillSOP      = "sop"
	SkillTool     = "tool"
	SkillInternal = "internal"
)

// ValidSkillType reports whether t is a declared skill type.
func ValidSkillType(t string) bool {
	return t == SkillMaker || t == SkillSOP || t == SkillTool || t == SkillInternal
}

// Skill is a capability document synced from the skills repo.
type Skill struct {
	ID            string `gorm:"primaryKey;size:32"`
	Name          string `gorm:"size:128;not null"`
	Slug          string `gorm:"size:128;not null;uniqueIndex"`
	Description   string `gorm:"type:text;not null"`
	Type          string `gorm:"size:16;not null;index"`
	Content       string `gorm:"type:text"`
	RepoPath      string `gorm:"size:255;not null"`
	HasReferences bool   `gorm:"default:false"`
	LastSynced    int64
	CreatedAt     int64 `gorm:"not null"`
	UpdatedAt     int64 `gorm:"not null"`
}
