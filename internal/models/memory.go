package models

// Memory is a long-term note the assistant keeps about the operator's world.
type Memory struct {
	ID        string `gorm:"primaryKey;size:32"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	Category  string `gorm:"size:64;index"`
	Tags      string `gorm:"type:json"`
	Source    string `gorm:"size:255"`
	CreatedAt int64  `gorm:"not null"`
}
