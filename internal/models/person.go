package models

// Person relationships.
const (
	RelFamily  = "family"
	RelTeam    = "team"
	RelClient  = "client"
	RelContact = "contact"
)

// ValidRelationship reports whether r is a declared relationship.
func ValidRelationship(r string) bool {
	return r == RelFamily || r == RelTeam || r == RelClient || r == RelContact
}

// Person is one entry in the contacts directory.
type Person struct {
	ID           string `gorm:"primaryKey;size:32"`
	Name         string `gorm:"size:128;not null"`
	Relationship string `gorm:"size:16;not null;index"`
	Company      string `gorm:"size:128"`
	Email        string `gorm:"size:255"`
	Phone        string `gorm:"size:64"`
	Notes        string `gorm:"type:text"`
	Birthday     int64
	LastContact  int64
	Avatar       string `gorm:"size:255"`
	CreatedAt    int64  `gorm:"not null"`
}
