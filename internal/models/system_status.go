package models

// SystemStatus is a generic key-value register, one row per key, upserted by
// key. The presence subsystem reserves a small set of well-known keys; see
// the presence package for the named constants.
type SystemStatus struct {
	ID        string `gorm:"primaryKey;size:32"`
	Key       string `gorm:"size:64;not null;uniqueIndex"`
	Value     string `gorm:"type:text"`
	UpdatedAt int64  `gorm:"not null"`
}
