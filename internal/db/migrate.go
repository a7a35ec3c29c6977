package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model for migration, one table per entity.
func AllModels() []interface{} {
	return []interface{}{
		&models.Task{},
		&models.ContentItem{},
		&models.Event{},
		&models.Memory{},
		&models.Agent{},
		&models.CronJob{},
		&models.Person{},
		&models.ActivityEvent{},
		&models.SystemStatus{},
		&models.Session{},
		&models.SessionEntry{},
		&models.Decision{},
		&models.Question{},
		&models.Approval{},
		&models.Lesson{},
		&models.Draft{},
		&models.OKR{},
		&models.Opportunity{},
		&models.Skill{},
		&models.EmailDraft{},
		&models.EmailClassification{},
		&models.EmailToneProfile{},
		&models.GmailConfig{},
	}
}

// AutoMigrate creates or updates all tables, then sets up the full-text
// search indexes where the driver supports them.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	SetupSearchIndexes(db)
	return nil
}

// AgentSeed describes one agent from configuration.
type AgentSeed struct {
	Name             string
	Role             string
	Responsibilities []string
	Avatar           string
}

// SeedAgents inserts the configured agent roster, skipping names that already
// exist. Seeding is idempotent.
func SeedAgents(db *gorm.DB, seeds []AgentSeed) error {
	for _, s := range seeds {
		var count int64
		if err := db.Model(&models.Agent{}).Where("name = ?", s.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("db: seed agent %q: %w", s.Name, err)
		}
		if count > 0 {
			continue
		}

		resp, err := json.Marshal(s.Responsibilities)
		if err != nil {
			return fmt.Errorf("db: marshal responsibilities for %q: %w", s.Name, err)
		}

		id, err := models.NewID("agent")
		if err != nil {
			return err
		}
		agent := models.Agent{
			ID:               id,
			Name:             s.Name,
			Role:             s.Role,
			Responsibilities: string(resp),
			Status:           models.AgentIdle,
			Avatar:           s.Avatar,
			CreatedAt:        time.Now().UnixMilli(),
		}
		if err := db.Create(&agent).Error; err != nil {
			return fmt.Errorf("db: seed agent %q: %w", s.Name, err)
		}
	}
	return nil
}
