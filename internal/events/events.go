// Package events stores calendar entries surfaced on the dashboard.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// List returns all events by start time ascending.
func List(db *gorm.DB) ([]models.Event, error) {
	var rows []models.Event
	if err := db.Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("events: list: %w", err)
	}
	return rows, nil
}

// Upcoming returns incomplete events starting within the next days.
func Upcoming(db *gorm.DB, days int) ([]models.Event, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now().UnixMilli()
	horizon := now + int64(days)*24*60*60*1000

	var rows []models.Event
	if err := db.Where("start_time >= ? AND start_time <= ? AND completed = ?", now, horizon, false).
		Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("events: upcoming: %w", err)
	}
	return rows, nil
}

// ListByType returns events of one type by start time ascending.
func ListByType(db *gorm.DB, eventType string) ([]models.Event, error) {
	if !models.ValidEventType(eventType) {
		return nil, fmt.Errorf("events: invalid type %q", eventType)
	}
	var rows []models.Event
	if err := db.Where("type = ?", eventType).
		Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("events: list by type: %w", err)
	}
	return rows, nil
}

// ForMonth returns events starting within one calendar month (UTC).
func ForMonth(db *gorm.DB, year int, month time.Month) ([]models.Event, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rows []models.Event
	if err := db.Where("start_time >= ? AND start_time < ?", start.UnixMilli(), end.UnixMilli()).
		Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("events: for month: %w", err)
	}
	return rows, nil
}

// Get returns one event by id.
func Get(db *gorm.DB, id string) (*models.Event, error) {
	var row models.Event
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("events: event not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("events: get: %w", err)
	}
	return &row, nil
}

// CreateOpts holds the optional fields for a new event.
type CreateOpts struct {
	Description string
	EndTime     int64
	Recurring   string
}

// Create adds a calendar entry.
func Create(db *gorm.DB, title, eventType string, startTime int64, opts CreateOpts) (*models.Event, error) {
	if title == "" {
		return nil, fmt.Errorf("events: title is required")
	}
	if !models.ValidEventType(eventType) {
		return nil, fmt.Errorf("events: invalid type %q", eventType)
	}
	if startTime <= 0 {
		return nil, fmt.Errorf("events: start time is required")
	}

	id, err := models.NewID("event")
	if err != nil {
		return nil, err
	}
	row := models.Event{
		ID:          id,
		Title:       title,
		Description: opts.Description,
		Type:        eventType,
		StartTime:   startTime,
		EndTime:     opts.EndTime,
		Recurring:   opts.Recurring,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("events: create: %w", err)
	}
	return &row, nil
}

// Complete marks an event done.
func Complete(db *gorm.DB, id string) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	if err := db.Model(row).Update("completed", true).Error; err != nil {
		return fmt.Errorf("events: complete: %w", err)
	}
	return nil
}

// UpdateOpts holds the mutable event fields. Nil means leave unchanged.
type UpdateOpts struct {
	Title       *string
	Description *string
	StartTime   *int64
	EndTime     *int64
	Recurring   *string
}

// Update patches an event's fields.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	changes := map[string]interface{}{}
	if opts.Title != nil {
		changes["title"] = *opts.Title
	}
	if opts.Description != nil {
		changes["description"] = *opts.Description
	}
	if opts.StartTime != nil {
		changes["start_time"] = *opts.StartTime
	}
	if opts.EndTime != nil {
		changes["end_time"] = *opts.EndTime
	}
	if opts.Recurring != nil {
		changes["recurring"] = *opts.Recurring
	}
	if len(changes) == 0 {
		return nil
	}
	if err := db.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("events: update: %w", err)
	}
	return nil
}

// Remove deletes an event.
func Remove(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.Event{}).Error; err != nil {
		return fmt.Errorf("events: remove: %w", err)
	}
	return nil
}
