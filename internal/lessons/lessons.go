// Package lessons stores what the assistant has learned from operator
// feedback. Other modules (approvals, questions, decisions) write lessons as
// side effects of negative or preference-bearing feedback.
package lessons

import (
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// List returns lessons newest first.
func List(db *gorm.DB, limit int) ([]models.Lesson, error) {
	q := db.Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var lessons []models.Lesson
	if err := q.Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("lessons: list: %w", err)
	}
	return lessons, nil
}

// ByCategory returns lessons in one category, newest first.
func ByCategory(db *gorm.DB, category string) ([]models.Lesson, error) {
	if !models.ValidLessonCategory(category) {
		return nil, fmt.Errorf("lessons: invalid category %q", category)
	}
	var lessons []models.Lesson
	if err := db.Where("category = ?", category).
		Order("timestamp DESC").Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("lessons: by category: %w", err)
	}
	return lessons, nil
}

// UnappliedCount counts lessons not yet marked applied.
func UnappliedCount(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&models.Lesson{}).Where("applied = ?", false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("lessons: unapplied count: %w", err)
	}
	return count, nil
}

// Add records a new lesson.
func Add(db *gorm.DB, title, description, lesson, category, source string) (*models.Lesson, error) {
	if title == "" || lesson == "" {
		return nil, fmt.Errorf("lessons: title and lesson are required")
	}
	if !models.ValidLessonCategory(category) {
		return nil, fmt.Errorf("lessons: invalid category %q", category)
	}
	if !models.ValidLessonSource(source) {
		return nil, fmt.Errorf("lessons: invalid source %q", source)
	}

	id, err := models.NewID("lesson")
	if err != nil {
		return nil, err
	}
	row := models.Lesson{
		ID:          id,
		Title:       title,
		Description: description,
		Lesson:      lesson,
		Category:    category,
		Source:      source,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("lessons: add: %w", err)
	}
	return &row, nil
}

// MarkApplied flags a lesson as incorporated into behavior.
func MarkApplied(db *gorm.DB, id string) error {
	return patch(db, id, map[string]interface{}{"applied": true})
}

// UpdateOpts holds the mutable lesson fields. Nil means leave unchanged.
type UpdateOpts struct {
	Title       *string
	Description *string
	Lesson      *string
	Category    *string
}

// Update patches a lesson's editable fields.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	changes := map[string]interface{}{}
	if opts.Title != nil {
		changes["title"] = *opts.Title
	}
	if opts.Description != nil {
		changes["description"] = *opts.Description
	}
	if opts.Lesson != nil {
		changes["lesson"] = *opts.Lesson
	}
	if opts.Category != nil {
		if !models.ValidLessonCategory(*opts.Category) {
			return fmt.Errorf("lessons: invalid category %q", *opts.Category)
		}
		changes["category"] = *opts.Category
	}
	if len(changes) == 0 {
		return nil
	}
	return patch(db, id, changes)
}

// Remove deletes a lesson.
func Remove(db *gorm.DB, id string) error {
	if _, err := get(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
		return fmt.Errorf("lessons: remove: %w", err)
	}
	return nil
}

// LessonStats aggregates the lesson table.
type LessonStats struct {
	Total      int64            `json:"total"`
	Applied    int64            `json:"applied"`
	Pending    int64            `json:"pending"`
	ByCategory map[string]int64 `json:"byCategory"`
	BySource   map[string]int64 `json:"bySource"`
}

// Stats returns counts by applied state, category, and source.
func Stats(db *gorm.DB) (*LessonStats, error) {
	var all []models.Lesson
	if err := db.Find(&all).Error; err != nil {
		return nil, fmt.Errorf("lessons: stats: %w", err)
	}
	stats := LessonStats{
		ByCategory: map[string]int64{},
		BySource:   map[string]int64{},
	}
	for _, l := range all {
		stats.Total++
		if l.Applied {
			stats.Applied++
		} else {
			stats.Pending++
		}
		stats.ByCategory[l.Category]++
		stats.BySource[l.Source]++
	}
	return &stats, nil
}

func get(db *gorm.DB, id string) (*models.Lesson, error) {
	var row models.Lesson
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lessons: lesson not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lessons: get: %w", err)
	}
	return &row, nil
}

func patch(db *gorm.DB, id string, changes map[string]interface{}) error {
	row, err := get(db, id)
	if err != nil {
		return err
	}
	if err := db.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("lessons: update: %w", err)
	}
	return nil
}
