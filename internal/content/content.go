// Package content tracks items moving through the publishing pipeline, from
// idea to published.
package content

import (
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// List returns all pipeline items, most recently touched first.
func List(db *gorm.DB) ([]models.ContentItem, error) {
	var rows []models.ContentItem
	if err := db.Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("content: list: %w", err)
	}
	return rows, nil
}

// ListByStage returns items in one pipeline stage.
func ListByStage(db *gorm.DB, stage string) ([]models.ContentItem, error) {
	if !models.ValidContentStage(stage) {
		return nil, fmt.Errorf("content: invalid stage %q", stage)
	}
	var rows []models.ContentItem
	if err := db.Where("stage = ?", stage).
		Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("content: list by stage: %w", err)
	}
	return rows, nil
}

// Get returns one item by id.
func Get(db *gorm.DB, id string) (*models.ContentItem, error) {
	var row models.ContentItem
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("content: item not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("content: get: %w", err)
	}
	return &row, nil
}

// Create adds an item at the idea stage.
func Create(db *gorm.DB, title, description string) (*models.ContentItem, error) {
	if title == "" {
		return nil, fmt.Errorf("content: title is required")
	}
	id, err := models.NewID("content")
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	row := models.ContentItem{
		ID:          id,
		Title:       title,
		Description: description,
		Stage:       models.StageIdea,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("content: create: %w", err)
	}
	return &row, nil
}

// UpdateStage moves an item to another pipeline stage.
func UpdateStage(db *gorm.DB, id, stage string) error {
	if !models.ValidContentStage(stage) {
		return fmt.Errorf("content: invalid stage %q", stage)
	}
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"stage":      stage,
		"updated_at": time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("content: update stage: %w", err)
	}
	return nil
}

// UpdateOpts holds the mutable item fields. Nil means leave unchanged.
type UpdateOpts struct {
	Title        *string
	Description  *string
	Script       *string
	ThumbnailURL *string
	PublishedURL *string
}

// Update patches an item's fields.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	changes := map[string]interface{}{"updated_at": time.Now().UnixMilli()}
	if opts.Title != nil {
		changes["title"] = *opts.Title
	}
	if opts.Description != nil {
		changes["description"] = *opts.Description
	}
	if opts.Script != nil {
		changes["script"] = *opts.Script
	}
	if opts.ThumbnailURL != nil {
		changes["thumbnail_url"] = *opts.ThumbnailURL
	}
	if opts.PublishedURL != nil {
		changes["published_url"] = *opts.PublishedURL
	}
	if err := db.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("content: update: %w", err)
	}
	return nil
}

// Remove deletes an item.
func Remove(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.ContentItem{}).Error; err != nil {
		return fmt.Errorf("content: remove: %w", err)
	}
	return nil
}
