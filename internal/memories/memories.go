// Package memories is the assistant's long-term note store.
package memories

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/db"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// List returns memories newest first.
func List(db *gorm.DB, limit int) ([]models.Memory, error) {
	q := db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Memory
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("memories: list: %w", err)
	}
	return rows, nil
}

// ListByCategory returns memories in one category, newest first.
func ListByCategory(db *gorm.DB, category string) ([]models.Memory, error) {
	var rows []models.Memory
	if err := db.Where("category = ?", category).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("memories: list by category: %w", err)
	}
	return rows, nil
}

// Get returns one memory by id.
func Get(db *gorm.DB, id string) (*models.Memory, error) {
	var row models.Memory
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("memories: memory not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("memories: get: %w", err)
	}
	return &row, nil
}

// Search matches memories against the query, preferring the content FTS
// index and falling back to a substring scan over title and content.
func Search(gdb *gorm.DB, query string, limit int) ([]models.Memory, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Memory{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	if db.SearchIndexReady(gdb, "memories_fts") {
		ids, err := db.SearchIndexQuery(gdb, "memories_fts", q, limit)
		if err != nil {
			return nil, err
		}
		rows := make([]models.Memory, 0, len(ids))
		for _, id := range ids {
			var m models.Memory
			if err := gdb.Where("id = ?", id).First(&m).Error; err != nil {
				continue
			}
			rows = append(rows, m)
		}
		return rows, nil
	}

	var rows []models.Memory
	pat := db.LikePattern(q)
	if err := gdb.Where("lower(title) LIKE ? ESCAPE '\\' OR lower(content) LIKE ? ESCAPE '\\'",
		pat, pat).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("memories: search: %w", err)
	}
	return rows, nil
}

// CreateOpts holds the optional fields for a new memory.
type CreateOpts struct {
	Category string
	Tags     []string
	Source   string
}

// Create stores a memory and logs a memory_added event.
func Create(db *gorm.DB, title, content string, opts CreateOpts) (*models.Memory, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("memories: title and content are required")
	}

	tags := "[]"
	if opts.Tags != nil {
		encoded, err := json.Marshal(opts.Tags)
		if err != nil {
			return nil, fmt.Errorf("memories: encode tags: %w", err)
		}
		tags = string(encoded)
	}

	id, err := models.NewID("mem")
	if err != nil {
		return nil, err
	}
	row := models.Memory{
		ID:        id,
		Title:     title,
		Content:   content,
		Category:  opts.Category,
		Tags:      tags,
		Source:    opts.Source,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("memories: create: %w", err)
	}

	if _, err := activity.Log(db, models.ActivityMemoryAdded, "Remembered: "+title, activity.LogOpts{
		AgentName: "Q",
		Details:   opts.Category,
	}); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateOpts holds the mutable memory fields. Nil means leave unchanged.
type UpdateOpts struct {
	Title    *string
	Content  *string
	Category *string
	Tags     []string
}

// Update patches a memory's fields.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	changes := map[string]interface{}{}
	if opts.Title != nil {
		changes["title"] = *opts.Title
	}
	if opts.Content != nil {
		changes["content"] = *opts.Content
	}
	if opts.Category != nil {
		changes["category"] = *opts.Category
	}
	if opts.Tags != nil {
		encoded, err := json.Marshal(opts.Tags)
		if err != nil {
			return fmt.Errorf("memories: encode tags: %w", err)
		}
		changes["tags"] = string(encoded)
	}
	if len(changes) == 0 {
		return nil
	}
	if err := db.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("memories: update: %w", err)
	}
	return nil
}

// Remove deletes a memory.
func Remove(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.Memory{}).Error; err != nil {
		return fmt.Errorf("memories: remove: %w", err)
	}
	return nil
}

// Categories returns the distinct non-empty categories in use, sorted by the
// store's default ordering.
func Categories(db *gorm.DB) ([]string, error) {
	var out []string
	if err := db.Model(&models.Memory{}).
		Where("category <> ''").Distinct("category").
		Order("category ASC").Pluck("category", &out).Error; err != nil {
		return nil, fmt.Errorf("memories: categories: %w", err)
	}
	return out, nil
}
