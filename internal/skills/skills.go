// Package skills mirrors the capability documents synced from the skills
// repository. The slug is the stable identity across syncs.
package skills

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qops/missionctl/internal/db"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// List returns skills by name, optionally narrowed to one type.
func List(gdb *gorm.DB, skillType string) ([]models.Skill, error) {
	q := gdb.Order("name ASC")
	if skillType != "" {
		if !models.ValidSkillType(skillType) {
			return nil, fmt.Errorf("skills: invalid type %q", skillType)
		}
		q = q.Where("type = ?", skillType)
	}
	var rows []models.Skill
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("skills: list: %w", err)
	}
	return rows, nil
}

// GetBySlug returns one skill by its slug.
func GetBySlug(gdb *gorm.DB, slug string) (*models.Skill, error) {
	var row models.Skill
	err := gdb.Where("slug = ?", slug).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("skills: skill not found: %s", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("skills: get by slug: %w", err)
	}
	return &row, nil
}

// Search matches skills by name, preferring the FTS index and falling back
// to a substring scan over name and description.
func Search(gdb *gorm.DB, query string, limit int) ([]models.Skill, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Skill{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	if db.SearchIndexReady(gdb, "skills_fts") {
		ids, err := db.SearchIndexQuery(gdb, "skills_fts", q, limit)
		if err != nil {
			return nil, err
		}
		rows := make([]models.Skill, 0, len(ids))
		for _, id := range ids {
			var s models.Skill
			if err := gdb.Where("id = ?", id).First(&s).Error; err != nil {
				continue
			}
			rows = append(rows, s)
		}
		return rows, nil
	}

	var rows []models.Skill
	pat := db.LikePattern(q)
	if err := gdb.Where("lower(name) LIKE ? ESCAPE '\\' OR lower(description) LIKE ? ESCAPE '\\'",
		pat, pat).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("skills: search: %w", err)
	}
	return rows, nil
}

// SkillDoc is one synced capability document.
type SkillDoc struct {
	Name          string
	Slug          string
	Description   string
	Type          string
	Content       string
	RepoPath      string
	HasReferences bool
}

// Create inserts one skill. The slug must be unused.
func Create(gdb *gorm.DB, doc SkillDoc) (*models.Skill, error) {
	if doc.Name == "" || doc.Slug == "" || doc.RepoPath == "" {
		return nil, fmt.Errorf("skills: name, slug, and repo path are required")
	}
	if !models.ValidSkillType(doc.Type) {
		return nil, fmt.Errorf("skills: invalid type %q", doc.Type)
	}

	id, err := models.NewID("skill")
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	row := models.Skill{
		ID:            id,
		Name:          doc.Name,
		Slug:          doc.Slug,
		Description:   doc.Description,
		Type:          doc.Type,
		Content:       doc.Content,
		RepoPath:      doc.RepoPath,
		HasReferences: doc.HasReferences,
		LastSynced:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := gdb.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("skills: create: %w", err)
	}
	return &row, nil
}

// UpdateOpts holds the mutable skill fields. Nil means leave unchanged.
type UpdateOpts struct {
	Name        *string
	Description *string
	Content     *string
}

// Update patches a skill by slug.
func Update(gdb *gorm.DB, slug string, opts UpdateOpts) error {
	row, err := GetBySlug(gdb, slug)
	if err != nil {
		return err
	}
	changes := map[string]interface{}{"updated_at": time.Now().UnixMilli()}
	if opts.Name != nil {
		changes["name"] = *opts.Name
	}
	if opts.Description != nil {
		changes["description"] = *opts.Description
	}
	if opts.Content != nil {
		changes["content"] = *opts.Content
	}
	if err := gdb.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("skills: update: %w", err)
	}
	return nil
}

// SyncResult reports what a Sync pass did.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Sync upserts a batch of documents from the skills repo, matching on slug.
func Sync(gdb *gorm.DB, docs []SkillDoc) (*SyncResult, error) {
	result := SyncResult{}
	now := time.Now().UnixMilli()
	for _, doc := range docs {
		var existing models.Skill
		err := gdb.Where("slug = ?", doc.Slug).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if _, err := Create(gdb, doc); err != nil {
				return &result, err
			}
			result.Created++
		case err != nil:
			return &result, fmt.Errorf("skills: sync: %w", err)
		default:
			err := gdb.Model(&existing).Updates(map[string]interface{}{
				"name":           doc.Name,
				"description":    doc.Description,
				"type":           doc.Type,
				"content":        doc.Content,
				"repo_path":      doc.RepoPath,
				"has_references": doc.HasReferences,
				"last_synced":    now,
				"updated_at":     now,
			}).Error
			if err != nil {
				return &result, fmt.Errorf("skills: sync: %w", err)
			}
			result.Updated++
		}
	}
	return &result, nil
}

// Remove deletes a skill by slug.
func Remove(gdb *gorm.DB, slug string) error {
	if _, err := GetBySlug(gdb, slug); err != nil {
		return err
	}
	if err := gdb.Where("slug = ?", slug).Delete(&models.Skill{}).Error; err != nil {
		return fmt.Errorf("skills: remove: %w", err)
	}
	return nil
}
