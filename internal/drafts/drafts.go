// Package drafts is the email review queue: replies the assistant wrote,
// waiting for the operator to send, edit, or discard them.
package drafts

import (
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// ListOpts filters List. Zero values mean no filter.
type ListOpts struct {
	Status   string
	Category string
	Limit    int
}

// List returns drafts newest first.
func List(db *gorm.DB, opts ListOpts) ([]models.Draft, error) {
	q := db.Order("created_at DESC")
	if opts.Status != "" {
		if !models.ValidDraftStatus(opts.Status) {
			return nil, fmt.Errorf("drafts: invalid status %q", opts.Status)
		}
		q = q.Where("status = ?", opts.Status)
	}
	if opts.Category != "" {
		q = q.Where("category = ?", opts.Category)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	var rows []models.Draft
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("drafts: list: %w", err)
	}
	return rows, nil
}

// ListPending returns the review queue: pending and edited drafts, newest
// first. Edited drafts still need a send decision.
func ListPending(db *gorm.DB) ([]models.Draft, error) {
	var rows []models.Draft
	if err := db.Where("status IN ?", []string{models.DraftPending, models.DraftEdited}).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("drafts: list pending: %w", err)
	}
	return rows, nil
}

// PendingCount counts drafts awaiting a decision.
func PendingCount(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&models.Draft{}).
		Where("status IN ?", []string{models.DraftPending, models.DraftEdited}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("drafts: pending count: %w", err)
	}
	return count, nil
}

// Get returns one draft by id.
func Get(db *gorm.DB, id string) (*models.Draft, error) {
	var row models.Draft
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("drafts: draft not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("drafts: get: %w", err)
	}
	return &row, nil
}

// CreateOpts holds the optional fields for a new draft.
type CreateOpts struct {
	ThreadID     string
	MessageID    string
	GmailDraftID string
	Category     string
	Priority     string
}

// Create queues a new pending draft and logs an email_drafted event.
func Create(db *gorm.DB, subject, to, body string, opts CreateOpts) (*models.Draft, error) {
	if subject == "" || to == "" || body == "" {
		return nil, fmt.Errorf("drafts: subject, to, and body are required")
	}
	if opts.Category != "" && !models.ValidDraftCategory(opts.Category) {
		return nil, fmt.Errorf("drafts: invalid category %q", opts.Category)
	}
	if opts.Priority != "" && !models.ValidQueuePriority(opts.Priority) {
		return nil, fmt.Errorf("drafts: invalid priority %q", opts.Priority)
	}

	id, err := models.NewID("draft")
	if err != nil {
		return nil, err
	}
	row := models.Draft{
		ID:           id,
		Subject:      subject,
		To:           to,
		Body:         body,
		ThreadID:     opts.ThreadID,
		MessageID:    opts.MessageID,
		GmailDraftID: opts.GmailDraftID,
		Status:       models.DraftPending,
		Category:     opts.Category,
		Priority:     opts.Priority,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("drafts: create: %w", err)
	}

	if _, err := activity.Log(db, models.ActivityEmailDrafted, "Drafted: "+subject, activity.LogOpts{
		AgentName: "Q",
		Details:   "To: " + to,
	}); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateOpts holds the editable draft fields. Nil means leave unchanged.
type UpdateOpts struct {
	Subject *string
	To      *string
	Body    *string
}

// Update applies the operator's edits. A pending draft moves to edited;
// sent and discarded drafts are immutable.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	if row.Status == models.DraftSent || row.Status == models.DraftDiscarded {
		return fmt.Errorf("drafts: draft already %s: %s", row.Status, id)
	}

	changes := map[string]interface{}{}
	if opts.Subject != nil {
		changes["subject"] = *opts.Subject
	}
	if opts.To != nil {
		changes["to"] = *opts.To
	}
	if opts.Body != nil {
		changes["body"] = *opts.Body
	}
	if len(changes) == 0 {
		return nil
	}
	if row.Status == models.DraftPending {
		changes["status"] = models.DraftEdited
	}
	if err := db.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("drafts: update: %w", err)
	}
	return nil
}

// MarkSent records a successful send.
func MarkSent(db *gorm.DB, id string) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"status":  models.DraftSent,
		"sent_at": time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("drafts: mark sent: %w", err)
	}
	return nil
}

// Discard drops a draft from the queue without deleting it.
func Discard(db *gorm.DB, id string) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	if err := db.Model(row).Update("status", models.DraftDiscarded).Error; err != nil {
		return fmt.Errorf("drafts: discard: %w", err)
	}
	return nil
}

// DiscardAll discards every draft still awaiting a decision and returns the
// count.
func DiscardAll(db *gorm.DB) (int64, error) {
	result := db.Model(&models.Draft{}).
		Where("status IN ?", []string{models.DraftPending, models.DraftEdited}).
		Update("status", models.DraftDiscarded)
	if result.Error != nil {
		return 0, fmt.Errorf("drafts: discard all: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Remove deletes a draft outright.
func Remove(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.Draft{}).Error; err != nil {
		return fmt.Errorf("drafts: remove: %w", err)
	}
	return nil
}
