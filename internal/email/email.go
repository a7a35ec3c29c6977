// Package email stores the gmail-side bookkeeping the inbox worker needs:
// drafts it created in Gmail, triage verdicts, learned tone profiles, and
// per-account watcher config. The package never talks to Gmail itself.
package email

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// statsWindow is the default lookback for draft stats.
const statsWindow = 7 * 24 * time.Hour

// ---- gmail drafts ----

// GetByDraftID returns the record for one Gmail draft resource.
func GetByDraftID(db *gorm.DB, draftID string) (*models.EmailDraft, error) {
	var row models.EmailDraft
	err := db.Where("draft_id = ?", draftID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("email: draft not found: %s", draftID)
	}
	if err != nil {
		return nil, fmt.Errorf("email: get draft: %w", err)
	}
	return &row, nil
}

// ByThread returns draft records for one Gmail thread, newest first.
func ByThread(db *gorm.DB, threadID string) ([]models.EmailDraft, error) {
	var rows []models.EmailDraft
	if err := db.Where("thread_id = ?", threadID).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("email: by thread: %w", err)
	}
	return rows, nil
}

// ListByStatus returns draft records in one status, newest first.
func ListByStatus(db *gorm.DB, status string) ([]models.EmailDraft, error) {
	if !models.ValidEmailDraftStatus(status) {
		return nil, fmt.Errorf("email: invalid draft status %q", status)
	}
	var rows []models.EmailDraft
	if err := db.Where("status = ?", status).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("email: list by status: %w", err)
	}
	return rows, nil
}

// DraftStats summarizes recent draft activity.
type DraftStats struct {
	Total             int64   `json:"total"`
	Pending           int64   `json:"pending"`
	Sent              int64   `json:"sent"`
	Deleted           int64   `json:"deleted"`
	AvgToneMatchScore float64 `json:"avgToneMatchScore"`
}

// Stats aggregates drafts created within the window ending now. A zero
// since uses the default 7-day window.
func Stats(db *gorm.DB, since time.Duration) (*DraftStats, error) {
	if since <= 0 {
		since = statsWindow
	}
	cutoff := time.Now().Add(-since).UnixMilli()

	var rows []models.EmailDraft
	if err := db.Where("created_at >= ?", cutoff).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("email: stats: %w", err)
	}
	stats := DraftStats{}
	var scoreSum float64
	var scored int64
	for _, d := range rows {
		stats.Total++
		switch d.Status {
		case models.EmailDraftPending:
			stats.Pending++
		case models.EmailDraftSent:
			stats.Sent++
		case models.EmailDraftDeleted:
			stats.Deleted++
		}
		if d.ToneMatchScore > 0 {
			scoreSum += d.ToneMatchScore
			scored++
		}
	}
	if scored > 0 {
		stats.AvgToneMatchScore = scoreSum / float64(scored)
	}
	return &stats, nil
}

// CreateDraft records a draft the worker created in Gmail.
func CreateDraft(db *gorm.DB, draftID, threadID, originalEmailID string, toneMatchScore float64) (*models.EmailDraft, error) {
	if draftID == "" || threadID == "" || originalEmailID == "" {
		return nil, fmt.Errorf("email: draft id, thread id, and original email id are required")
	}
	id, err := models.NewID("edraft")
	if err != nil {
		return nil, err
	}
	row := models.EmailDraft{
		ID:              id,
		DraftID:         draftID,
		ThreadID:        threadID,
		OriginalEmailID: originalEmailID,
		Status:          models.EmailDraftPending,
		ToneMatchScore:  toneMatchScore,
		CreatedAt:       time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("email: create draft: %w", err)
	}
	return &row, nil
}

// UpdateDraftStatus moves a draft record between states.
func UpdateDraftStatus(db *gorm.DB, draftID, status string) error {
	if !models.ValidEmailDraftStatus(status) {
		return fmt.Errorf("email: invalid draft status %q", status)
	}
	row, err := GetByDraftID(db, draftID)
	if err != nil {
		return err
	}
	if err := db.Model(row).Update("status", status).Error; err != nil {
		return fmt.Errorf("email: update draft status: %w", err)
	}
	return nil
}

// MarkSent records a successful send for one draft.
func MarkSent(db *gorm.DB, draftID string) error {
	row, err := GetByDraftID(db, draftID)
	if err != nil {
		return err
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"status":  models.EmailDraftSent,
		"sent_at": time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("email: mark sent: %w", err)
	}
	return nil
}

// RemoveDraft deletes a draft record, reporting whether one existed.
func RemoveDraft(db *gorm.DB, draftID string) (bool, error) {
	result := db.Where("draft_id = ?", draftID).Delete(&models.EmailDraft{})
	if result.Error != nil {
		return false, fmt.Errorf("email: remove draft: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ---- classifications ----

// GetByEmailID returns the triage verdict for one email.
func GetByEmailID(db *gorm.DB, emailID string) (*models.EmailClassification, error) {
	var row models.EmailClassification
	err := db.Where("email_id = ?", emailID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("email: classification not found: %s", emailID)
	}
	if err != nil {
		return nil, fmt.Errorf("email: get classification: %w", err)
	}
	return &row, nil
}

// ListByCategory returns verdicts in one category, newest first.
func ListByCategory(db *gorm.DB, category string) ([]models.EmailClassification, error) {
	var rows []models.EmailClassification
	if err := db.Where("category = ?", category).
		Order("processed_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("email: list by category: %w", err)
	}
	return rows, nil
}

// ListRecent returns the most recent verdicts.
func ListRecent(db *gorm.DB, limit int) ([]models.EmailClassification, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.EmailClassification
	if err := db.Order("processed_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("email: list recent: %w", err)
	}
	return rows, nil
}

// ClassificationStats summarizes triage activity.
type ClassificationStats struct {
	Total          int64            `json:"total"`
	ByCategory     map[string]int64 `json:"byCategory"`
	AutoReplyCount int64            `json:"autoReplyCount"`
}

// ClassifyStats tallies verdicts by category and auto-reply flag.
func ClassifyStats(db *gorm.DB) (*ClassificationStats, error) {
	var rows []models.EmailClassification
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("email: classification stats: %w", err)
	}
	stats := ClassificationStats{ByCategory: map[string]int64{}}
	for _, c := range rows {
		stats.Total++
		stats.ByCategory[c.Category]++
		if c.ShouldAutoReply {
			stats.AutoReplyCount++
		}
	}
	return &stats, nil
}

// Verdict is one inbound classification to record.
type Verdict struct {
	EmailID         string
	ThreadID        string
	Category        string
	Confidence      float64
	Priority        float64
	ShouldAutoReply bool
	Reasoning       string
	SenderDomain    string
}

// Classify upserts the verdict for one email; reclassification overwrites.
func Classify(db *gorm.DB, v Verdict) (*models.EmailClassification, error) {
	if v.EmailID == "" || v.ThreadID == "" || v.Category == "" || v.Reasoning == "" {
		return nil, fmt.Errorf("email: email id, thread id, category, and reasoning are required")
	}

	now := time.Now().UnixMilli()
	var existing models.EmailClassification
	err := db.Where("email_id = ?", v.EmailID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		id, idErr := models.NewID("eclass")
		if idErr != nil {
			return nil, idErr
		}
		row := models.EmailClassification{
			ID:              id,
			EmailID:         v.EmailID,
			ThreadID:        v.ThreadID,
			Category:        v.Category,
			Confidence:      v.Confidence,
			Priority:        v.Priority,
			ShouldAutoReply: v.ShouldAutoReply,
			Reasoning:       v.Reasoning,
			SenderDomain:    v.SenderDomain,
			ProcessedAt:     now,
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("email: classify: %w", err)
		}
		return &row, nil
	case err != nil:
		return nil, fmt.Errorf("email: classify: %w", err)
	default:
		err := db.Model(&existing).Updates(map[string]interface{}{
			"category":          v.Category,
			"confidence":        v.Confidence,
			"priority":          v.Priority,
			"should_auto_reply": v.ShouldAutoReply,
			"reasoning":         v.Reasoning,
			"sender_domain":     v.SenderDomain,
			"processed_at":      now,
		}).Error
		if err != nil {
			return nil, fmt.Errorf("email: classify: %w", err)
		}
		return GetByEmailID(db, v.EmailID)
	}
}

// ClassifyBatch records a batch of verdicts, stopping at the first error.
func ClassifyBatch(db *gorm.DB, verdicts []Verdict) (int, error) {
	done := 0
	for _, v := range verdicts {
		if _, err := Classify(db, v); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// ---- tone profiles ----

// GetProfile returns the learned tone profile for one user.
func GetProfile(db *gorm.DB, userID string) (*models.EmailToneProfile, error) {
	var row models.EmailToneProfile
	err := db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("email: tone profile not found: %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("email: get profile: %w", err)
	}
	return &row, nil
}

// ListProfiles returns every stored tone profile.
func ListProfiles(db *gorm.DB) ([]models.EmailToneProfile, error) {
	var rows []models.EmailToneProfile
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("email: list profiles: %w", err)
	}
	return rows, nil
}

// UpsertProfile stores the analyzer's latest profile for one user.
func UpsertProfile(db *gorm.DB, userID, profileData string, sampleCount int) (*models.EmailToneProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("email: user id is required")
	}
	if !json.Valid([]byte(profileData)) {
		return nil, fmt.Errorf("email: profile data is not valid JSON")
	}

	now := time.Now().UnixMilli()
	var existing models.EmailToneProfile
	err := db.Where("user_id = ?", userID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		id, idErr := models.NewID("tone")
		if idErr != nil {
			return nil, idErr
		}
		row := models.EmailToneProfile{
			ID:             id,
			UserID:         userID,
			ProfileData:    profileData,
			SampleCount:    sampleCount,
			LastAnalyzedAt: now,
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("email: upsert profile: %w", err)
		}
		return &row, nil
	case err != nil:
		return nil, fmt.Errorf("email: upsert profile: %w", err)
	default:
		err := db.Model(&existing).Updates(map[string]interface{}{
			"profile_data":     profileData,
			"sample_count":     sampleCount,
			"last_analyzed_at": now,
		}).Error
		if err != nil {
			return nil, fmt.Errorf("email: upsert profile: %w", err)
		}
		return GetProfile(db, userID)
	}
}
