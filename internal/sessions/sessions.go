// Package sessions keeps the daily work journal: one session per date, with
// typed entries for each action the assistant took.
package sessions

import (
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// DateFormat is the session date key layout.
const DateFormat = "2006-01-02"

// List returns sessions newest date first.
func List(db *gorm.DB, limit int) ([]models.Session, error) {
	q := db.Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Session
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sessions: list: %w", err)
	}
	return rows, nil
}

// ByDate returns the session for one date, or a not-found error.
func ByDate(db *gorm.DB, date string) (*models.Session, error) {
	var row models.Session
	err := db.Where("date = ?", date).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sessions: session not found: %s", date)
	}
	if err != nil {
		return nil, fmt.Errorf("sessions: by date: %w", err)
	}
	return &row, nil
}

// GetOrCreateToday returns today's session, creating it on first touch.
func GetOrCreateToday(db *gorm.DB) (*models.Session, error) {
	return getOrCreate(db, time.Now().Format(DateFormat))
}

func getOrCreate(db *gorm.DB, date string) (*models.Session, error) {
	row, err := ByDate(db, date)
	if err == nil {
		return row, nil
	}

	id, err := models.NewID("session")
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	created := models.Session{
		ID:         id,
		Date:       date,
		Categories: "{}",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("sessions: create: %w", err)
	}
	return &created, nil
}

// UpdateSummary sets the narrative summary for one date's session.
func UpdateSummary(db *gorm.DB, date, summary string) error {
	row, err := ByDate(db, date)
	if err != nil {
		return err
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"summary":    summary,
		"updated_at": time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("sessions: update summary: %w", err)
	}
	return nil
}

// EntriesOpts filters Entries. Zero values mean no filter.
type EntriesOpts struct {
	Date  string
	Type  string
	Limit int
}

// Entries returns journal entries newest first.
func Entries(db *gorm.DB, opts EntriesOpts) ([]models.SessionEntry, error) {
	q := db.Order("timestamp DESC")
	if opts.Date != "" {
		q = q.Where("date = ?", opts.Date)
	}
	if opts.Type != "" {
		if !models.ValidEntryType(opts.Type) {
			return nil, fmt.Errorf("sessions: invalid entry type %q", opts.Type)
		}
		q = q.Where("type = ?", opts.Type)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	var rows []models.SessionEntry
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sessions: entries: %w", err)
	}
	return rows, nil
}

// EntryOpts holds the optional fields for a journal entry.
type EntryOpts struct {
	Reasoning string
	Outcome   string
	Duration  int
	RelatedTo string
}

// LogEntry appends one action to today's session, creating the session if
// needed and advancing its action counter.
func LogEntry(db *gorm.DB, entryType, action string, opts EntryOpts) (*models.SessionEntry, error) {
	if !models.ValidEntryType(entryType) {
		return nil, fmt.Errorf("sessions: invalid entry type %q", entryType)
	}
	if action == "" {
		return nil, fmt.Errorf("sessions: action is required")
	}

	session, err := GetOrCreateToday(db)
	if err != nil {
		return nil, err
	}

	id, err := models.NewID("entry")
	if err != nil {
		return nil, err
	}
	entry := models.SessionEntry{
		ID:        id,
		SessionID: session.ID,
		Date:      session.Date,
		Type:      entryType,
		Action:    action,
		Reasoning: opts.Reasoning,
		Outcome:   opts.Outcome,
		Duration:  opts.Duration,
		RelatedTo: opts.RelatedTo,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("sessions: log entry: %w", err)
	}

	err = db.Model(session).Updates(map[string]interface{}{
		"total_actions": session.TotalActions + 1,
		"updated_at":    time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("sessions: bump counter: %w", err)
	}
	return &entry, nil
}

// WorkStats summarizes recent journal volume.
type WorkStats struct {
	SessionCount     int64   `json:"sessionCount"`
	TotalActions     int64   `json:"totalActions"`
	AvgActionsPerDay float64 `json:"avgActionsPerDay"`
}

// Stats aggregates sessions from the trailing days (default 7). The average
// is over sessions that exist, not calendar days.
func Stats(db *gorm.DB, days int) (*WorkStats, error) {
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().AddDate(0, 0, -days).Format(DateFormat)

	var rows []models.Session
	if err := db.Where("date >= ?", cutoff).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sessions: stats: %w", err)
	}
	stats := WorkStats{}
	for _, s := range rows {
		stats.SessionCount++
		stats.TotalActions += int64(s.TotalActions)
	}
	if stats.SessionCount > 0 {
		stats.AvgActionsPerDay = float64(stats.TotalActions) / float64(stats.SessionCount)
	}
	return &stats, nil
}
