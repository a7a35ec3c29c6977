// Package activity maintains the append-only event log shared by every
// Mission Control module, plus its aggregate queries. Events are never
// mutated after insert; the retention purge is the only deletion path.
package activity

import (
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// Millisecond durations used in time arithmetic. All timestamps are epoch
// millis; no timezone conversion happens at this layer.
const (
	hourMillis = int64(60 * 60 * 1000)
	dayMillis  = 24 * hourMillis
)

// Default result limits.
const (
	DefaultListLimit   = 50
	DefaultByTypeLimit = 20
)

// LogOpts holds optional fields for a logged event.
type LogOpts struct {
	AgentID   string
	AgentName string
	Details   string
	Metadata  string // opaque JSON
}

// Log appends one event of the given type. The timestamp is assigned here,
// at insert time.
func Log(db *gorm.DB, eventType, action string, opts LogOpts) (string, error) {
	if !models.ValidActivityType(eventType) {
		return "", fmt.Errorf("activity: invalid event type %q", eventType)
	}
	if action == "" {
		return "", fmt.Errorf("activity: action is required")
	}

	id, err := models.NewID("act")
	if err != nil {
		return "", err
	}
	event := models.ActivityEvent{
		ID:        id,
		AgentID:   opts.AgentID,
		AgentName: opts.AgentName,
		Type:      eventType,
		Action:    action,
		Details:   opts.Details,
		Metadata:  opts.Metadata,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := db.Create(&event).Error; err != nil {
		return "", fmt.Errorf("activity: log: %w", err)
	}
	return event.ID, nil
}

// List returns the limit most recent events, newest first, via the timestamp
// index.
func List(db *gorm.DB, limit int) ([]models.ActivityEvent, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var events []models.ActivityEvent
	if err := db.Order("timestamp DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("activity: list: %w", err)
	}
	return events, nil
}

// ListByType returns the limit most recent events of one type, newest first.
func ListByType(db *gorm.DB, eventType string, limit int) ([]models.ActivityEvent, error) {
	if !models.ValidActivityType(eventType) {
		return nil, fmt.Errorf("activity: invalid event type %q", eventType)
	}
	if limit <= 0 {
		limit = DefaultByTypeLimit
	}
	var events []models.ActivityEvent
	if err := db.Where("type = ?", eventType).
		Order("timestamp DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("activity: list by type: %w", err)
	}
	return events, nil
}

// ListByAgent returns the limit most recent events for one agent.
func ListByAgent(db *gorm.DB, agentID string, limit int) ([]models.ActivityEvent, error) {
	if limit <= 0 {
		limit = DefaultByTypeLimit
	}
	var events []models.ActivityEvent
	if err := db.Where("agent_id = ?", agentID).
		Order("timestamp DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("activity: list by agent: %w", err)
	}
	return events, nil
}

// RecentCount counts events in the trailing window of the given hours. The
// time filter is pushed to the store; the optional type filter is applied in
// memory, which assumes hundreds to low thousands of events per window.
func RecentCount(db *gorm.DB, hours int, eventType string) (int, error) {
	if eventType != "" && !models.ValidActivityType(eventType) {
		return 0, fmt.Errorf("activity: invalid event type %q", eventType)
	}
	since := time.Now().UnixMilli() - int64(hours)*hourMillis

	var events []models.ActivityEvent
	if err := db.Where("timestamp >= ?", since).Find(&events).Error; err != nil {
		return 0, fmt.Errorf("activity: recent count: %w", err)
	}

	if eventType == "" {
		return len(events), nil
	}
	count := 0
	for _, e := range events {
		if e.Type == eventType {
			count++
		}
	}
	return count, nil
}

// HourBucket is one histogram bucket: Hour is the offset in hours-ago.
type HourBucket struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// ByHour returns a dense histogram of event counts, one bucket per hour
// offset in [0, hours). Empty hours are explicit zeros. The result is
// ordered oldest hour first, so the last element is the current hour. An
// event exactly on a boundary lands in the older bucket via floor division.
func ByHour(db *gorm.DB, hours int) ([]HourBucket, error) {
	if hours < 0 {
		return nil, fmt.Errorf("activity: hours must be non-negative")
	}
	now := time.Now().UnixMilli()
	since := now - int64(hours)*hourMillis

	var events []models.ActivityEvent
	if err := db.Where("timestamp >= ?", since).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("activity: by hour: %w", err)
	}

	buckets := make([]HourBucket, hours)
	for i := range buckets {
		buckets[i].Hour = i
	}
	for _, e := range events {
		hoursAgo := (now - e.Timestamp) / hourMillis
		if hoursAgo >= 0 && hoursAgo < int64(hours) {
			buckets[hoursAgo].Count++
		}
	}

	// Reverse so index 0 is the oldest hour.
	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets, nil
}

// Clear deletes every event older than the retention cutoff and returns the
// number deleted.
func Clear(db *gorm.DB, olderThanDays int) (int64, error) {
	if olderThanDays < 0 {
		return 0, fmt.Errorf("activity: olderThanDays must be non-negative")
	}
	cutoff := time.Now().UnixMilli() - int64(olderThanDays)*dayMillis
	result := db.Where("timestamp < ?", cutoff).Delete(&models.ActivityEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("activity: clear: %w", result.Error)
	}
	return result.RowsAffected, nil
}
