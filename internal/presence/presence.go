// Package presence tracks the external worker's liveness through the
// systemStatus key-value register. Online/offline is derived at read time by
// comparing the last heartbeat against a staleness threshold; nothing ever
// writes an "offline" state.
package presence

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// StaleThreshold is how long after the last heartbeat the worker still counts
// as online.
const StaleThreshold = 5 * time.Minute

// Well-known register keys reserved by the heartbeat protocol. Everything
// else in the register is free-form via Get/Set.
const (
	KeyLastHeartbeat = "last_heartbeat" // stringified epoch millis
	KeyWorkerStatus  = "q_status"       // worker-reported status string
	KeyCurrentTask   = "current_task"   // worker-reported task description
)

// DefaultStatus is the worker status recorded when a heartbeat carries none.
const DefaultStatus = "online"

// ErrNotFound is returned by Get for an absent key.
var ErrNotFound = errors.New("presence: key not found")

// Entry is one register row as seen by readers.
type Entry struct {
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updatedAt"`
}

// HeartbeatResult is the acknowledgement returned to the worker.
type HeartbeatResult struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// Heartbeat records a liveness ping from the worker. last_heartbeat and
// q_status are always overwritten; current_task is written only when
// currentTask is non-nil, so an omitting call never clears a previous value.
// One heartbeat activity event is appended as a side effect.
func Heartbeat(db *gorm.DB, status string, currentTask *string) (*HeartbeatResult, error) {
	if status == "" {
		status = DefaultStatus
	}
	now := time.Now().UnixMilli()

	if err := upsert(db, KeyLastHeartbeat, strconv.FormatInt(now, 10), now); err != nil {
		return nil, err
	}
	if err := upsert(db, KeyWorkerStatus, status, now); err != nil {
		return nil, err
	}
	if currentTask != nil {
		if err := upsert(db, KeyCurrentTask, *currentTask, now); err != nil {
			return nil, err
		}
	}

	details := "System check"
	if currentTask != nil {
		details = *currentTask
	}
	if _, err := activity.Log(db, models.ActivityHeartbeat, "Heartbeat", activity.LogOpts{
		AgentName: "Q",
		Details:   details,
	}); err != nil {
		return nil, err
	}

	return &HeartbeatResult{Status: "ok", Timestamp: now}, nil
}

// Get returns the value for one register key, or ErrNotFound.
func Get(db *gorm.DB, key string) (string, error) {
	var row models.SystemStatus
	err := db.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("presence: get %s: %w", key, err)
	}
	return row.Value, nil
}

// Set upserts one register key. This is the generic escape hatch; heartbeat
// semantics live in Heartbeat.
func Set(db *gorm.DB, key, value string) error {
	if key == "" {
		return fmt.Errorf("presence: key is required")
	}
	return upsert(db, key, value, time.Now().UnixMilli())
}

// GetAll returns the whole register as key -> entry.
func GetAll(db *gorm.DB) (map[string]Entry, error) {
	var rows []models.SystemStatus
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("presence: get all: %w", err)
	}
	out := make(map[string]Entry, len(rows))
	for _, r := range rows {
		out[r.Key] = Entry{Value: r.Value, UpdatedAt: r.UpdatedAt}
	}
	return out, nil
}

// LastHeartbeat returns the last heartbeat time in epoch millis, or 0 if none
// was ever recorded.
func LastHeartbeat(db *gorm.DB) (int64, error) {
	raw, err := Get(db, KeyLastHeartbeat)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("presence: parse last_heartbeat %q: %w", raw, err)
	}
	return ms, nil
}

// Online reports whether the worker counts as alive at the given instant:
// a heartbeat exists and is younger than StaleThreshold. The signal flips to
// offline purely by clock advance; no write is involved.
func Online(db *gorm.DB, at time.Time) (bool, error) {
	last, err := LastHeartbeat(db)
	if err != nil {
		return false, err
	}
	if last == 0 {
		return false, nil
	}
	return at.UnixMilli()-last < StaleThreshold.Milliseconds(), nil
}

// upsert writes one register row, last write wins.
func upsert(db *gorm.DB, key, value string, now int64) error {
	var row models.SystemStatus
	err := db.Where("key = ?", key).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		id, idErr := models.NewID("status")
		if idErr != nil {
			return idErr
		}
		row = models.SystemStatus{ID: id, Key: key, Value: value, UpdatedAt: now}
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("presence: create %s: %w", key, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("presence: lookup %s: %w", key, err)
	default:
		if err := db.Model(&row).Updates(map[string]interface{}{
			"value":      value,
			"updated_at": now,
		}).Error; err != nil {
			return fmt.Errorf("presence: update %s: %w", key, err)
		}
		return nil
	}
}
