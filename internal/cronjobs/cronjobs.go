// Package cronjobs is the registry of scheduled jobs the external worker
// runs. The registry tracks schedules and outcomes only; it never executes
// anything itself.
package cronjobs

import (
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// List returns all registered jobs by name.
func List(db *gorm.DB) ([]models.CronJob, error) {
	var rows []models.CronJob
	if err := db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cronjobs: list: %w", err)
	}
	return rows, nil
}

// ListActive returns jobs in the active state, soonest next run first.
func ListActive(db *gorm.DB) ([]models.CronJob, error) {
	var rows []models.CronJob
	if err := db.Where("status = ?", models.CronActive).
		Order("next_run ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cronjobs: list active: %w", err)
	}
	return rows, nil
}

// Get returns one job by id.
func Get(db *gorm.DB, id string) (*models.CronJob, error) {
	var row models.CronJob
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cronjobs: job not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("cronjobs: get: %w", err)
	}
	return &row, nil
}

// NextRun computes the next fire time for a standard 5-field cron schedule.
func NextRun(schedule string, from time.Time) (time.Time, error) {
	spec, err := cron.ParseStandard(schedule)
	if err != nil {
		return time.Time{}, fmt.Errorf("cronjobs: invalid schedule %q: %w", schedule, err)
	}
	return spec.Next(from), nil
}

// Create registers a job. The schedule must parse; the first next-run time
// is computed immediately.
func Create(db *gorm.DB, name, schedule, description string) (*models.CronJob, error) {
	if name == "" {
		return nil, fmt.Errorf("cronjobs: name is required")
	}
	next, err := NextRun(schedule, time.Now())
	if err != nil {
		return nil, err
	}

	id, err := models.NewID("cron")
	if err != nil {
		return nil, err
	}
	row := models.CronJob{
		ID:          id,
		Name:        name,
		Schedule:    schedule,
		Description: description,
		NextRun:     next.UnixMilli(),
		Status:      models.CronActive,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("cronjobs: create: %w", err)
	}
	return &row, nil
}

// UpdateOpts holds the mutable job fields. Nil means leave unchanged.
type UpdateOpts struct {
	Name        *string
	Schedule    *string
	Description *string
	Status      *string
}

// Update patches a job. A schedule change revalidates and recomputes the
// next run.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	changes := map[string]interface{}{}
	if opts.Name != nil {
		changes["name"] = *opts.Name
	}
	if opts.Schedule != nil {
		next, err := NextRun(*opts.Schedule, time.Now())
		if err != nil {
			return err
		}
		changes["schedule"] = *opts.Schedule
		changes["next_run"] = next.UnixMilli()
	}
	if opts.Description != nil {
		changes["description"] = *opts.Description
	}
	if opts.Status != nil {
		if !models.ValidCronStatus(*opts.Status) {
			return fmt.Errorf("cronjobs: invalid status %q", *opts.Status)
		}
		changes["status"] = *opts.Status
	}
	if len(changes) == 0 {
		return nil
	}
	if err := db.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("cronjobs: update: %w", err)
	}
	return nil
}

// RecordRun logs the outcome the worker reports for one execution: last run
// is stamped, the run counter advances, the status reflects success, and the
// next run is recomputed. One cron_executed activity event is appended.
func RecordRun(db *gorm.DB, id string, success bool, output string) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	now := time.Now()

	status := models.CronActive
	if !success {
		status = models.CronFailed
	}
	changes := map[string]interface{}{
		"last_run":    now.UnixMilli(),
		"status":      status,
		"last_output": output,
		"run_count":   row.RunCount + 1,
	}
	if next, err := NextRun(row.Schedule, now); err == nil {
		changes["next_run"] = next.UnixMilli()
	}
	if err := db.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("cronjobs: record run: %w", err)
	}

	action := "Ran: " + row.Name
	if !success {
		action = "Failed: " + row.Name
	}
	_, err = activity.Log(db, models.ActivityCronExecuted, action, activity.LogOpts{
		Details: output,
	})
	return err
}

// Tick recomputes next-run times for active jobs whose schedule still
// parses and returns how many were updated. Used by the CLI tick command.
func Tick(db *gorm.DB) (int, error) {
	jobs, err := ListActive(db)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	updated := 0
	for _, job := range jobs {
		next, err := NextRun(job.Schedule, now)
		if err != nil {
			continue
		}
		if next.UnixMilli() == job.NextRun {
			continue
		}
		if err := db.Model(&job).Update("next_run", next.UnixMilli()).Error; err != nil {
			return updated, fmt.Errorf("cronjobs: tick: %w", err)
		}
		updated++
	}
	return updated, nil
}

// Remove deletes a job from the registry.
func Remove(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.CronJob{}).Error; err != nil {
		return fmt.Errorf("cronjobs: remove: %w", err)
	}
	return nil
}
