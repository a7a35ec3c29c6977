// Package tasks manages the shared human/AI task board.
package tasks

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
	Assignee string
}

// List returns tasks newest first, optionally narrowed by status and
// assignee.
func List(db *gorm.DB, opts ListOpts) ([]models.Task, error) {
	q := db.Order("created_at DESC")
	if opts.Status != "" {
		if !models.ValidTaskStatus(opts.Status) {
			return nil, fmt.Errorf("tasks: invalid status %q", opts.Status)
		}
		q = q.Where("status = ?", opts.Status)
	}
	if opts.Assignee != "" {
		if !models.ValidAssignee(opts.Assignee) {
			return nil, fmt.Errorf("tasks: invalid assignee %q", opts.Assignee)
		}
		q = q.Where("assignee = ?", opts.Assignee)
	}
	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	return tasks, nil
}

// Get returns one task by id.
func Get(db *gorm.DB, id string) (*models.Task, error) {
	var task models.Task
	err := db.Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("tasks: task not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("tasks: get: %w", err)
	}
	return &task, nil
}

// CreateOpts holds the optional fields for a new task.
type CreateOpts struct {
	Description string
	Priority    string
	DueDate     int64
}

// Create inserts a new task in the todo state.
func Create(db *gorm.DB, title, assignee string, opts CreateOpts) (*models.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("tasks: title is required")
	}
	if !models.ValidAssignee(assignee) {
		return nil, fmt.Errorf("tasks: invalid assignee %q", assignee)
	}
	if opts.Priority != "" && !models.ValidPriority(opts.Priority) {
		return nil, fmt.Errorf("tasks: invalid priority %q", opts.Priority)
	}

	id, err := models.NewID("task")
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	task := models.Task{
		ID:          id,
		Title:       title,
		Description: opts.Description,
		Status:      models.TaskTodo,
		Assignee:    assignee,
		Priority:    opts.Priority,
		DueDate:     opts.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("tasks: create: %w", err)
	}
	return &task, nil
}

// UpdateStatus moves a task between board columns. A move to done logs a
// task_completed activity event.
func UpdateStatus(db *gorm.DB, id, status string) error {
	if !models.ValidTaskStatus(status) {
		return fmt.Errorf("tasks: invalid status %q", status)
	}
	task, err := Get(db, id)
	if err != nil {
		return err
	}
	err = db.Model(task).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("tasks: update status: %w", err)
	}

	if status == models.TaskDone {
		if _, err := activity.Log(db, models.ActivityTaskCompleted, "Completed: "+task.Title, activity.LogOpts{
			Details: task.Description,
		}); err != nil {
			return err
		}
	}
	return nil
}

// UpdateOpts holds the mutable task fields. Nil means leave unchanged.
type UpdateOpts struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *int64
}

// Update patches a task's editable fields.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	task, err := Get(db, id)
	if err != nil {
		return err
	}

	changes := map[string]interface{}{"updated_at": time.Now().UnixMilli()}
	if opts.Title != nil {
		if *opts.Title == "" {
			return fmt.Errorf("tasks: title is required")
		}
		changes["title"] = *opts.Title
	}
	if opts.Description != nil {
		changes["description"] = *opts.Description
	}
	if opts.Priority != nil {
		if *opts.Priority != "" && !models.ValidPriority(*opts.Priority) {
			return fmt.Errorf("tasks: invalid priority %q", *opts.Priority)
		}
		changes["priority"] = *opts.Priority
	}
	if opts.DueDate != nil {
		changes["due_date"] = *opts.DueDate
	}
	if err := db.Model(task).Updates(changes).Error; err != nil {
		return fmt.Errorf("tasks: update: %w", err)
	}
	return nil
}

// Remove deletes a task.
func Remove(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("tasks: remove: %w", err)
	}
	return nil
}

// BoardStats is the per-column task count.
type BoardStats struct {
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"inProgress"`
	Done       int64 `json:"done"`
	Total      int64 `json:"total"`
}

// Stats counts tasks by status.
func Stats(db *gorm.DB) (*BoardStats, error) {
	var stats BoardStats
	counts := []struct {
		status string
		dest   *int64
	}{
		{models.TaskTodo, &stats.Todo},
		{models.TaskInProgress, &stats.InProgress},
		{models.TaskDone, &stats.Done},
	}
	for _, c := range counts {
		if err := db.Model(&models.Task{}).Where("status = ?", c.status).
			Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("tasks: stats: %w", err)
		}
		stats.Total += *c.dest
	}
	return &stats, nil
}
