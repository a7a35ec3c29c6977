package tasks

import (
	"testing"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Task{}, &models.ActivityEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreate_DefaultsToTodo(t *testing.T) {
	db := setupTestDB(t)

	task, err := Create(db, "Write launch notes", models.AssigneeAI, CreateOpts{
		Priority: "high",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != models.TaskTodo {
		t.Errorf("status = %q, want todo", task.Status)
	}
	if task.CreatedAt == 0 || task.UpdatedAt == 0 {
		t.Error("timestamps not stamped")
	}

	if _, err := Create(db, "", models.AssigneeAI, CreateOpts{}); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := Create(db, "x", "robot", CreateOpts{}); err == nil {
		t.Error("expected error for invalid assignee")
	}
	if _, err := Create(db, "x", models.AssigneeHuman, CreateOpts{Priority: "asap"}); err == nil {
		t.Error("expected error for invalid priority")
	}
}

func TestUpdateStatus_DoneLogsCompletion(t *testing.T) {
	db := setupTestDB(t)
	task, err := Create(db, "Ship it", models.AssigneeAI, CreateOpts{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := UpdateStatus(db, task.ID, models.TaskInProgress); err != nil {
		t.Fatalf("update status: %v", err)
	}
	var events []models.ActivityEvent
	db.Find(&events)
	if len(events) != 0 {
		t.Fatalf("in_progress logged %d events, want 0", len(events))
	}

	if err := UpdateStatus(db, task.ID, models.TaskDone); err != nil {
		t.Fatalf("update status: %v", err)
	}
	db.Find(&events)
	if len(events) != 1 {
		t.Fatalf("done logged %d events, want 1", len(events))
	}
	if events[0].Type != models.ActivityTaskCompleted {
		t.Errorf("event type = %q", events[0].Type)
	}

	if err := UpdateStatus(db, task.ID, "archived"); err == nil {
		t.Error("expected error for invalid status")
	}
	if err := UpdateStatus(db, "task-missing", models.TaskDone); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestList_Filters(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Create(db, "one", models.AssigneeAI, CreateOpts{})
	Create(db, "two", models.AssigneeHuman, CreateOpts{})
	if err := UpdateStatus(db, a.ID, models.TaskDone); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := List(db, ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}

	done, err := List(db, ListOpts{Status: models.TaskDone})
	if err != nil {
		t.Fatalf("list done: %v", err)
	}
	if len(done) != 1 || done[0].ID != a.ID {
		t.Errorf("done filter returned %v", done)
	}

	humans, err := List(db, ListOpts{Assignee: models.AssigneeHuman})
	if err != nil {
		t.Fatalf("list humans: %v", err)
	}
	if len(humans) != 1 || humans[0].Title != "two" {
		t.Errorf("assignee filter returned %v", humans)
	}

	if _, err := List(db, ListOpts{Status: "archived"}); err == nil {
		t.Error("expected error for invalid status filter")
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	db := setupTestDB(t)
	task, _ := Create(db, "draft", models.AssigneeAI, CreateOpts{Description: "keep me"})

	title := "final"
	if err := Update(db, task.ID, UpdateOpts{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := Get(db, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "final" || got.Description != "keep me" {
		t.Errorf("patched task = %+v", got)
	}

	empty := ""
	if err := Update(db, task.ID, UpdateOpts{Title: &empty}); err == nil {
		t.Error("expected error clearing title")
	}
}

func TestRemoveAndStats(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Create(db, "one", models.AssigneeAI, CreateOpts{})
	b, _ := Create(db, "two", models.AssigneeAI, CreateOpts{})
	UpdateStatus(db, b.ID, models.TaskDone)

	if err := Remove(db, a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := Remove(db, a.ID); err == nil {
		t.Error("expected error removing twice")
	}

	stats, err := Stats(db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Done != 1 || stats.Todo != 0 {
		t.Errorf("stats = %+v", stats)
	}
}
