package agents

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
	if err := db.AutoMigrate(&models.Agent{}, &models.ActivityEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func TestCreate_IdleWithResponsibilities(t *testing.T) {
	db := setupTestDB(t)

	agent, err := Create(db, "Scout", "researcher", []string{"web research", "summaries"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if agent.Status != models.AgentIdle {
		t.Errorf("status = %q, want idle", agent.Status)
	}

	resp, err := Responsibilities(agent)
	if err != nil {
		t.Fatalf("responsibilities: %v", err)
	}
	if len(resp) != 2 || resp[0] != "web research" {
		t.Errorf("responsibilities = %v", resp)
	}

	if _, err := Create(db, "", "r", nil, ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestUpdateStatus_WorkingLogsStartedTask(t *testing.T) {
	db := setupTestDB(t)
	agent, _ := Create(db, "Scout", "researcher", nil, "")

	if err := UpdateStatus(db, agent.ID, models.AgentWorking, strPtr("crawl docs")); err != nil {
		t.Fatalf("update status: %v", err)
	}

	var events []models.ActivityEvent
	db.Find(&events)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	e := events[0]
	if e.Type != models.ActivityTaskStarted || e.Action != "started_task" ||
		e.AgentID != agent.ID || e.Details != "crawl docs" {
		t.Errorf("event = %+v", e)
	}

	// Going idle, or working without a task, logs nothing further.
	if err := UpdateStatus(db, agent.ID, models.AgentIdle, nil); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := UpdateStatus(db, agent.ID, models.AgentWorking, nil); err != nil {
		t.Fatalf("update status: %v", err)
	}
	db.Find(&events)
	if len(events) != 1 {
		t.Errorf("events = %d, want still 1", len(events))
	}

	if err := UpdateStatus(db, agent.ID, "sleeping", nil); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestRemove_CascadesAgentActivity(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Create(db, "Scout", "researcher", nil, "")
	b, _ := Create(db, "Forge", "builder", nil, "")

	if _, err := LogActivity(db, a.ID, models.ActivityInfo, "ping", ""); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, err := LogActivity(db, b.ID, models.ActivityInfo, "ping", ""); err != nil {
		t.Fatalf("log: %v", err)
	}

	if err := Remove(db, a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	var count int64
	db.Model(&models.ActivityEvent{}).Count(&count)
	if count != 1 {
		t.Errorf("activity rows = %d, want 1 (removed agent's rows cascade)", count)
	}
	var remaining []models.ActivityEvent
	db.Find(&remaining)
	if remaining[0].AgentID != b.ID {
		t.Errorf("surviving row belongs to %q, want %q", remaining[0].AgentID, b.ID)
	}

	if _, err := Get(db, a.ID); err == nil {
		t.Error("expected not-found after remove")
	}
}

func TestListWorkingAndByRole(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Create(db, "Scout", "researcher", nil, "")
	Create(db, "Forge", "builder", nil, "")
	UpdateStatus(db, a.ID, models.AgentWorking, strPtr("digging"))

	working, err := ListWorking(db)
	if err != nil {
		t.Fatalf("list working: %v", err)
	}
	if len(working) != 1 || working[0].ID != a.ID {
		t.Errorf("working = %v", working)
	}

	builders, err := ListByRole(db, "builder")
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(builders) != 1 || builders[0].Name != "Forge" {
		t.Errorf("builders = %v", builders)
	}
}
