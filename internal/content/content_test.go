package content

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
	if err := db.AutoMigrate(&models.ContentItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreate_StartsAtIdea(t *testing.T) {
	db := setupTestDB(t)
	row, err := Create(db, "Go concurrency video", "worker pool walkthrough")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.Stage != models.StageIdea {
		t.Errorf("stage = %q, want idea", row.Stage)
	}

	if _, err := Create(db, "", ""); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestUpdateStage(t *testing.T) {
	db := setupTestDB(t)
	row, _ := Create(db, "video", "")

	if err := UpdateStage(db, row.ID, models.StageScript); err != nil {
		t.Fatalf("update stage: %v", err)
	}
	got, _ := Get(db, row.ID)
	if got.Stage != models.StageScript {
		t.Errorf("stage = %q, want script", got.Stage)
	}
	if got.UpdatedAt < got.CreatedAt {
		t.Error("updatedAt not advanced")
	}

	if err := UpdateStage(db, row.ID, "post_production"); err == nil {
		t.Error("expected error for invalid stage")
	}
}

func TestListByStage(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Create(db, "one", "")
	Create(db, "two", "")
	UpdateStage(db, a.ID, models.StageEditing)

	editing, err := ListByStage(db, models.StageEditing)
	if err != nil {
		t.Fatalf("list by stage: %v", err)
	}
	if len(editing) != 1 || editing[0].ID != a.ID {
		t.Errorf("editing = %v", editing)
	}

	ideas, _ := ListByStage(db, models.StageIdea)
	if len(ideas) != 1 {
		t.Errorf("ideas = %v", ideas)
	}
}

func TestUpdate_PublishFields(t *testing.T) {
	db := setupTestDB(t)
	row, _ := Create(db, "video", "")

	url := "https://example.com/watch/abc"
	if err := Update(db, row.ID, UpdateOpts{PublishedURL: &url}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := Get(db, row.ID)
	if got.PublishedURL != url {
		t.Errorf("published url = %q", got.PublishedURL)
	}

	if err := Remove(db, row.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := Get(db, row.ID); err == nil {
		t.Error("expected not-found after remove")
	}
}
