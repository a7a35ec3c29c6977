package memories

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
	if err := db.AutoMigrate(&models.Memory{}, &models.ActivityEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreate_LogsMemoryAdded(t *testing.T) {
	db := setupTestDB(t)

	row, err := Create(db, "Timezone", "Operator is in CET", CreateOpts{
		Category: "operator",
		Tags:     []string{"schedule"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.Tags != `["schedule"]` {
		t.Errorf("tags = %q", row.Tags)
	}

	var events []models.ActivityEvent
	db.Find(&events)
	if len(events) != 1 || events[0].Type != models.ActivityMemoryAdded {
		t.Errorf("events = %+v", events)
	}

	if _, err := Create(db, "", "x", CreateOpts{}); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestSearch_SubstringFallback(t *testing.T) {
	db := setupTestDB(t)
	Create(db, "Invoicing flow", "Use Stripe for EU clients", CreateOpts{})
	Create(db, "Meeting notes", "Discussed Q3 invoicing targets", CreateOpts{})
	Create(db, "Unrelated", "Groceries", CreateOpts{})

	rows, err := Search(db, "INVOIC", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("matches = %d, want 2 (title + content)", len(rows))
	}

	empty, err := Search(db, "   ", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty query matched %d rows", len(empty))
	}
}

func TestSearch_LikeMetacharactersLiteral(t *testing.T) {
	db := setupTestDB(t)
	Create(db, "Discounts", "Offer 10% off renewals", CreateOpts{})
	Create(db, "Naming", "Tables use snake_case", CreateOpts{})
	Create(db, "Unrelated", "Groceries", CreateOpts{})

	rows, err := Search(db, "%", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Discounts" {
		t.Errorf("%% query matched %d rows, want only the literal one", len(rows))
	}

	rows, err = Search(db, "snake_case", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Naming" {
		t.Errorf("_ query matched %d rows, want the literal one", len(rows))
	}
}

func TestCategories_DistinctNonEmpty(t *testing.T) {
	db := setupTestDB(t)
	Create(db, "a", "x", CreateOpts{Category: "work"})
	Create(db, "b", "x", CreateOpts{Category: "work"})
	Create(db, "c", "x", CreateOpts{Category: "personal"})
	Create(db, "d", "x", CreateOpts{})

	cats, err := Categories(db)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "personal" || cats[1] != "work" {
		t.Errorf("categories = %v", cats)
	}
}

func TestUpdateAndRemove(t *testing.T) {
	db := setupTestDB(t)
	row, _ := Create(db, "a", "x", CreateOpts{})

	content := "updated"
	if err := Update(db, row.ID, UpdateOpts{Content: &content}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := Get(db, row.ID)
	if got.Content != "updated" || got.Title != "a" {
		t.Errorf("patched = %+v", got)
	}

	if err := Remove(db, row.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := Get(db, row.ID); err == nil {
		t.Error("expected not-found after remove")
	}
}
