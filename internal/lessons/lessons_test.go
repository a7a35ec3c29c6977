package lessons

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
	if err := db.AutoMigrate(&models.Lesson{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAdd_ValidatesEnums(t *testing.T) {
	db := setupTestDB(t)

	l, err := Add(db, "Shorter emails", "feedback on tone", "Keep replies under five sentences",
		models.LessonCommunication, models.SourceFeedback)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if l.Applied {
		t.Error("new lesson starts applied")
	}

	if _, err := Add(db, "", "", "x", models.LessonOther, models.SourceExplicit); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := Add(db, "t", "", "x", "vibes", models.SourceExplicit); err == nil {
		t.Error("expected error for invalid category")
	}
	if _, err := Add(db, "t", "", "x", models.LessonOther, "osmosis"); err == nil {
		t.Error("expected error for invalid source")
	}
}

func TestMarkAppliedAndUnappliedCount(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Add(db, "one", "", "x", models.LessonProcess, models.SourceObservation)
	Add(db, "two", "", "y", models.LessonProcess, models.SourceObservation)

	if err := MarkApplied(db, a.ID); err != nil {
		t.Fatalf("mark applied: %v", err)
	}
	count, err := UnappliedCount(db)
	if err != nil {
		t.Fatalf("unapplied count: %v", err)
	}
	if count != 1 {
		t.Errorf("unapplied = %d, want 1", count)
	}

	if err := MarkApplied(db, "lesson-missing"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Add(db, "one", "", "x", models.LessonStyle, models.SourceFeedback)
	Add(db, "two", "", "y", models.LessonStyle, models.SourceCorrection)
	Add(db, "three", "", "z", models.LessonTechnical, models.SourceCorrection)
	MarkApplied(db, a.ID)

	stats, err := Stats(db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Applied != 1 || stats.Pending != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByCategory[models.LessonStyle] != 2 || stats.BySource[models.SourceCorrection] != 2 {
		t.Errorf("breakdowns = %+v", stats)
	}
}

func TestByCategoryAndRemove(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Add(db, "one", "", "x", models.LessonStyle, models.SourceFeedback)
	Add(db, "two", "", "y", models.LessonProcess, models.SourceFeedback)

	styled, err := ByCategory(db, models.LessonStyle)
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(styled) != 1 || styled[0].ID != a.ID {
		t.Errorf("by category = %v", styled)
	}

	if err := Remove(db, a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	remaining, _ := List(db, 0)
	if len(remaining) != 1 {
		t.Errorf("remaining = %d, want 1", len(remaining))
	}
}
