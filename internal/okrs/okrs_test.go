package okrs

import (
	"testing"
	"time"

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
	if err := db.AutoMigrate(&models.OKR{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func kr(target, current float64) models.KeyResult {
	return models.KeyResult{Description: "kr", Target: target, Current: current, Unit: "count"}
}

func TestQuarterLabel(t *testing.T) {
	cases := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "Q1 2026"},
		{time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), "Q1 2026"},
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), "Q2 2026"},
		{time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), "Q3 2026"},
		{time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), "Q4 2026"},
	}
	for _, c := range cases {
		if got := Quarter(c.at); got != c.want {
			t.Errorf("Quarter(%v) = %q, want %q", c.at, got, c.want)
		}
	}
}

func TestDeriveStatus_Thresholds(t *testing.T) {
	cases := []struct {
		progress float64
		want     string
	}{
		{0, models.OKRBehind},
		{49.9, models.OKRBehind},
		{50, models.OKRAtRisk},
		{69.9, models.OKRAtRisk},
		{70, models.OKROnTrack},
		{99.9, models.OKROnTrack},
		{100, models.OKRAchieved},
		{120, models.OKRAchieved},
	}
	for _, c := range cases {
		if got := deriveStatus(c.progress); got != c.want {
			t.Errorf("deriveStatus(%v) = %q, want %q", c.progress, got, c.want)
		}
	}
}

func TestCreate_DerivesInitialStatus(t *testing.T) {
	db := setupTestDB(t)

	row, err := Create(db, "Grow newsletter", "Q3 2026", "Q", "",
		[]models.KeyResult{kr(1000, 800), kr(10, 6)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Mean of 80% and 60% is 70%: on track.
	if row.Status != models.OKROnTrack {
		t.Errorf("status = %q, want on_track", row.Status)
	}

	if _, err := Create(db, "", "Q3 2026", "Q", "", []models.KeyResult{kr(1, 0)}); err == nil {
		t.Error("expected error for empty objective")
	}
	if _, err := Create(db, "x", "Q3 2026", "Q", "", nil); err == nil {
		t.Error("expected error for no key results")
	}
}

func TestUpdateProgress_IndexAddressedAndBounded(t *testing.T) {
	db := setupTestDB(t)
	row, _ := Create(db, "Ship v2", "Q3 2026", "Q", "",
		[]models.KeyResult{kr(100, 10), kr(50, 5)})

	if err := UpdateProgress(db, row.ID, 1, 50); err != nil {
		t.Fatalf("update progress: %v", err)
	}
	got, _ := Get(db, row.ID)
	results, err := KeyResults(got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if results[1].Current != 50 || results[0].Current != 10 {
		t.Errorf("results = %+v", results)
	}
	// Mean of 10% and 100% is 55%: at risk.
	if got.Status != models.OKRAtRisk {
		t.Errorf("status = %q, want at_risk", got.Status)
	}

	if err := UpdateProgress(db, row.ID, 2, 1); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if err := UpdateProgress(db, row.ID, -1, 1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestSummary(t *testing.T) {
	db := setupTestDB(t)
	Create(db, "a", "Q3 2026", "Q", "", []models.KeyResult{kr(10, 10)})
	Create(db, "b", "Q3 2026", "Q", "", []models.KeyResult{kr(10, 1)})
	Create(db, "c", "Q4 2026", "Q", "", []models.KeyResult{kr(10, 9)})

	s, err := Summary(db, "Q3 2026")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Total != 2 || s.Achieved != 1 || s.Behind != 1 {
		t.Errorf("summary = %+v", s)
	}
}
