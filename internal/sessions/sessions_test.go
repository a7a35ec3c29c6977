package sessions

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
	if err := db.AutoMigrate(&models.Session{}, &models.SessionEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGetOrCreateToday_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	first, err := GetOrCreateToday(db)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	second, err := GetOrCreateToday(db)
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if first.ID != second.ID {
		t.Error("second call created a new session")
	}
	if first.Date != time.Now().Format(DateFormat) {
		t.Errorf("date = %q", first.Date)
	}

	var count int64
	db.Model(&models.Session{}).Count(&count)
	if count != 1 {
		t.Errorf("sessions = %d, want 1", count)
	}
}

func TestLogEntry_AdvancesCounter(t *testing.T) {
	db := setupTestDB(t)

	entry, err := LogEntry(db, models.EntryEmail, "Drafted reply to invoice thread", EntryOpts{
		Reasoning: "operator asked for same-day replies",
		Duration:  4,
	})
	if err != nil {
		t.Fatalf("log entry: %v", err)
	}
	if entry.SessionID == "" || entry.Timestamp == 0 {
		t.Errorf("entry = %+v", entry)
	}

	if _, err := LogEntry(db, models.EntryCoding, "Fixed cron drift", EntryOpts{}); err != nil {
		t.Fatalf("log entry: %v", err)
	}

	session, err := GetOrCreateToday(db)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.TotalActions != 2 {
		t.Errorf("total actions = %d, want 2", session.TotalActions)
	}

	if _, err := LogEntry(db, "chores", "x", EntryOpts{}); err == nil {
		t.Error("expected error for invalid entry type")
	}
	if _, err := LogEntry(db, models.EntryOther, "", EntryOpts{}); err == nil {
		t.Error("expected error for empty action")
	}
}

func TestEntries_Filters(t *testing.T) {
	db := setupTestDB(t)
	LogEntry(db, models.EntryEmail, "one", EntryOpts{})
	LogEntry(db, models.EntryEmail, "two", EntryOpts{})
	LogEntry(db, models.EntryResearch, "three", EntryOpts{})

	emails, err := Entries(db, EntriesOpts{Type: models.EntryEmail})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(emails) != 2 {
		t.Errorf("email entries = %d, want 2", len(emails))
	}

	today := time.Now().Format(DateFormat)
	todays, err := Entries(db, EntriesOpts{Date: today, Limit: 2})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(todays) != 2 {
		t.Errorf("limited entries = %d, want 2", len(todays))
	}
}

func TestStats_TrailingWindow(t *testing.T) {
	db := setupTestDB(t)
	LogEntry(db, models.EntryEmail, "one", EntryOpts{})
	LogEntry(db, models.EntryEmail, "two", EntryOpts{})

	// Plant an old session outside the window.
	old := time.Now().AddDate(0, 0, -10).Format(DateFormat)
	id, _ := models.NewID("session")
	db.Create(&models.Session{ID: id, Date: old, TotalActions: 99, Categories: "{}"})

	stats, err := Stats(db, 7)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SessionCount != 1 || stats.TotalActions != 2 || stats.AvgActionsPerDay != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestUpdateSummary(t *testing.T) {
	db := setupTestDB(t)
	session, _ := GetOrCreateToday(db)

	if err := UpdateSummary(db, session.Date, "Cleared the inbox, shipped the digest"); err != nil {
		t.Fatalf("update summary: %v", err)
	}
	got, _ := ByDate(db, session.Date)
	if got.Summary == "" {
		t.Error("summary not stored")
	}

	if err := UpdateSummary(db, "1999-01-01", "x"); err == nil {
		t.Error("expected not-found for unknown date")
	}
}
