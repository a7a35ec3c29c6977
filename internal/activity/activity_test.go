package activity

import (
	"strings"
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
	if err := db.AutoMigrate(&models.ActivityEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// insertAt inserts an event with an explicit timestamp, bypassing Log's
// insert-time stamping.
func insertAt(t *testing.T, db *gorm.DB, eventType string, ts int64) {
	t.Helper()
	id, err := models.NewID("act")
	if err != nil {
		t.Fatalf("id: %v", err)
	}
	event := models.ActivityEvent{
		ID:        id,
		Type:      eventType,
		Action:    "test",
		Timestamp: ts,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestLog_StampsAndStores(t *testing.T) {
	db := setupTestDB(t)

	before := time.Now().UnixMilli()
	id, err := Log(db, models.ActivityInfo, "Deployed dashboard", LogOpts{
		AgentName: "Q",
		Details:   "v2 rollout",
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	after := time.Now().UnixMilli()

	var got models.ActivityEvent
	if err := db.Where("id = ?", id).First(&got).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Timestamp < before || got.Timestamp > after {
		t.Errorf("timestamp %d outside [%d, %d]", got.Timestamp, before, after)
	}
	if got.AgentName != "Q" || got.Details != "v2 rollout" {
		t.Errorf("stored event = %+v", got)
	}
}

func TestLog_RejectsUndeclaredType(t *testing.T) {
	db := setupTestDB(t)
	if _, err := Log(db, "reboot", "x", LogOpts{}); err == nil {
		t.Fatal("expected error for undeclared event type")
	}
	if _, err := Log(db, models.ActivityInfo, "", LogOpts{}); err == nil {
		t.Fatal("expected error for empty action")
	}
}

func TestList_NewestFirstCapped(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UnixMilli()
	for i := 0; i < 10; i++ {
		insertAt(t, db, models.ActivityInfo, now-int64(i)*1000)
	}

	events, err := List(db, 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("len = %d, want 4", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp > events[i-1].Timestamp {
			t.Errorf("timestamps not non-increasing at %d", i)
		}
	}
}

func TestListByType(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UnixMilli()
	insertAt(t, db, models.ActivityHeartbeat, now-3000)
	insertAt(t, db, models.ActivityInfo, now-2000)
	insertAt(t, db, models.ActivityHeartbeat, now-1000)

	events, err := ListByType(db, models.ActivityHeartbeat, 10)
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	for _, e := range events {
		if e.Type != models.ActivityHeartbeat {
			t.Errorf("got type %q", e.Type)
		}
	}

	if _, err := ListByType(db, "bogus", 10); err == nil {
		t.Error("expected error for undeclared type")
	}
}

func TestRecentCount_WindowAndTypeFilter(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UnixMilli()
	insertAt(t, db, models.ActivityInfo, now-30*60*1000)          // 30m ago
	insertAt(t, db, models.ActivityHeartbeat, now-90*60*1000)     // 1.5h ago
	insertAt(t, db, models.ActivityInfo, now-25*60*60*1000)       // 25h ago

	total, err := RecentCount(db, 24, "")
	if err != nil {
		t.Fatalf("recent count: %v", err)
	}
	if total != 2 {
		t.Errorf("24h count = %d, want 2", total)
	}

	infos, err := RecentCount(db, 24, models.ActivityInfo)
	if err != nil {
		t.Fatalf("recent count typed: %v", err)
	}
	if infos != 1 {
		t.Errorf("24h info count = %d, want 1", infos)
	}
}

func TestByHour_DenseZeroFilledOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UnixMilli()

	// Events at hours-ago 0, 1, 1, 25. Offsets sit mid-bucket to stay clear
	// of the floor-division boundary while the test runs.
	for _, hoursAgo := range []int64{0, 1, 1, 25} {
		insertAt(t, db, models.ActivityInfo, now-hoursAgo*60*60*1000-30*60*1000)
	}

	buckets, err := ByHour(db, 24)
	if err != nil {
		t.Fatalf("by hour: %v", err)
	}
	if len(buckets) != 24 {
		t.Fatalf("bucket count = %d, want 24", len(buckets))
	}

	var sum int64
	for _, b := range buckets {
		sum += b.Count
	}
	if sum != 3 {
		t.Errorf("sum = %d, want 3 (25h-old event excluded)", sum)
	}

	// Oldest first: last bucket is the current hour. The 30-minute shim puts
	// the "0 hours ago" event in the last bucket and the two "1 hour ago"
	// events in the second-to-last.
	last := buckets[len(buckets)-1]
	secondLast := buckets[len(buckets)-2]
	if last.Count != 1 {
		t.Errorf("current-hour bucket = %d, want 1", last.Count)
	}
	if secondLast.Count != 2 {
		t.Errorf("one-hour-ago bucket = %d, want 2", secondLast.Count)
	}
	for i, b := range buckets[:len(buckets)-2] {
		if b.Count != 0 {
			t.Errorf("bucket %d = %d, want explicit zero", i, b.Count)
		}
	}
}

func TestByHour_ZeroHours(t *testing.T) {
	db := setupTestDB(t)
	buckets, err := ByHour(db, 0)
	if err != nil {
		t.Fatalf("by hour: %v", err)
	}
	if len(buckets) != 0 {
		t.Errorf("len = %d, want 0", len(buckets))
	}
}

func TestByHour_NegativeHours(t *testing.T) {
	db := setupTestDB(t)
	if _, err := ByHour(db, -1); err == nil {
		t.Fatal("expected error for negative hours")
	} else if !strings.Contains(err.Error(), "must be non-negative") {
		t.Errorf("err = %v, want non-negative validation", err)
	}
}

func TestClear_RetentionRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UnixMilli()
	insertAt(t, db, models.ActivityInfo, now-10*24*60*60*1000)
	insertAt(t, db, models.ActivityInfo, now-2*24*60*60*1000)
	insertAt(t, db, models.ActivityInfo, now-1000)

	deleted, err := Clear(db, 7)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	events, err := List(db, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	cutoff := now - 7*24*60*60*1000
	for _, e := range events {
		if e.Timestamp < cutoff {
			t.Errorf("event %s older than cutoff survived clear", e.ID)
		}
	}
}

func TestList_DefaultLimit(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UnixMilli()
	for i := 0; i < DefaultListLimit+10; i++ {
		insertAt(t, db, models.ActivityInfo, now-int64(i))
	}
	events, err := List(db, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != DefaultListLimit {
		t.Errorf("default limit len = %d, want %d", len(events), DefaultListLimit)
	}
	// Guard against accidental duplicate IDs from the generator.
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}
