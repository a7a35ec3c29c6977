package decisions

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
	err = db.AutoMigrate(&models.Decision{}, &models.ActivityEvent{}, &models.Lesson{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func logOne(t *testing.T, db *gorm.DB, title, category string) *models.Decision {
	t.Helper()
	row, err := Log(db, title, "ctx", "seemed best", category, models.ImpactLow, LogOpts{})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	return row
}

func TestLog_AppendsActivity(t *testing.T) {
	db := setupTestDB(t)

	row := logOne(t, db, "Reply in thread instead of new email", models.DecisionEmail)
	if row.Reviewed {
		t.Error("new decision starts reviewed")
	}

	var events []models.ActivityEvent
	db.Find(&events)
	if len(events) != 1 || events[0].Type != models.ActivityDecisionMade {
		t.Errorf("events = %+v", events)
	}

	if _, err := Log(db, "", "d", "r", models.DecisionOther, models.ImpactLow, LogOpts{}); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := Log(db, "t", "d", "r", "hunch", models.ImpactLow, LogOpts{}); err == nil {
		t.Error("expected error for invalid category")
	}
}

func TestProvideFeedback_BadDerivesLesson(t *testing.T) {
	db := setupTestDB(t)
	good := logOne(t, db, "good call", models.DecisionScheduling)
	bad := logOne(t, db, "risky refactor", models.DecisionTechnical)

	if err := ProvideFeedback(db, good.ID, models.FeedbackGood, ""); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if err := ProvideFeedback(db, bad.ID, models.FeedbackBad, "Should have asked first"); err != nil {
		t.Fatalf("feedback: %v", err)
	}

	var rows []models.Lesson
	db.Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("lessons = %d, want 1 (bad verdict only)", len(rows))
	}
	l := rows[0]
	if l.Category != models.LessonTechnical || l.Source != models.SourceFeedback ||
		l.Lesson != "Should have asked first" {
		t.Errorf("lesson = %+v", l)
	}

	got, _ := Get(db, bad.ID)
	if !got.Reviewed || got.Feedback != models.FeedbackBad {
		t.Errorf("decision after feedback = %+v", got)
	}

	if err := ProvideFeedback(db, good.ID, "meh", ""); err == nil {
		t.Error("expected error for invalid feedback value")
	}
}

func TestUnreviewedCountAndList(t *testing.T) {
	db := setupTestDB(t)
	a := logOne(t, db, "one", models.DecisionOther)
	logOne(t, db, "two", models.DecisionEmail)
	MarkReviewed(db, a.ID)

	count, err := UnreviewedCount(db)
	if err != nil {
		t.Fatalf("unreviewed: %v", err)
	}
	if count != 1 {
		t.Errorf("unreviewed = %d, want 1", count)
	}

	f := false
	pending, err := List(db, ListOpts{Reviewed: &f})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "two" {
		t.Errorf("pending = %v", pending)
	}

	emails, err := List(db, ListOpts{Category: models.DecisionEmail})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(emails) != 1 {
		t.Errorf("emails = %v", emails)
	}
}

func TestFeedbackStats_SuccessRate(t *testing.T) {
	db := setupTestDB(t)
	for i, verdict := range []string{models.FeedbackGood, models.FeedbackGood, models.FeedbackBad} {
		row := logOne(t, db, "d", models.DecisionOther)
		if err := ProvideFeedback(db, row.ID, verdict, ""); err != nil {
			t.Fatalf("feedback %d: %v", i, err)
		}
	}
	neutral := logOne(t, db, "n", models.DecisionOther)
	ProvideFeedback(db, neutral.ID, models.FeedbackNeutral, "")
	logOne(t, db, "unreviewed", models.DecisionOther)

	stats, err := FeedbackStats(db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 5 || stats.Reviewed != 4 || stats.Pending != 1 {
		t.Errorf("funnel = %+v", stats)
	}
	if stats.Good != 2 || stats.Bad != 1 || stats.Neutral != 1 {
		t.Errorf("verdicts = %+v", stats)
	}
	// 2 good of 3 judged: 66.67 rounds to 67. Neutral is excluded.
	if stats.SuccessRate != 67 {
		t.Errorf("success rate = %v, want 67", stats.SuccessRate)
	}
}

func TestFeedbackStats_NoJudgedDecisions(t *testing.T) {
	db := setupTestDB(t)
	logOne(t, db, "d", models.DecisionOther)

	stats, err := FeedbackStats(db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SuccessRate != 0 {
		t.Errorf("success rate = %v, want 0 with nothing judged", stats.SuccessRate)
	}
}
