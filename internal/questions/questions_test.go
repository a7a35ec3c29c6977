package questions

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
	err = db.AutoMigrate(&models.Question{}, &models.ActivityEvent{}, &models.Lesson{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAsk_LogsActivity(t *testing.T) {
	db := setupTestDB(t)

	row, err := Ask(db, "Which tone for the newsletter?", models.QuestionPreference,
		models.PriorityNormal, AskOpts{Context: "two drafts ready"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if row.Status != models.QuestionPending {
		t.Errorf("status = %q, want pending", row.Status)
	}

	var events []models.ActivityEvent
	db.Find(&events)
	if len(events) != 1 || events[0].Type != models.ActivityQuestionAsked {
		t.Errorf("events = %+v", events)
	}

	if _, err := Ask(db, "", models.QuestionOther, models.PriorityLow, AskOpts{}); err == nil {
		t.Error("expected error for empty question")
	}
	if _, err := Ask(db, "x", "gossip", models.PriorityLow, AskOpts{}); err == nil {
		t.Error("expected error for invalid category")
	}
}

func TestAnswer_PreferenceYieldsStyleLesson(t *testing.T) {
	db := setupTestDB(t)
	pref, _ := Ask(db, "Bullets or prose in summaries?", models.QuestionPreference,
		models.PriorityNormal, AskOpts{})
	plain, _ := Ask(db, "Is the staging db safe to wipe?", models.QuestionPermission,
		models.PriorityNormal, AskOpts{})

	if err := Answer(db, pref.ID, "Bullets, always"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := Answer(db, plain.ID, "Yes"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	var rows []models.Lesson
	db.Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("lessons = %d, want 1 (preference only)", len(rows))
	}
	l := rows[0]
	if l.Category != models.LessonStyle || l.Source != models.SourceExplicit ||
		l.Lesson != "Bullets, always" {
		t.Errorf("lesson = %+v", l)
	}

	got, _ := Get(db, pref.ID)
	if got.Status != models.QuestionAnswered || got.AnsweredAt == 0 {
		t.Errorf("answered row = %+v", got)
	}
}

func TestDismiss_PlaceholderAnswer(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Ask(db, "one", models.QuestionOther, models.PriorityLow, AskOpts{})
	b, _ := Ask(db, "two", models.QuestionOther, models.PriorityLow, AskOpts{})

	if err := Dismiss(db, a.ID, "no longer relevant"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if err := Dismiss(db, b.ID, ""); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	gotA, _ := Get(db, a.ID)
	gotB, _ := Get(db, b.ID)
	if gotA.Answer != "no longer relevant" {
		t.Errorf("answer = %q", gotA.Answer)
	}
	if gotB.Answer != DismissedAnswer {
		t.Errorf("answer = %q, want placeholder", gotB.Answer)
	}

	if err := Answer(db, a.ID, "late"); err == nil {
		t.Error("expected error answering a resolved question")
	}
}

func TestPendingCount_ByPriority(t *testing.T) {
	db := setupTestDB(t)
	Ask(db, "u", models.QuestionOther, models.PriorityUrgent, AskOpts{})
	Ask(db, "n1", models.QuestionOther, models.PriorityNormal, AskOpts{})
	Ask(db, "n2", models.QuestionOther, models.PriorityNormal, AskOpts{})
	low, _ := Ask(db, "l", models.QuestionOther, models.PriorityLow, AskOpts{})
	Dismiss(db, low.ID, "")

	counts, err := PendingCount(db)
	if err != nil {
		t.Fatalf("pending count: %v", err)
	}
	if counts.Total != 3 || counts.Urgent != 1 || counts.Normal != 2 || counts.Low != 0 {
		t.Errorf("counts = %+v", counts)
	}
}

func TestBatchUpdate(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Ask(db, "one", models.QuestionOther, models.PriorityLow, AskOpts{})
	b, _ := Ask(db, "two", models.QuestionOther, models.PriorityLow, AskOpts{})

	updated, err := BatchUpdate(db, []string{a.ID, b.ID}, "")
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	gotA, _ := Get(db, a.ID)
	if gotA.Status != models.QuestionDismissed {
		t.Errorf("status = %q, want dismissed", gotA.Status)
	}
}
