package approvals

import (
	"errors"
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
	err = db.AutoMigrate(&models.Approval{}, &models.ActivityEvent{}, &models.Lesson{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

func TestRequest_LogsAndNotifiesUrgent(t *testing.T) {
	db := setupTestDB(t)
	fake := &fakeNotifier{}

	row, err := Request(db, "Send investor update", "Monthly recap to the list",
		models.ApprovalEmailSend, models.PriorityUrgent, RequestOpts{Notifier: fake})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if row.Status != models.ApprovalPending {
		t.Errorf("status = %q, want pending", row.Status)
	}

	var events []models.ActivityEvent
	db.Find(&events)
	if len(events) != 1 || events[0].Type != models.ActivityApprovalRequested {
		t.Errorf("activity events = %+v", events)
	}
	if len(fake.messages) != 1 {
		t.Errorf("notifications = %d, want 1", len(fake.messages))
	}

	// Normal priority does not notify.
	if _, err := Request(db, "Buy domain", "renewal", models.ApprovalPurchase,
		models.PriorityNormal, RequestOpts{Notifier: fake}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(fake.messages) != 1 {
		t.Errorf("notifications = %d, want still 1", len(fake.messages))
	}
}

func TestRequest_NotifierFailureDoesNotBlock(t *testing.T) {
	db := setupTestDB(t)
	fake := &fakeNotifier{err: errors.New("slack down")}

	row, err := Request(db, "Post announcement", "launch thread",
		models.ApprovalSocialPost, models.PriorityUrgent, RequestOpts{Notifier: fake})
	if err != nil {
		t.Fatalf("request failed on notifier error: %v", err)
	}
	if row == nil || row.Status != models.ApprovalPending {
		t.Errorf("row = %+v", row)
	}
}

func TestReject_DerivesLessonFromFeedback(t *testing.T) {
	db := setupTestDB(t)
	email, _ := Request(db, "Send cold outreach", "to prospect list",
		models.ApprovalEmailSend, models.PriorityNormal, RequestOpts{})
	deploy, _ := Request(db, "Deploy friday", "hotfix", models.ApprovalCodeDeploy,
		models.PriorityNormal, RequestOpts{})
	silent, _ := Request(db, "Other thing", "misc", models.ApprovalOther,
		models.PriorityNormal, RequestOpts{})

	if err := Reject(db, email.ID, "Too salesy, soften the tone"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := Reject(db, deploy.ID, "Never deploy on fridays"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := Reject(db, silent.ID, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	var rows []models.Lesson
	db.Order("timestamp ASC").Find(&rows)
	if len(rows) != 2 {
		t.Fatalf("lessons = %d, want 2 (no lesson without feedback)", len(rows))
	}
	if rows[0].Category != models.LessonCommunication {
		t.Errorf("email rejection category = %q, want communication", rows[0].Category)
	}
	if rows[1].Category != models.LessonProcess {
		t.Errorf("deploy rejection category = %q, want process", rows[1].Category)
	}
	for _, l := range rows {
		if l.Source != models.SourceCorrection {
			t.Errorf("source = %q, want correction", l.Source)
		}
	}
}

func TestDecide_OnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	row, _ := Request(db, "x", "y", models.ApprovalOther, models.PriorityLow, RequestOpts{})

	if err := Approve(db, row.ID, "fine"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, _ := Get(db, row.ID)
	if got.Status != models.ApprovalApproved || got.DecidedAt == 0 {
		t.Errorf("approved row = %+v", got)
	}

	if err := Reject(db, row.ID, "changed my mind"); err == nil {
		t.Error("expected error deciding twice")
	}
}

func TestList_PendingFirstThenPriority(t *testing.T) {
	db := setupTestDB(t)
	low, _ := Request(db, "low", "d", models.ApprovalOther, models.PriorityLow, RequestOpts{})
	decided, _ := Request(db, "urgent decided", "d", models.ApprovalOther, models.PriorityUrgent, RequestOpts{})
	urgent, _ := Request(db, "urgent", "d", models.ApprovalOther, models.PriorityUrgent, RequestOpts{})
	normal, _ := Request(db, "normal", "d", models.ApprovalOther, models.PriorityNormal, RequestOpts{})
	Approve(db, decided.ID, "")

	rows, err := List(db, ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantOrder := []string{urgent.ID, normal.ID, low.ID, decided.ID}
	if len(rows) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(rows), len(wantOrder))
	}
	for i, id := range wantOrder {
		if rows[i].ID != id {
			t.Errorf("position %d = %q (%s), want %q", i, rows[i].ID, rows[i].Title, id)
		}
	}
}

func TestPendingCount(t *testing.T) {
	db := setupTestDB(t)
	Request(db, "a", "d", models.ApprovalEmailSend, models.PriorityUrgent, RequestOpts{})
	Request(db, "b", "d", models.ApprovalEmailSend, models.PriorityNormal, RequestOpts{})
	Request(db, "c", "d", models.ApprovalPurchase, models.PriorityLow, RequestOpts{})
	Request(db, "e", "d", models.ApprovalCodeDeploy, models.PriorityLow, RequestOpts{})
	decided, _ := Request(db, "f", "d", models.ApprovalSocialPost, models.PriorityUrgent, RequestOpts{})
	Approve(db, decided.ID, "")

	counts, err := PendingCount(db)
	if err != nil {
		t.Fatalf("pending count: %v", err)
	}
	if counts.Total != 4 || counts.Urgent != 1 {
		t.Errorf("counts = %+v", counts)
	}
	if counts.Email != 2 || counts.Purchase != 1 || counts.Other != 1 || counts.Social != 0 {
		t.Errorf("type counts = %+v", counts)
	}
}

func TestExistsAndBatch(t *testing.T) {
	db := setupTestDB(t)
	a, _ := Request(db, "dup check", "d", models.ApprovalOther, models.PriorityLow, RequestOpts{})
	b, _ := Request(db, "second", "d", models.ApprovalOther, models.PriorityLow, RequestOpts{})

	exists, err := Exists(db, "dup check")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("pending approval not found by title")
	}

	decided, err := BatchDecide(db, []string{a.ID, b.ID}, true, "")
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if decided != 2 {
		t.Errorf("decided = %d, want 2", decided)
	}

	exists, _ = Exists(db, "dup check")
	if exists {
		t.Error("decided approval still reported pending")
	}
}
