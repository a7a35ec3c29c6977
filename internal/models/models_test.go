package models

import (
	"reflect"
	"strings"
	"testing"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

func TestActivityEvent_Fields(t *testing.T) {
	typ := reflect.TypeOf(ActivityEvent{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "Type", "index")
	assertGormTag(t, typ, "Timestamp", "index")
	assertGormTag(t, typ, "Action", "not null")
	assertGormTag(t, typ, "Metadata", "type:json")

	f, _ := typ.FieldByName("Timestamp")
	if f.Type.Kind() != reflect.Int64 {
		t.Errorf("Timestamp type = %s, want int64 (epoch millis)", f.Type)
	}
}

func TestActivityTypes_Complete(t *testing.T) {
	if len(ActivityTypes) != 12 {
		t.Fatalf("ActivityTypes has %d entries, want 12", len(ActivityTypes))
	}
	seen := make(map[string]bool)
	for _, typ := range ActivityTypes {
		if seen[typ] {
			t.Errorf("duplicate activity type %q", typ)
		}
		seen[typ] = true
		if !ValidActivityType(typ) {
			t.Errorf("ValidActivityType(%q) = false, want true", typ)
		}
	}
	if ValidActivityType("reboot") {
		t.Error("ValidActivityType accepted an undeclared type")
	}
}

func TestSystemStatus_KeyUnique(t *testing.T) {
	typ := reflect.TypeOf(SystemStatus{})
	assertGormTag(t, typ, "Key", "uniqueIndex")
	assertGormTag(t, typ, "Key", "not null")
}

func TestEnumValidators(t *testing.T) {
	cases := []struct {
		name  string
		fn    func(string) bool
		good  string
		bad   string
	}{
		{"task status", ValidTaskStatus, TaskInProgress, "started"},
		{"assignee", ValidAssignee, AssigneeAI, "robot"},
		{"agent status", ValidAgentStatus, AgentWorking, "busy"},
		{"approval type", ValidApprovalType, ApprovalEmailSend, "email"},
		{"queue priority", ValidQueuePriority, PriorityUrgent, "critical"},
		{"question category", ValidQuestionCategory, QuestionPreference, "misc"},
		{"decision category", ValidDecisionCategory, DecisionScheduling, "calendar"},
		{"feedback", ValidFeedback, FeedbackBad, "terrible"},
		{"lesson category", ValidLessonCategory, LessonStyle, "tone"},
		{"lesson source", ValidLessonSource, SourceExplicit, "implied"},
		{"draft status", ValidDraftStatus, DraftEdited, "draft"},
		{"relationship", ValidRelationship, RelClient, "friend"},
		{"event type", ValidEventType, EventBirthday, "party"},
		{"content stage", ValidContentStage, StageEditing, "review"},
		{"cron status", ValidCronStatus, CronPaused, "stopped"},
		{"okr status", ValidOKRStatus, OKRAtRisk, "risky"},
		{"opportunity stage", ValidOpportunityStage, StageClosedWon, "won"},
		{"skill type", ValidSkillType, SkillSOP, "doc"},
		{"entry type", ValidEntryType, EntryResearch, "misc2"},
		{"email draft status", ValidEmailDraftStatus, EmailDraftDeleted, "discarded"},
	}
	for _, tc := range cases {
		if !tc.fn(tc.good) {
			t.Errorf("%s: %q rejected", tc.name, tc.good)
		}
		if tc.fn(tc.bad) {
			t.Errorf("%s: %q accepted", tc.name, tc.bad)
		}
	}
}

func TestNewID(t *testing.T) {
	id, err := NewID("act")
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if !strings.HasPrefix(id, "act-") {
		t.Errorf("id = %q, want act- prefix", id)
	}
	if len(id) != len("act-")+8 {
		t.Errorf("id = %q, want 8 hex chars after prefix", id)
	}

	other, err := NewID("act")
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if id == other {
		t.Errorf("two generated IDs collided: %q", id)
	}
}
