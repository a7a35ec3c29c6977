// Package questions is the queue of things the assistant wants to ask its
// operator.
package questions

import (
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/lessons"
	"github.com/qops/missionctl/internal/models"
	"github.com/qops/missionctl/internal/notify"
	"gorm.io/gorm"
)

// DismissedAnswer is recorded when a question is dismissed without a reason.
const DismissedAnswer = "Dismissed without answer"

// ListOpts filters List. Zero values mean no filter.
type ListOpts struct {
	Status   string
	Category string
}

// List returns questions newest first.
func List(db *gorm.DB, opts ListOpts) ([]models.Question, error) {
	q := db.Order("timestamp DESC")
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	if opts.Category != "" {
		if !models.ValidQuestionCategory(opts.Category) {
			return nil, fmt.Errorf("questions: invalid category %q", opts.Category)
		}
		q = q.Where("category = ?", opts.Category)
	}
	var rows []models.Question
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("questions: list: %w", err)
	}
	return rows, nil
}

// Get returns one question by id.
func Get(db *gorm.DB, id string) (*models.Question, error) {
	var row models.Question
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("questions: question not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("questions: get: %w", err)
	}
	return &row, nil
}

// QueueCounts summarizes the pending questions by priority.
type QueueCounts struct {
	Total  int64 `json:"total"`
	Urgent int64 `json:"urgent"`
	Normal int64 `json:"normal"`
	Low    int64 `json:"low"`
}

// PendingCount tallies pending questions by priority band.
func PendingCount(db *gorm.DB) (*QueueCounts, error) {
	var pending []models.Question
	if err := db.Where("status = ?", models.QuestionPending).
		Find(&pending).Error; err != nil {
		return nil, fmt.Errorf("questions: pending count: %w", err)
	}
	counts := QueueCounts{}
	for _, q := range pending {
		counts.Total++
		switch q.Priority {
		case models.PriorityUrgent:
			counts.Urgent++
		case models.PriorityLow:
			counts.Low++
		default:
			counts.Normal++
		}
	}
	return &counts, nil
}

// AskOpts holds the optional fields for a new question.
type AskOpts struct {
	Context   string
	RelatedTo string
	Notifier  notify.Notifier // alerted for urgent questions; delivery is best-effort
}

// Ask enqueues a pending question and logs a question_asked event. Urgent
// questions additionally ping the notifier when one is configured.
func Ask(db *gorm.DB, question, category, priority string, opts AskOpts) (*models.Question, error) {
	if question == "" {
		return nil, fmt.Errorf("questions: question is required")
	}
	if !models.ValidQuestionCategory(category) {
		return nil, fmt.Errorf("questions: invalid category %q", category)
	}
	if !models.ValidQueuePriority(priority) {
		return nil, fmt.Errorf("questions: invalid priority %q", priority)
	}

	id, err := models.NewID("q")
	if err != nil {
		return nil, err
	}
	row := models.Question{
		ID:        id,
		Question:  question,
		Context:   opts.Context,
		Category:  category,
		Priority:  priority,
		Status:    models.QuestionPending,
		RelatedTo: opts.RelatedTo,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("questions: ask: %w", err)
	}

	if _, err := activity.Log(db, models.ActivityQuestionAsked, "Question: "+question, activity.LogOpts{
		AgentName: "Q",
		Details:   opts.Context,
	}); err != nil {
		return nil, err
	}

	if priority == models.PriorityUrgent && opts.Notifier != nil {
		if err := opts.Notifier.Notify("Urgent question: " + question); err != nil {
			activity.Log(db, models.ActivityError, "Notification failed", activity.LogOpts{
				Details: err.Error(),
			})
		}
	}
	return &row, nil
}

// Answer records the operator's answer. A preference question also yields a
// style lesson so the preference sticks.
func Answer(db *gorm.DB, id, answer string) error {
	if answer == "" {
		return fmt.Errorf("questions: answer is required")
	}
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	if row.Status != models.QuestionPending {
		return fmt.Errorf("questions: question already resolved: %s", id)
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"status":      models.QuestionAnswered,
		"answer":      answer,
		"answered_at": time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("questions: answer: %w", err)
	}

	if row.Category == models.QuestionPreference {
		_, err = lessons.Add(db,
			"Preference: "+row.Question,
			"Answered preference question",
			answer,
			models.LessonStyle,
			models.SourceExplicit,
		)
		return err
	}
	return nil
}

// Dismiss resolves a question without an answer, keeping the reason (or a
// fixed placeholder) in the answer field.
func Dismiss(db *gorm.DB, id, reason string) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	if row.Status != models.QuestionPending {
		return fmt.Errorf("questions: question already resolved: %s", id)
	}
	answer := reason
	if answer == "" {
		answer = DismissedAnswer
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"status":      models.QuestionDismissed,
		"answer":      answer,
		"answered_at": time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("questions: dismiss: %w", err)
	}
	return nil
}

// BatchUpdate dismisses or answers several questions at once. The first
// error stops the batch; earlier updates stand.
func BatchUpdate(db *gorm.DB, ids []string, answer string) (int, error) {
	updated := 0
	for _, id := range ids {
		var err error
		if answer == "" {
			err = Dismiss(db, id, "")
		} else {
			err = Answer(db, id, answer)
		}
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
