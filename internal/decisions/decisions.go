// Package decisions records the assistant's autonomous decisions for later
// operator review. Feedback closes the loop: a bad verdict becomes a lesson.
package decisions

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/lessons"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// ListOpts filters List. Reviewed is a tri-state: nil means no filter.
type ListOpts struct {
	Reviewed *bool
	Category string
	Limit    int
}

// List returns decisions newest first.
func List(db *gorm.DB, opts ListOpts) ([]models.Decision, error) {
	q := db.Order("timestamp DESC")
	if opts.Reviewed != nil {
		q = q.Where("reviewed = ?", *opts.Reviewed)
	}
	if opts.Category != "" {
		if !models.ValidDecisionCategory(opts.Category) {
			return nil, fmt.Errorf("decisions: invalid category %q", opts.Category)
		}
		q = q.Where("category = ?", opts.Category)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	var rows []models.Decision
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("decisions: list: %w", err)
	}
	return rows, nil
}

// Get returns one decision by id.
func Get(db *gorm.DB, id string) (*models.Decision, error) {
	var row models.Decision
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("decisions: decision not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("decisions: get: %w", err)
	}
	return &row, nil
}

// UnreviewedCount counts decisions awaiting operator review.
func UnreviewedCount(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&models.Decision{}).Where("reviewed = ?", false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("decisions: unreviewed count: %w", err)
	}
	return count, nil
}

// LogOpts holds the optional fields for a new decision record.
type LogOpts struct {
	Alternatives string // opaque JSON array
}

// Log records one decision and appends a decision_made activity event.
func Log(db *gorm.DB, title, description, reasoning, category, impact string, opts LogOpts) (*models.Decision, error) {
	if title == "" || description == "" || reasoning == "" {
		return nil, fmt.Errorf("decisions: title, description, and reasoning are required")
	}
	if !models.ValidDecisionCategory(category) {
		return nil, fmt.Errorf("decisions: invalid category %q", category)
	}
	if !models.ValidImpact(impact) {
		return nil, fmt.Errorf("decisions: invalid impact %q", impact)
	}

	id, err := models.NewID("dec")
	if err != nil {
		return nil, err
	}
	row := models.Decision{
		ID:           id,
		Title:        title,
		Description:  description,
		Alternatives: opts.Alternatives,
		Reasoning:    reasoning,
		Category:     category,
		Impact:       impact,
		Timestamp:    time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("decisions: log: %w", err)
	}

	if _, err := activity.Log(db, models.ActivityDecisionMade, "Decision: "+title, activity.LogOpts{
		AgentName: "Q",
		Details:   reasoning,
	}); err != nil {
		return nil, err
	}
	return &row, nil
}

// ProvideFeedback records the operator's verdict and marks the decision
// reviewed. A bad verdict with a note derives a feedback lesson.
func ProvideFeedback(db *gorm.DB, id, feedback, note string) error {
	if !models.ValidFeedback(feedback) {
		return fmt.Errorf("decisions: invalid feedback %q", feedback)
	}
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"feedback":      feedback,
		"feedback_note": note,
		"reviewed":      true,
	}).Error
	if err != nil {
		return fmt.Errorf("decisions: provide feedback: %w", err)
	}

	if feedback == models.FeedbackBad {
		lessonText := note
		if lessonText == "" {
			lessonText = "Decision judged wrong: " + row.Title
		}
		_, err = lessons.Add(db,
			"Bad call: "+row.Title,
			row.Reasoning,
			lessonText,
			lessonCategory(row.Category),
			models.SourceFeedback,
		)
		return err
	}
	return nil
}

// lessonCategory maps a decision category onto the lesson taxonomy.
func lessonCategory(decisionCategory string) string {
	switch decisionCategory {
	case models.DecisionTechnical:
		return models.LessonTechnical
	case models.DecisionCommunication:
		return models.LessonCommunication
	case models.DecisionPrioritization:
		return models.LessonPrioritization
	default:
		return models.LessonOther
	}
}

// MarkReviewed flags a decision reviewed without a verdict.
func MarkReviewed(db *gorm.DB, id string) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	if err := db.Model(row).Update("reviewed", true).Error; err != nil {
		return fmt.Errorf("decisions: mark reviewed: %w", err)
	}
	return nil
}

// ReviewStats aggregates feedback across all decisions.
type ReviewStats struct {
	Total       int64   `json:"total"`
	Reviewed    int64   `json:"reviewed"`
	Pending     int64   `json:"pending"`
	Good        int64   `json:"good"`
	Bad         int64   `json:"bad"`
	Neutral     int64   `json:"neutral"`
	SuccessRate float64 `json:"successRate"` // good / (good+bad), percent
}

// FeedbackStats returns the review funnel plus the success rate over
// decisions with a good or bad verdict, rounded to whole percent.
func FeedbackStats(db *gorm.DB) (*ReviewStats, error) {
	var all []models.Decision
	if err := db.Find(&all).Error; err != nil {
		return nil, fmt.Errorf("decisions: feedback stats: %w", err)
	}
	stats := ReviewStats{}
	for _, d := range all {
		stats.Total++
		if d.Reviewed {
			stats.Reviewed++
		} else {
			stats.Pending++
		}
		switch d.Feedback {
		case models.FeedbackGood:
			stats.Good++
		case models.FeedbackBad:
			stats.Bad++
		case models.FeedbackNeutral:
			stats.Neutral++
		}
	}
	if judged := stats.Good + stats.Bad; judged > 0 {
		stats.SuccessRate = math.Round(float64(stats.Good) / float64(judged) * 100)
	}
	return &stats, nil
}
