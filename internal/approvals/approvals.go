// Package approvals is the human sign-off queue for actions the assistant
// will not take unilaterally.
package approvals

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/lessons"
	"github.com/qops/missionctl/internal/models"
	"github.com/qops/missionctl/internal/notify"
	"gorm.io/gorm"
)

// priorityRank orders the queue: urgent first.
var priorityRank = map[string]int{
	models.PriorityUrgent: 0,
	models.PriorityNormal: 1,
	models.PriorityLow:    2,
}

// ListOpts filters List. Zero values mean no filter.
type ListOpts struct {
	Status string
	Type   string
}

// List returns approvals with pending items first, then by priority, then
// newest first within a priority band.
func List(db *gorm.DB, opts ListOpts) ([]models.Approval, error) {
	q := db
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	if opts.Type != "" {
		if !models.ValidApprovalType(opts.Type) {
			return nil, fmt.Errorf("approvals: invalid type %q", opts.Type)
		}
		q = q.Where("type = ?", opts.Type)
	}
	var rows []models.Approval
	if err := q.Order("timestamp DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("approvals: list: %w", err)
	}
	sortQueue(rows)
	return rows, nil
}

// sortQueue applies the queue ordering in place: pending before decided,
// then urgent > normal > low. The incoming slice is already newest-first,
// and the stable sort preserves that within each band.
func sortQueue(rows []models.Approval) {
	sort.SliceStable(rows, func(i, j int) bool {
		return queueLess(rows[i], rows[j])
	})
}

func queueLess(a, b models.Approval) bool {
	aPending := a.Status == models.ApprovalPending
	bPending := b.Status == models.ApprovalPending
	if aPending != bPending {
		return aPending
	}
	return priorityRank[a.Priority] < priorityRank[b.Priority]
}

// Get returns one approval by id.
func Get(db *gorm.DB, id string) (*models.Approval, error) {
	var row models.Approval
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("approvals: approval not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("approvals: get: %w", err)
	}
	return &row, nil
}

// QueueCounts summarizes the pending queue for badges.
type QueueCounts struct {
	Total    int64 `json:"total"`
	Urgent   int64 `json:"urgent"`
	Email    int64 `json:"email"`
	Social   int64 `json:"social"`
	Purchase int64 `json:"purchase"`
	Other    int64 `json:"other"`
}

// PendingCount tallies pending approvals overall, urgent, and by type.
func PendingCount(db *gorm.DB) (*QueueCounts, error) {
	var pending []models.Approval
	if err := db.Where("status = ?", models.ApprovalPending).
		Find(&pending).Error; err != nil {
		return nil, fmt.Errorf("approvals: pending count: %w", err)
	}
	counts := QueueCounts{}
	for _, a := range pending {
		counts.Total++
		if a.Priority == models.PriorityUrgent {
			counts.Urgent++
		}
		switch a.Type {
		case models.ApprovalEmailSend:
			counts.Email++
		case models.ApprovalSocialPost:
			counts.Social++
		case models.ApprovalPurchase:
			counts.Purchase++
		default:
			counts.Other++
		}
	}
	return &counts, nil
}

// RequestOpts holds the optional fields for a new approval request.
type RequestOpts struct {
	Content   string
	Metadata  string // opaque JSON
	ExpiresAt int64
	Notifier  notify.Notifier // alerted for urgent requests; delivery is best-effort
}

// Request enqueues a pending approval and logs an approval_requested event.
// Urgent requests additionally ping the notifier when one is configured.
func Request(db *gorm.DB, title, description, approvalType, priority string, opts RequestOpts) (*models.Approval, error) {
	if title == "" || description == "" {
		return nil, fmt.Errorf("approvals: title and description are required")
	}
	if !models.ValidApprovalType(approvalType) {
		return nil, fmt.Errorf("approvals: invalid type %q", approvalType)
	}
	if !models.ValidQueuePriority(priority) {
		return nil, fmt.Errorf("approvals: invalid priority %q", priority)
	}

	id, err := models.NewID("appr")
	if err != nil {
		return nil, err
	}
	row := models.Approval{
		ID:          id,
		Title:       title,
		Description: description,
		Type:        approvalType,
		Content:     opts.Content,
		Metadata:    opts.Metadata,
		Status:      models.ApprovalPending,
		Priority:    priority,
		ExpiresAt:   opts.ExpiresAt,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("approvals: request: %w", err)
	}

	if _, err := activity.Log(db, models.ActivityApprovalRequested, "Approval requested: "+title, activity.LogOpts{
		AgentName: "Q",
		Details:   description,
	}); err != nil {
		return nil, err
	}

	if priority == models.PriorityUrgent && opts.Notifier != nil {
		if err := opts.Notifier.Notify("Urgent approval needed: " + title); err != nil {
			// Delivery failure never blocks the request; note it in the log.
			activity.Log(db, models.ActivityError, "Notification failed", activity.LogOpts{
				Details: err.Error(),
			})
		}
	}
	return &row, nil
}

// Approve marks a pending approval approved.
func Approve(db *gorm.DB, id, feedback string) error {
	return decide(db, id, models.ApprovalApproved, feedback)
}

// Reject marks a pending approval rejected. When the operator leaves
// feedback, a correction lesson is derived from it.
func Reject(db *gorm.DB, id, feedback string) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	if err := decide(db, id, models.ApprovalRejected, feedback); err != nil {
		return err
	}
	if feedback == "" {
		return nil
	}

	category := models.LessonProcess
	if row.Type == models.ApprovalEmailSend {
		category = models.LessonCommunication
	}
	_, err = lessons.Add(db,
		"Rejected: "+row.Title,
		"Approval was rejected with feedback",
		feedback,
		category,
		models.SourceCorrection,
	)
	return err
}

// BatchDecide applies one decision to several approvals. The first error
// stops the batch; earlier decisions stand.
func BatchDecide(db *gorm.DB, ids []string, approve bool, feedback string) (int, error) {
	decided := 0
	for _, id := range ids {
		var err error
		if approve {
			err = Approve(db, id, feedback)
		} else {
			err = Reject(db, id, feedback)
		}
		if err != nil {
			return decided, err
		}
		decided++
	}
	return decided, nil
}

// Exists reports whether a pending approval with this exact title is already
// queued, so callers can avoid duplicate requests.
func Exists(db *gorm.DB, title string) (bool, error) {
	var count int64
	if err := db.Model(&models.Approval{}).
		Where("title = ? AND status = ?", title, models.ApprovalPending).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("approvals: exists: %w", err)
	}
	return count > 0, nil
}

func decide(db *gorm.DB, id, status, feedback string) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	if row.Status != models.ApprovalPending {
		return fmt.Errorf("approvals: approval already decided: %s", id)
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"status":     status,
		"feedback":   feedback,
		"decided_at": time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("approvals: decide: %w", err)
	}
	return nil
}
