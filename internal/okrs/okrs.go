// Package okrs tracks quarterly objectives and key results. Status is
// derived from measured progress, never set directly.
package okrs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// Derived-status thresholds over mean key-result progress (percent).
const (
	achievedAt = 100
	atRiskAt   = 70
	behindAt   = 50
)

// ListOpts filters List. Zero values mean no filter.
type ListOpts struct {
	Quarter string
	Status  string
	Owner   string
}

// List returns OKRs newest first.
func List(db *gorm.DB, opts ListOpts) ([]models.OKR, error) {
	q := db.Order("created_at DESC")
	if opts.Quarter != "" {
		q = q.Where("quarter = ?", opts.Quarter)
	}
	if opts.Status != "" {
		if !models.ValidOKRStatus(opts.Status) {
			return nil, fmt.Errorf("okrs: invalid status %q", opts.Status)
		}
		q = q.Where("status = ?", opts.Status)
	}
	if opts.Owner != "" {
		q = q.Where("owner = ?", opts.Owner)
	}
	var rows []models.OKR
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("okrs: list: %w", err)
	}
	return rows, nil
}

// Quarter formats the quarter label for a given time, e.g. "Q3 2026".
func Quarter(at time.Time) string {
	return fmt.Sprintf("Q%d %d", (int(at.Month())-1)/3+1, at.Year())
}

// CurrentQuarter returns the OKRs for the quarter containing now.
func CurrentQuarter(db *gorm.DB) ([]models.OKR, error) {
	return List(db, ListOpts{Quarter: Quarter(time.Now())})
}

// Get returns one OKR by id.
func Get(db *gorm.DB, id string) (*models.OKR, error) {
	var row models.OKR
	err := db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("okrs: okr not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("okrs: get: %w", err)
	}
	return &row, nil
}

// KeyResults decodes an OKR's stored key-result list.
func KeyResults(okr *models.OKR) ([]models.KeyResult, error) {
	var out []models.KeyResult
	if err := json.Unmarshal([]byte(okr.KeyResults), &out); err != nil {
		return nil, fmt.Errorf("okrs: decode key results: %w", err)
	}
	return out, nil
}

// Progress returns the mean completion percent across key results. A key
// result with a zero target contributes zero.
func Progress(results []models.KeyResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, kr := range results {
		if kr.Target > 0 {
			sum += kr.Current / kr.Target * 100
		}
	}
	return sum / float64(len(results))
}

// deriveStatus maps mean progress onto the status enum.
func deriveStatus(progress float64) string {
	switch {
	case progress >= achievedAt:
		return models.OKRAchieved
	case progress < behindAt:
		return models.OKRBehind
	case progress < atRiskAt:
		return models.OKRAtRisk
	default:
		return models.OKROnTrack
	}
}

// Create registers an objective with its key results.
func Create(db *gorm.DB, objective, quarter, owner, notes string, results []models.KeyResult) (*models.OKR, error) {
	if objective == "" || quarter == "" || owner == "" {
		return nil, fmt.Errorf("okrs: objective, quarter, and owner are required")
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("okrs: at least one key result is required")
	}
	encoded, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("okrs: encode key results: %w", err)
	}

	id, err := models.NewID("okr")
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	row := models.OKR{
		ID:         id,
		Objective:  objective,
		KeyResults: string(encoded),
		Quarter:    quarter,
		Status:     deriveStatus(Progress(results)),
		Owner:      owner,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("okrs: create: %w", err)
	}
	return &row, nil
}

// UpdateProgress sets the current value of one key result, addressed by its
// index, and rederives the status.
func UpdateProgress(db *gorm.DB, id string, index int, current float64) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	results, err := KeyResults(row)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(results) {
		return fmt.Errorf("okrs: key result index %d out of range [0,%d)", index, len(results))
	}
	results[index].Current = current

	encoded, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("okrs: encode key results: %w", err)
	}
	err = db.Model(row).Updates(map[string]interface{}{
		"key_results": string(encoded),
		"status":      deriveStatus(Progress(results)),
		"updated_at":  time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return fmt.Errorf("okrs: update progress: %w", err)
	}
	return nil
}

// UpdateOpts holds the mutable OKR fields. Nil means leave unchanged.
type UpdateOpts struct {
	Objective  *string
	Notes      *string
	KeyResults []models.KeyResult // replaces the whole list and rederives status
}

// Update patches an OKR.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	row, err := Get(db, id)
	if err != nil {
		return err
	}
	changes := map[string]interface{}{"updated_at": time.Now().UnixMilli()}
	if opts.Objective != nil {
		changes["objective"] = *opts.Objective
	}
	if opts.Notes != nil {
		changes["notes"] = *opts.Notes
	}
	if opts.KeyResults != nil {
		encoded, err := json.Marshal(opts.KeyResults)
		if err != nil {
			return fmt.Errorf("okrs: encode key results: %w", err)
		}
		changes["key_results"] = string(encoded)
		changes["status"] = deriveStatus(Progress(opts.KeyResults))
	}
	if err := db.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("okrs: update: %w", err)
	}
	return nil
}

// Remove deletes an OKR.
func Remove(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.OKR{}).Error; err != nil {
		return fmt.Errorf("okrs: remove: %w", err)
	}
	return nil
}

// QuarterSummary counts OKRs by derived status for one quarter.
type QuarterSummary struct {
	Quarter  string `json:"quarter"`
	Total    int64  `json:"total"`
	OnTrack  int64  `json:"onTrack"`
	AtRisk   int64  `json:"atRisk"`
	Behind   int64  `json:"behind"`
	Achieved int64  `json:"achieved"`
}

// Summary tallies one quarter's OKRs by status.
func Summary(db *gorm.DB, quarter string) (*QuarterSummary, error) {
	rows, err := List(db, ListOpts{Quarter: quarter})
	if err != nil {
		return nil, err
	}
	s := QuarterSummary{Quarter: quarter}
	for _, o := range rows {
		s.Total++
		switch o.Status {
		case models.OKROnTrack:
			s.OnTrack++
		case models.OKRAtRisk:
			s.AtRisk++
		case models.OKRBehind:
			s.Behind++
		case models.OKRAchieved:
			s.Achieved++
		}
	}
	return &s, nil
}
