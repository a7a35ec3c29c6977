// Package opportunities tracks the sales pipeline. Stage moves carry a fixed
// probability so the weighted forecast stays consistent across sources.
package opportunities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qops/missionctl/internal/db"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// StageProbability is the fixed win probability assigned on a stage move.
var StageProbability = map[string]float64{
	models.StageLead:        10,
	models.StageQualified:   25,
	models.StageProposal:    50,
	models.StageNegotiation: 75,
	models.StageClosedWon:   100,
	models.StageClosedLost:  0,
}

// List returns opportunities newest first, optionally narrowed to one stage.
func List(gdb *gorm.DB, stage string) ([]models.Opportunity, error) {
	q := gdb.Order("created_at DESC")
	if stage != "" {
		if !models.ValidOpportunityStage(stage) {
			return nil, fmt.Errorf("opportunities: invalid stage %q", stage)
		}
		q = q.Where("stage = ?", stage)
	}
	var rows []models.Opportunity
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("opportunities: list: %w", err)
	}
	return rows, nil
}

// Get returns one opportunity by id.
func Get(gdb *gorm.DB, id string) (*models.Opportunity, error) {
	var row models.Opportunity
	err := gdb.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("opportunities: opportunity not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("opportunities: get: %w", err)
	}
	return &row, nil
}

// StageSummary aggregates one pipeline stage.
type StageSummary struct {
	Stage    string  `json:"stage"`
	Count    int64   `json:"count"`
	Value    float64 `json:"value"`
	Weighted float64 `json:"weighted"`
}

// PipelineSummary is the funnel rollup.
type PipelineSummary struct {
	Stages        []StageSummary `json:"stages"`
	ActiveCount   int64          `json:"activeCount"`
	ActiveValue   float64        `json:"activeValue"`
	WeightedValue float64        `json:"weightedValue"`
}

// Summary rolls the pipeline up per stage, in funnel order. Active totals
// exclude closed stages.
func Summary(gdb *gorm.DB) (*PipelineSummary, error) {
	var rows []models.Opportunity
	if err := gdb.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("opportunities: summary: %w", err)
	}

	byStage := map[string]*StageSummary{}
	out := PipelineSummary{}
	for _, stage := range models.OpportunityStages {
		s := &StageSummary{Stage: stage}
		byStage[stage] = s
	}
	for _, o := range rows {
		s, ok := byStage[o.Stage]
		if !ok {
			continue
		}
		weighted := o.Value * o.Probability / 100
		s.Count++
		s.Value += o.Value
		s.Weighted += weighted
		if o.Stage != models.StageClosedWon && o.Stage != models.StageClosedLost {
			out.ActiveCount++
			out.ActiveValue += o.Value
			out.WeightedValue += weighted
		}
	}
	for _, stage := range models.OpportunityStages {
		out.Stages = append(out.Stages, *byStage[stage])
	}
	return &out, nil
}

// CreateOpts holds the optional fields for a new opportunity.
type CreateOpts struct {
	Source        string
	ExternalID    string
	Contact       string
	Notes         string
	ExpectedClose int64
	Probability   *float64 // nil picks the stage default
}

// Create adds a deal to the pipeline.
func Create(gdb *gorm.DB, name, stage string, value float64, owner string, opts CreateOpts) (*models.Opportunity, error) {
	if name == "" || owner == "" {
		return nil, fmt.Errorf("opportunities: name and owner are required")
	}
	if !models.ValidOpportunityStage(stage) {
		return nil, fmt.Errorf("opportunities: invalid stage %q", stage)
	}

	probability := StageProbability[stage]
	if opts.Probability != nil {
		probability = *opts.Probability
	}

	id, err := models.NewID("opp")
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	row := models.Opportunity{
		ID:            id,
		Name:          name,
		Stage:         stage,
		Value:         value,
		Probability:   probability,
		ExpectedClose: opts.ExpectedClose,
		Owner:         owner,
		Source:        opts.Source,
		ExternalID:    opts.ExternalID,
		Contact:       opts.Contact,
		Notes:         opts.Notes,
		LastActivity:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := gdb.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("opportunities: create: %w", err)
	}
	return &row, nil
}

// UpdateStage moves a deal to another stage, adopting that stage's fixed
// probability and stamping last activity.
func UpdateStage(gdb *gorm.DB, id, stage string) error {
	if !models.ValidOpportunityStage(stage) {
		return fmt.Errorf("opportunities: invalid stage %q", stage)
	}
	row, err := Get(gdb, id)
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	err = gdb.Model(row).Updates(map[string]interface{}{
		"stage":         stage,
		"probability":   StageProbability[stage],
		"last_activity": now,
		"updated_at":    now,
	}).Error
	if err != nil {
		return fmt.Errorf("opportunities: update stage: %w", err)
	}
	return nil
}

// UpdateOpts holds the mutable deal fields. Nil means leave unchanged.
type UpdateOpts struct {
	Name          *string
	Value         *float64
	Probability   *float64
	Owner         *string
	Contact       *string
	Notes         *string
	ExpectedClose *int64
}

// Update patches a deal's fields.
func Update(gdb *gorm.DB, id string, opts UpdateOpts) error {
	row, err := Get(gdb, id)
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	changes := map[string]interface{}{"updated_at": now, "last_activity": now}
	if opts.Name != nil {
		changes["name"] = *opts.Name
	}
	if opts.Value != nil {
		changes["value"] = *opts.Value
	}
	if opts.Probability != nil {
		changes["probability"] = *opts.Probability
	}
	if opts.Owner != nil {
		changes["owner"] = *opts.Owner
	}
	if opts.Contact != nil {
		changes["contact"] = *opts.Contact
	}
	if opts.Notes != nil {
		changes["notes"] = *opts.Notes
	}
	if opts.ExpectedClose != nil {
		changes["expected_close"] = *opts.ExpectedClose
	}
	if err := gdb.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("opportunities: update: %w", err)
	}
	return nil
}

// UpsertRecord is one inbound row for BulkUpsert.
type UpsertRecord struct {
	ExternalID string
	Name       string
	Stage      string
	Value      float64
	Owner      string
	Contact    string
	Source     string
}

// UpsertResult reports what BulkUpsert did.
type UpsertResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// BulkUpsert syncs deals from an external CRM export, matching on external
// id. Unknown ids are created; known ids have name, stage, value, and
// contact refreshed.
func BulkUpsert(gdb *gorm.DB, records []UpsertRecord) (*UpsertResult, error) {
	result := UpsertResult{}
	for _, rec := range records {
		if rec.ExternalID == "" {
			return &result, fmt.Errorf("opportunities: bulk upsert: external id is required")
		}
		if !models.ValidOpportunityStage(rec.Stage) {
			return &result, fmt.Errorf("opportunities: bulk upsert: invalid stage %q", rec.Stage)
		}

		var existing models.Opportunity
		err := gdb.Where("external_id = ?", rec.ExternalID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			_, err := Create(gdb, rec.Name, rec.Stage, rec.Value, rec.Owner, CreateOpts{
				ExternalID: rec.ExternalID,
				Contact:    rec.Contact,
				Source:     rec.Source,
			})
			if err != nil {
				return &result, err
			}
			result.Created++
		case err != nil:
			return &result, fmt.Errorf("opportunities: bulk upsert: %w", err)
		default:
			now := time.Now().UnixMilli()
			err := gdb.Model(&existing).Updates(map[string]interface{}{
				"name":          rec.Name,
				"stage":         rec.Stage,
				"probability":   StageProbability[rec.Stage],
				"value":         rec.Value,
				"contact":       rec.Contact,
				"last_activity": now,
				"updated_at":    now,
			}).Error
			if err != nil {
				return &result, fmt.Errorf("opportunities: bulk upsert: %w", err)
			}
			result.Updated++
		}
	}
	return &result, nil
}

// Remove deletes a deal.
func Remove(gdb *gorm.DB, id string) error {
	if _, err := Get(gdb, id); err != nil {
		return err
	}
	if err := gdb.Where("id = ?", id).Delete(&models.Opportunity{}).Error; err != nil {
		return fmt.Errorf("opportunities: remove: %w", err)
	}
	return nil
}

// Search matches deals by name, preferring the FTS index and falling back to
// a substring scan.
func Search(gdb *gorm.DB, query string, limit int) ([]models.Opportunity, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Opportunity{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	if db.SearchIndexReady(gdb, "opportunities_fts") {
		ids, err := db.SearchIndexQuery(gdb, "opportunities_fts", q, limit)
		if err != nil {
			return nil, err
		}
		rows := make([]models.Opportunity, 0, len(ids))
		for _, id := range ids {
			var o models.Opportunity
			if err := gdb.Where("id = ?", id).First(&o).Error; err != nil {
				continue
			}
			rows = append(rows, o)
		}
		return rows, nil
	}

	var rows []models.Opportunity
	if err := gdb.Where("lower(name) LIKE ? ESCAPE '\\'", db.LikePattern(q)).
		Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("opportunities: search: %w", err)
	}
	return rows, nil
}
