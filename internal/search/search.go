// Package search implements the "jump to anything" fan-out query across
// entity tables. Sources are walked in a fixed priority order and the result
// set is capped, so ordering reflects source priority plus per-source match
// order, not a global relevance ranking.
package search

import (
	"fmt"
	"strings"

	"github.com/qops/missionctl/internal/db"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// DefaultLimit caps the result set when the caller passes none.
const DefaultLimit = 10

// Result is a denormalized, UI-routable summary of one match. The full
// entity is never returned.
type Result struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Href     string `json:"href"`
}

// Response wraps the result list.
type Response struct {
	Results []Result `json:"results"`
}

// Global searches tasks, people, memories, decisions, and drafts for the
// query, in that priority order, stopping once limit results accumulate.
// An empty query (after lowercasing and trimming) returns an empty result
// list without touching the store.
func Global(gdb *gorm.DB, query string, limit int) (*Response, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return &Response{Results: []Result{}}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]Result, 0, limit)

	steps := []func(*gorm.DB, string, int, *[]Result) error{
		searchTasks,
		searchPeople,
		searchMemories,
		searchDecisions,
		searchDrafts,
	}
	for _, step := range steps {
		if len(results) >= limit {
			break
		}
		if err := step(gdb, q, limit, &results); err != nil {
			return nil, err
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return &Response{Results: results}, nil
}

func searchTasks(gdb *gorm.DB, q string, limit int, results *[]Result) error {
	var tasks []models.Task
	if err := gdb.Where("lower(title) LIKE ? ESCAPE '\\' OR lower(description) LIKE ? ESCAPE '\\'",
		like(q), like(q)).Find(&tasks).Error; err != nil {
		return fmt.Errorf("search: tasks: %w", err)
	}
	for _, t := range tasks {
		if len(*results) >= limit {
			break
		}
		*results = append(*results, Result{
			Type:     "task",
			ID:       t.ID,
			Title:    t.Title,
			Subtitle: t.Status,
			Href:     "/tasks",
		})
	}
	return nil
}

func searchPeople(gdb *gorm.DB, q string, limit int, results *[]Result) error {
	if db.SearchIndexReady(gdb, "people_fts") {
		ids, err := db.SearchIndexQuery(gdb, "people_fts", q, limit-len(*results))
		if err != nil {
			return err
		}
		for _, id := range ids {
			var p models.Person
			if err := gdb.Where("id = ?", id).First(&p).Error; err != nil {
				continue
			}
			*results = append(*results, personResult(p))
		}
		return nil
	}

	// Index not ready: substring scan over the same fields, plus company and
	// notes, matching what the index-less path has always covered.
	var people []models.Person
	if err := gdb.Where("lower(name) LIKE ? ESCAPE '\\' OR lower(company) LIKE ? ESCAPE '\\' OR lower(notes) LIKE ? ESCAPE '\\'",
		like(q), like(q), like(q)).Find(&people).Error; err != nil {
		return fmt.Errorf("search: people: %w", err)
	}
	for _, p := range people {
		if len(*results) >= limit {
			break
		}
		*results = append(*results, personResult(p))
	}
	return nil
}

func personResult(p models.Person) Result {
	return Result{
		Type:     "person",
		ID:       p.ID,
		Title:    p.Name,
		Subtitle: p.Company,
		Href:     "/people",
	}
}

func searchMemories(gdb *gorm.DB, q string, limit int, results *[]Result) error {
	if db.SearchIndexReady(gdb, "memories_fts") {
		ids, err := db.SearchIndexQuery(gdb, "memories_fts", q, limit-len(*results))
		if err != nil {
			return err
		}
		for _, id := range ids {
			var m models.Memory
			if err := gdb.Where("id = ?", id).First(&m).Error; err != nil {
				continue
			}
			*results = append(*results, memoryResult(m))
		}
		return nil
	}

	var memories []models.Memory
	if err := gdb.Where("lower(title) LIKE ? ESCAPE '\\' OR lower(content) LIKE ? ESCAPE '\\'",
		like(q), like(q)).Find(&memories).Error; err != nil {
		return fmt.Errorf("search: memories: %w", err)
	}
	for _, m := range memories {
		if len(*results) >= limit {
			break
		}
		*results = append(*results, memoryResult(m))
	}
	return nil
}

func memoryResult(m models.Memory) Result {
	return Result{
		Type:     "memory",
		ID:       m.ID,
		Title:    m.Title,
		Subtitle: m.Category,
		Href:     "/memory",
	}
}

func searchDecisions(gdb *gorm.DB, q string, limit int, results *[]Result) error {
	var decisions []models.Decision
	if err := gdb.Where("lower(title) LIKE ? ESCAPE '\\' OR lower(description) LIKE ? ESCAPE '\\'",
		like(q), like(q)).Find(&decisions).Error; err != nil {
		return fmt.Errorf("search: decisions: %w", err)
	}
	for _, d := range decisions {
		if len(*results) >= limit {
			break
		}
		*results = append(*results, Result{
			Type:     "decision",
			ID:       d.ID,
			Title:    d.Title,
			Subtitle: d.Category,
			Href:     "/decisions",
		})
	}
	return nil
}

func searchDrafts(gdb *gorm.DB, q string, limit int, results *[]Result) error {
	var drafts []models.Draft
	if err := gdb.Where("lower(subject) LIKE ? ESCAPE '\\' OR lower(`to`) LIKE ? ESCAPE '\\' OR lower(body) LIKE ? ESCAPE '\\'",
		like(q), like(q), like(q)).Find(&drafts).Error; err != nil {
		return fmt.Errorf("search: drafts: %w", err)
	}
	for _, d := range drafts {
		if len(*results) >= limit {
			break
		}
		*results = append(*results, Result{
			Type:     "draft",
			ID:       d.ID,
			Title:    d.Subject,
			Subtitle: "To: " + d.To,
			Href:     "/drafts",
		})
	}
	return nil
}

func like(q string) string {
	return db.LikePattern(q)
}
