// Package people is the contact book: family, team, clients, and everyone
// else the assistant deals with on the operator's behalf.
package people

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/qops/missionctl/internal/db"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// List returns people sorted by name, optionally filtered by relationship.
func List(gdb *gorm.DB, relationship string) ([]models.Person, error) {
	q := gdb.Order("name ASC")
	if relationship != "" {
		if !models.ValidRelationship(relationship) {
			return nil, fmt.Errorf("people: invalid relationship %q", relationship)
		}
		q = q.Where("relationship = ?", relationship)
	}
	var rows []models.Person
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("people: list: %w", err)
	}
	return rows, nil
}

// Get returns one person by id.
func Get(gdb *gorm.DB, id string) (*models.Person, error) {
	var row models.Person
	err := gdb.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("people: person not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("people: get: %w", err)
	}
	return &row, nil
}

// Search matches people against the query, preferring the name FTS index and
// falling back to a substring scan over name, company, and notes.
func Search(gdb *gorm.DB, query string, limit int) ([]models.Person, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Person{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	if db.SearchIndexReady(gdb, "people_fts") {
		ids, err := db.SearchIndexQuery(gdb, "people_fts", q, limit)
		if err != nil {
			return nil, err
		}
		rows := make([]models.Person, 0, len(ids))
		for _, id := range ids {
			var p models.Person
			if err := gdb.Where("id = ?", id).First(&p).Error; err != nil {
				continue
			}
			rows = append(rows, p)
		}
		return rows, nil
	}

	var rows []models.Person
	if err := gdb.Where("lower(name) LIKE ? OR lower(company) LIKE ? OR lower(notes) LIKE ?",
		"%"+q+"%", "%"+q+"%", "%"+q+"%").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("people: search: %w", err)
	}
	return rows, nil
}

// CreateOpts holds the optional fields for a new person.
type CreateOpts struct {
	Company  string
	Email    string
	Phone    string
	Notes    string
	Birthday int64
	Avatar   string
}

// Create adds a person to the book.
func Create(gdb *gorm.DB, name, relationship string, opts CreateOpts) (*models.Person, error) {
	if name == "" {
		return nil, fmt.Errorf("people: name is required")
	}
	if !models.ValidRelationship(relationship) {
		return nil, fmt.Errorf("people: invalid relationship %q", relationship)
	}

	id, err := models.NewID("person")
	if err != nil {
		return nil, err
	}
	row := models.Person{
		ID:           id,
		Name:         name,
		Relationship: relationship,
		Company:      opts.Company,
		Email:        opts.Email,
		Phone:        opts.Phone,
		Notes:        opts.Notes,
		Birthday:     opts.Birthday,
		Avatar:       opts.Avatar,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := gdb.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("people: create: %w", err)
	}
	return &row, nil
}

// UpdateOpts holds the mutable person fields. Nil means leave unchanged.
type UpdateOpts struct {
	Name         *string
	Relationship *string
	Company      *string
	Email        *string
	Phone        *string
	Notes        *string
	Birthday     *int64
	Avatar       *string
}

// Update patches a person's fields.
func Update(gdb *gorm.DB, id string, opts UpdateOpts) error {
	row, err := Get(gdb, id)
	if err != nil {
		return err
	}
	changes := map[string]interface{}{}
	if opts.Name != nil {
		if *opts.Name == "" {
			return fmt.Errorf("people: name is required")
		}
		changes["name"] = *opts.Name
	}
	if opts.Relationship != nil {
		if !models.ValidRelationship(*opts.Relationship) {
			return fmt.Errorf("people: invalid relationship %q", *opts.Relationship)
		}
		changes["relationship"] = *opts.Relationship
	}
	if opts.Company != nil {
		changes["company"] = *opts.Company
	}
	if opts.Email != nil {
		changes["email"] = *opts.Email
	}
	if opts.Phone != nil {
		changes["phone"] = *opts.Phone
	}
	if opts.Notes != nil {
		changes["notes"] = *opts.Notes
	}
	if opts.Birthday != nil {
		changes["birthday"] = *opts.Birthday
	}
	if opts.Avatar != nil {
		changes["avatar"] = *opts.Avatar
	}
	if len(changes) == 0 {
		return nil
	}
	if err := gdb.Model(row).Updates(changes).Error; err != nil {
		return fmt.Errorf("people: update: %w", err)
	}
	return nil
}

// RecordContact stamps the last-contact time to now.
func RecordContact(gdb *gorm.DB, id string) error {
	row, err := Get(gdb, id)
	if err != nil {
		return err
	}
	if err := gdb.Model(row).Update("last_contact", time.Now().UnixMilli()).Error; err != nil {
		return fmt.Errorf("people: record contact: %w", err)
	}
	return nil
}

// Remove deletes a person.
func Remove(gdb *gorm.DB, id string) error {
	if _, err := Get(gdb, id); err != nil {
		return err
	}
	if err := gdb.Where("id = ?", id).Delete(&models.Person{}).Error; err != nil {
		return fmt.Errorf("people: remove: %w", err)
	}
	return nil
}

// UpcomingBirthday pairs a person with their next birthday occurrence.
type UpcomingBirthday struct {
	Person models.Person `json:"person"`
	Next   time.Time     `json:"next"`
	InDays int           `json:"inDays"`
}

// UpcomingBirthdays returns people whose birthday falls within the next
// days, soonest first. The stored birthday's year is ignored; the next
// occurrence is computed from today, rolling into next year when this
// year's date has passed.
func UpcomingBirthdays(gdb *gorm.DB, days int) ([]UpcomingBirthday, error) {
	return upcomingBirthdaysAt(gdb, days, time.Now())
}

// upcomingBirthdaysAt is the clock-injected form used by tests.
func upcomingBirthdaysAt(gdb *gorm.DB, days int, now time.Time) ([]UpcomingBirthday, error) {
	if days <= 0 {
		days = 30
	}
	var rows []models.Person
	if err := gdb.Where("birthday > 0").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("people: upcoming birthdays: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var out []UpcomingBirthday
	for _, p := range rows {
		bday := time.UnixMilli(p.Birthday).UTC()
		next := time.Date(today.Year(), bday.Month(), bday.Day(), 0, 0, 0, 0, time.UTC)
		if next.Before(today) {
			next = time.Date(today.Year()+1, bday.Month(), bday.Day(), 0, 0, 0, 0, time.UTC)
		}
		inDays := int(next.Sub(today).Hours() / 24)
		if inDays <= days {
			out = append(out, UpcomingBirthday{Person: p, Next: next, InDays: inDays})
		}
	}

	// Soonest first.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InDays < out[j].InDays
	})
	return out, nil
}
