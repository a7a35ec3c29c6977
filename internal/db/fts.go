package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SearchIndex describes one full-text index: a single searchable column on
// one table, backed by an FTS5 shadow table kept in sync by triggers.
type SearchIndex struct {
	Name   string // fts table name
	Table  string // source table
	Column string // searchable column
}

// SearchIndexes lists every full-text index the store maintains.
var SearchIndexes = []SearchIndex{
	{Name: "memories_fts", Table: "memories", Column: "content"},
	{Name: "people_fts", Table: "people", Column: "name"},
	{Name: "opportunities_fts", Table: "opportunities", Column: "name"},
	{Name: "skills_fts", Table: "skills", Column: "name"},
}

// SetupSearchIndexes creates the FTS5 shadow tables and sync triggers. It is
// best-effort: on drivers or builds without FTS5 the statements fail and the
// index is simply never ready, which callers detect via SearchIndexReady and
// answer with a substring scan instead.
func SetupSearchIndexes(db *gorm.DB) {
	for _, idx := range SearchIndexes {
		stmts := []string{
			fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS %s USING fts5(id UNINDEXED, %s)",
				idx.Name, idx.Column),
			fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %[1]s_ai AFTER INSERT ON %[2]s BEGIN
				INSERT INTO %[1]s(id, %[3]s) VALUES (new.id, new.%[3]s);
			END`, idx.Name, idx.Table, idx.Column),
			fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %[1]s_ad AFTER DELETE ON %[2]s BEGIN
				DELETE FROM %[1]s WHERE id = old.id;
			END`, idx.Name, idx.Table),
			fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %[1]s_au AFTER UPDATE OF %[3]s ON %[2]s BEGIN
				DELETE FROM %[1]s WHERE id = old.id;
				INSERT INTO %[1]s(id, %[3]s) VALUES (new.id, new.%[3]s);
			END`, idx.Name, idx.Table, idx.Column),
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				// FTS5 unavailable; leave this index not-ready.
				break
			}
		}
	}
}

// SearchIndexReady reports whether the named full-text index exists and can
// be queried. This is the explicit capability check consulted before using
// an index, instead of catching query errors.
func SearchIndexReady(db *gorm.DB, name string) bool {
	for _, idx := range SearchIndexes {
		if idx.Name != name {
			continue
		}
		var count int64
		err := db.Raw(
			"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
		).Scan(&count).Error
		return err == nil && count > 0
	}
	return false
}

// SearchIndexQuery returns the ids of rows matching query in the named index,
// best first, capped at limit. Callers must have checked SearchIndexReady.
func SearchIndexQuery(db *gorm.DB, name, query string, limit int) ([]string, error) {
	var ids []string
	err := db.Raw(
		fmt.Sprintf("SELECT id FROM %s WHERE %s MATCH ? ORDER BY rank LIMIT ?", name, name),
		ftsQuote(query), limit,
	).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("db: search %s: %w", name, err)
	}
	return ids, nil
}

// LikePattern builds a case-insensitive substring pattern for the LIKE
// fallback scans. Metacharacters in the query are escaped so they match
// literally; the query must use ESCAPE '\'.
func LikePattern(q string) string {
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + q + "%"
}

// ftsQuote wraps each whitespace token in double quotes so user input is
// matched literally rather than parsed as FTS5 query syntax, with a trailing
// prefix wildcard on the final token.
func ftsQuote(query string) string {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return `""`
	}
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = `"` + strings.ReplaceAll(tok, `"`, `""`) + `"`
	}
	quoted[len(quoted)-1] += "*"
	return strings.Join(quoted, " ")
}
