package docscan

import (
	"database/sql"
	"fmt"

	"github.com/jward/docscan/internal/store"
)

// QueryBuilder provides read access to the scan index.
type QueryBuilder struct {
	store *store.Store
}

// NewQueryBuilder creates a QueryBuilder over an existing Store.
func NewQueryBuilder(s *Store) *QueryBuilder {
	return &QueryBuilder{store: s}
}

// Location represents a source code position range.
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// ClassInfo is an indexed class with its file path.
type ClassInfo struct {
	Location
	Name        string
	Kind        string
	Superclass  string
	IsComponent bool
	Rule        string
}

// LanguageSummary holds per-language counts.
type LanguageSummary struct {
	Files      int
	Classes    int
	Components int
}

// Summary aggregates the index.
type Summary struct {
	Files      int
	Classes    int
	Components int
	ByLanguage map[string]LanguageSummary
	ByRule     map[string]int
}

const classInfoQuery = `SELECT f.path, c.start_line, c.start_col, c.end_line, c.end_col,
	c.name, c.kind, c.superclass, c.is_component, c.rule
	FROM classes c JOIN files f ON f.id = c.file_id`

func scanClassInfo(rows *sql.Rows) ([]*ClassInfo, error) {
	defer rows.Close()
	var out []*ClassInfo
	for rows.Next() {
		ci := &ClassInfo{}
		if err := rows.Scan(
			&ci.File, &ci.StartLine, &ci.StartCol, &ci.EndLine, &ci.EndCol,
			&ci.Name, &ci.Kind, &ci.Superclass, &ci.IsComponent, &ci.Rule,
		); err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

// Components returns every component class ordered by file and position.
func (q *QueryBuilder) Components() ([]*ClassInfo, error) {
	rows, err := q.store.DB().Query(classInfoQuery +
		" WHERE c.is_component = 1 ORDER BY f.path, c.start_line, c.start_col")
	if err != nil {
		return nil, fmt.Errorf("components: %w", err)
	}
	out, err := scanClassInfo(rows)
	if err != nil {
		return nil, fmt.Errorf("components: %w", err)
	}
	return out, nil
}

// ComponentsByRule returns the components classified by rule.
func (q *QueryBuilder) ComponentsByRule(rule Rule) ([]*ClassInfo, error) {
	if rule == RuleNone {
		return nil, nil
	}
	rows, err := q.store.DB().Query(classInfoQuery+
		" WHERE c.is_component = 1 AND c.rule = ? ORDER BY f.path, c.start_line, c.start_col", rule.String())
	if err != nil {
		return nil, fmt.Errorf("components by rule: %w", err)
	}
	out, err := scanClassInfo(rows)
	if err != nil {
		return nil, fmt.Errorf("components by rule: %w", err)
	}
	return out, nil
}

// Classes returns all classes of the file at path in source order. It
// returns nil when the file is not indexed.
func (q *QueryBuilder) Classes(path string) ([]*ClassInfo, error) {
	rows, err := q.store.DB().Query(classInfoQuery+
		" WHERE f.path = ? ORDER BY c.start_line, c.start_col", path)
	if err != nil {
		return nil, fmt.Errorf("classes: %w", err)
	}
	out, err := scanClassInfo(rows)
	if err != nil {
		return nil, fmt.Errorf("classes: %w", err)
	}
	return out, nil
}

// Files returns every indexed file ordered by path.
func (q *QueryBuilder) Files() ([]*File, error) {
	files, err := q.store.Files()
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	return files, nil
}

// Dependents returns the paths of files importing the file at path through
// a relative import.
func (q *QueryBuilder) Dependents(path string) ([]string, error) {
	f, err := q.store.FileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("dependents: lookup file: %w", err)
	}
	if f == nil {
		return nil, nil
	}
	ids, err := q.store.FilesImportingKeys([]string{f.ModuleKey})
	if err != nil {
		return nil, fmt.Errorf("dependents: %w", err)
	}
	paths, err := q.store.PathsByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("dependents: %w", err)
	}
	return paths, nil
}

// Summary counts files, classes and components per language and components
// per rule.
func (q *QueryBuilder) Summary() (*Summary, error) {
	s := &Summary{
		ByLanguage: make(map[string]LanguageSummary),
		ByRule:     make(map[string]int),
	}

	rows, err := q.store.DB().Query(`SELECT f.language, COUNT(DISTINCT f.id), COUNT(c.id),
		COALESCE(SUM(c.is_component), 0)
		FROM files f LEFT JOIN classes c ON c.file_id = f.id
		GROUP BY f.language`)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			lang string
			ls   LanguageSummary
		)
		if err := rows.Scan(&lang, &ls.Files, &ls.Classes, &ls.Components); err != nil {
			return nil, fmt.Errorf("summary: scan: %w", err)
		}
		s.ByLanguage[lang] = ls
		s.Files += ls.Files
		s.Classes += ls.Classes
		s.Components += ls.Components
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary: rows: %w", err)
	}

	ruleRows, err := q.store.DB().Query(
		"SELECT rule, COUNT(*) FROM classes WHERE is_component = 1 GROUP BY rule")
	if err != nil {
		return nil, fmt.Errorf("summary: rules: %w", err)
	}
	defer ruleRows.Close()
	for ruleRows.Next() {
		var (
			rule string
			n    int
		)
		if err := ruleRows.Scan(&rule, &n); err != nil {
			return nil, fmt.Errorf("summary: scan rule: %w", err)
		}
		s.ByRule[rule] = n
	}
	if err := ruleRows.Err(); err != nil {
		return nil, fmt.Errorf("summary: rule rows: %w", err)
	}
	return s, nil
}
