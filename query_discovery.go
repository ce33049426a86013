package docscan

import (
	"fmt"
	"strings"

	"github.com/jward/docscan/internal/store"
)

// Pagination controls offset+limit paging on list/search results.
type Pagination struct {
	Offset int // skip this many results (default 0)
	Limit  int // max results to return (default 50, max 500)
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// normalize returns a Pagination with defaults applied and bounds enforced.
func (p Pagination) normalize() Pagination {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// SortField specifies how to order results.
type SortField string

const (
	SortByName SortField = "name"
	SortByFile SortField = "file"
	SortByRule SortField = "rule"
	SortByLine SortField = "line"
)

// SortOrder specifies ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort controls result ordering.
type Sort struct {
	Field SortField
	Order SortOrder
}

// PagedResult wraps a page of results with total count for pagination.
type PagedResult[T any] struct {
	Items      []T
	TotalCount int // total matching results (before pagination)
}

// ClassFilter narrows class listings. Zero values match everything.
type ClassFilter struct {
	ComponentsOnly bool
	Rule           Rule   // RuleNone matches any rule
	Language       string // exact match on the file language
	PathPrefix     string // restrict to files under this directory
}

// normalizePathPrefix ensures a path prefix ends with "/" for correct LIKE matching.
// "src/components" -> "src/components/" to prevent matching "src/components_old/".
func normalizePathPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	if !strings.HasSuffix(prefix, "/") {
		return prefix + "/"
	}
	return prefix
}

// escapeLike escapes SQL LIKE special characters (% and _) with backslash.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// classSortColumns returns the ORDER BY expression for class queries.
// Position breaks ties so paging is stable.
func classSortColumns(field SortField, dir string) string {
	switch field {
	case SortByFile:
		return fmt.Sprintf("f.path %s, c.start_line, c.start_col", dir)
	case SortByRule:
		return fmt.Sprintf("c.rule %s, f.path, c.start_line, c.start_col", dir)
	case SortByLine:
		return fmt.Sprintf("c.start_line %s, c.start_col %s, f.path", dir, dir)
	default:
		return fmt.Sprintf("c.name %s, f.path, c.start_line, c.start_col", dir)
	}
}

// sortDirection returns "ASC" or "DESC".
func sortDirection(order SortOrder) string {
	if order == Desc {
		return "DESC"
	}
	return "ASC"
}

// classWhere builds the WHERE clause shared by class listings.
func classWhere(pattern string, filter ClassFilter) (string, []any) {
	var where []string
	var args []any

	// Escape literal % and _ first, then convert * to %.
	if pattern != "" && pattern != "*" {
		likePattern := escapeLike(pattern)
		likePattern = strings.ReplaceAll(likePattern, "*", "%")
		where = append(where, "c.name LIKE ? ESCAPE '\\'")
		args = append(args, likePattern)
	}
	if filter.ComponentsOnly {
		where = append(where, "c.is_component = 1")
	}
	if filter.Rule != RuleNone {
		where = append(where, "c.is_component = 1 AND c.rule = ?")
		args = append(args, filter.Rule.String())
	}
	if filter.Language != "" {
		where = append(where, "f.language = ?")
		args = append(args, filter.Language)
	}
	if prefix := normalizePathPrefix(filter.PathPrefix); prefix != "" {
		where = append(where, "f.path LIKE ? ESCAPE '\\'")
		args = append(args, escapeLike(prefix)+"%")
	}

	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// SearchClasses performs glob-style search on class names. '*' is the
// wildcard; an empty pattern or "*" matches every class, anonymous ones
// included.
func (q *QueryBuilder) SearchClasses(pattern string, filter ClassFilter, sort Sort, page Pagination) (*PagedResult[*ClassInfo], error) {
	page = page.normalize()
	whereClause, args := classWhere(pattern, filter)

	countSQL := "SELECT COUNT(*) FROM classes c JOIN files f ON f.id = c.file_id" + whereClause
	var totalCount int
	if err := q.store.DB().QueryRow(countSQL, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("search classes: count: %w", err)
	}

	dataSQL := fmt.Sprintf("%s%s ORDER BY %s LIMIT ? OFFSET ?",
		classInfoQuery, whereClause, classSortColumns(sort.Field, sortDirection(sort.Order)))
	dataArgs := append(append([]any{}, args...), page.Limit, page.Offset)

	rows, err := q.store.DB().Query(dataSQL, dataArgs...)
	if err != nil {
		return nil, fmt.Errorf("search classes: query: %w", err)
	}
	items, err := scanClassInfo(rows)
	if err != nil {
		return nil, fmt.Errorf("search classes: scan: %w", err)
	}
	if items == nil {
		items = []*ClassInfo{}
	}
	return &PagedResult[*ClassInfo]{Items: items, TotalCount: totalCount}, nil
}

// ListFiles pages through indexed files ordered by path, optionally
// restricted to a directory and a language.
func (q *QueryBuilder) ListFiles(pathPrefix, language string, order SortOrder, page Pagination) (*PagedResult[*File], error) {
	page = page.normalize()

	var where []string
	var args []any
	if prefix := normalizePathPrefix(pathPrefix); prefix != "" {
		where = append(where, "path LIKE ? ESCAPE '\\'")
		args = append(args, escapeLike(prefix)+"%")
	}
	if language != "" {
		where = append(where, "language = ?")
		args = append(args, language)
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var totalCount int
	if err := q.store.DB().QueryRow("SELECT COUNT(*) FROM files"+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("list files: count: %w", err)
	}

	dataSQL := fmt.Sprintf(
		"SELECT %s FROM files%s ORDER BY path %s LIMIT ? OFFSET ?",
		store.FileColumns, whereClause, sortDirection(order),
	)
	dataArgs := append(append([]any{}, args...), page.Limit, page.Offset)

	rows, err := q.store.DB().Query(dataSQL, dataArgs...)
	if err != nil {
		return nil, fmt.Errorf("list files: query: %w", err)
	}
	defer rows.Close()

	items := []*File{}
	for rows.Next() {
		f, err := store.ScanFileRow(rows)
		if err != nil {
			return nil, fmt.Errorf("list files: scan: %w", err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: rows: %w", err)
	}
	return &PagedResult[*File]{Items: items, TotalCount: totalCount}, nil
}
