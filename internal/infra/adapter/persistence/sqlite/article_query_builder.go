// Package sqlite provides SQLite implementations of repository interfaces.
package sqlite

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"articles-api/internal/domain/entity"
	"articles-api/internal/pkg/search"
)

var updatableColumns = map[string]struct{}{
	entity.FieldUserID:      {},
	entity.FieldTitle:       {},
	entity.FieldBody:        {},
	entity.FieldPublishedAt: {},
}

// ArticleQueryBuilder builds the dynamic parts of article queries.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildSearchWhere builds the WHERE clause of the published listing.
// SQLite LIKE is case-insensitive for ASCII, matching ILIKE on Postgres.
func (qb *ArticleQueryBuilder) BuildSearchWhere(term string) (clause string, args []any) {
	conditions := []string{"a.published_at IS NOT NULL"}
	if search.HasTerm(term) {
		pattern := search.EscapeILIKE(term)
		conditions = append(conditions, `(a.title LIKE ? ESCAPE '\' OR a.body LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// BuildUpdateSet builds "col = ?, ..." for the given attributes in column order.
func (qb *ArticleQueryBuilder) BuildUpdateSet(attrs map[string]any) (clause string, args []any, err error) {
	cols := make([]string, 0, len(attrs))
	for c := range attrs {
		if _, ok := updatableColumns[c]; !ok {
			return "", nil, fmt.Errorf("BuildUpdateSet: unknown column %q", c)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		sets = append(sets, c+" = ?")
		args = append(args, columnValue(attrs[c]))
	}
	return strings.Join(sets, ", "), args, nil
}

// columnValue stores timestamps as fixed-width UTC text so that they sort correctly.
func columnValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(entity.TimestampLayout)
	}
	return v
}
