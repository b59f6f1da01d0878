// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"articles-api/internal/domain/entity"
	"articles-api/internal/pkg/search"
)

// updatableColumns lists the article columns UpdateByID may write.
var updatableColumns = map[string]struct{}{
	entity.FieldUserID:      {},
	entity.FieldTitle:       {},
	entity.FieldBody:        {},
	entity.FieldPublishedAt: {},
}

// ArticleQueryBuilder builds the dynamic parts of article queries.
// It uses PostgreSQL-specific features like ILIKE and numbered placeholders ($1, $2, etc.).
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildSearchWhere builds the WHERE clause of the published listing.
// A blank term only filters on publication.
func (qb *ArticleQueryBuilder) BuildSearchWhere(term, tableAlias string) (clause string, args []any) {
	col := func(name string) string {
		if tableAlias == "" {
			return name
		}
		return tableAlias + "." + name
	}

	conditions := []string{col(entity.FieldPublishedAt) + " IS NOT NULL"}
	if search.HasTerm(term) {
		conditions = append(conditions,
			fmt.Sprintf("(%s ILIKE $1 OR %s ILIKE $1)", col(entity.FieldTitle), col(entity.FieldBody)))
		args = append(args, search.EscapeILIKE(term))
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// BuildUpdateSet builds "col = $n, ..." for the given attributes in column order.
// Placeholders start at $1; the caller appends the id as the last argument.
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
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+1))
		args = append(args, columnValue(attrs[c]))
	}
	return strings.Join(sets, ", "), args, nil
}

// columnValue converts a canonical attribute value into a driver argument.
func columnValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Truncate(time.Second)
	}
	return v
}
