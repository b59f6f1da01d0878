// Package search holds helpers shared by the SQL search queries.
package search

import (
	"strings"
	"time"
)

// DefaultSearchTimeout bounds a single search query.
const DefaultSearchTimeout = 5 * time.Second

// EscapeChar is the escape character used in LIKE/ILIKE patterns.
const EscapeChar = `\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so that keyword matches literally.
func EscapeLike(keyword string) string {
	return likeEscaper.Replace(keyword)
}

// EscapeILIKE returns a contains-pattern for keyword: %keyword% with the
// wildcards inside keyword escaped. Works for ILIKE and for LIKE ... ESCAPE '\'.
func EscapeILIKE(keyword string) string {
	return "%" + EscapeLike(keyword) + "%"
}

// HasTerm reports whether term filters anything. Blank terms list everything.
func HasTerm(term string) bool {
	return strings.TrimSpace(term) != ""
}
