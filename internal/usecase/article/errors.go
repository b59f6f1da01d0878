// Package article implements the article use cases: creating, updating,
// unpublishing or deleting articles, and the cached search listing.
package article

import (
	"errors"
	"fmt"

	"articles-api/internal/repository"
)

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the targeted article does not exist.
	// It wraps repository.ErrNotFound.
	ErrArticleNotFound = fmt.Errorf("article not found: %w", repository.ErrNotFound)

	// ErrIncompleteAttributes indicates that Create was called without user_id, title or body.
	ErrIncompleteAttributes = errors.New("article attributes incomplete")
)
