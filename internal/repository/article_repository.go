package repository

import (
	"context"

	"articles-api/internal/domain/entity"
)

// ArticleRepository is the record store for articles.
// Implementations take part in the ambient transaction carried by ctx, if any
// (see db.Transactor).
type ArticleRepository interface {
	// Create inserts a row from the given column values and returns the generated ID.
	Create(ctx context.Context, attrs map[string]any) (int64, error)
	// Find returns the article with the given ID, or (nil, nil) when it does not exist.
	Find(ctx context.Context, id int64) (*entity.Article, error)
	// FindOrFail is Find that returns ErrNotFound instead of a nil article.
	// Inside a transaction the row is locked for update where the store supports it.
	FindOrFail(ctx context.Context, id int64) (*entity.Article, error)
	// UpdateByID sets only the given columns and returns the number of affected rows.
	UpdateByID(ctx context.Context, id int64, attrs map[string]any) (int64, error)
	// DeleteByID removes the row and returns the number of affected rows.
	DeleteByID(ctx context.Context, id int64) (int64, error)
	// SearchPublished returns published articles joined with their author's email,
	// newest first. A blank term disables the title/body filter.
	SearchPublished(ctx context.Context, term string) ([]entity.ArticleSummary, error)
}
