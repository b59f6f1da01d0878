package repository

import (
	"context"

	"articles-api/internal/domain/entity"
)

// UserRepository gives read access to the users referenced by articles.
type UserRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Get(ctx context.Context, id int64) (*entity.User, error)
}
