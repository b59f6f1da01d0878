package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"articles-api/internal/domain/entity"
	"articles-api/internal/infra/db"
	"articles-api/internal/repository"
)

// UserRepo implements the UserRepository interface using SQLite.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a new SQLite-backed user repository.
func NewUserRepo(conn *sql.DB) repository.UserRepository {
	return &UserRepo{db: conn}
}

func (repo *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`
	var exists bool
	if err := db.Conn(ctx, repo.db).QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("Exists: QueryRowContext: %w", err)
	}
	return exists, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	const query = `SELECT id, name, email FROM users WHERE id = ?`
	var u entity.User
	err := db.Conn(ctx, repo.db).QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Get: user %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return &u, nil
}
