package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"articles-api/internal/domain/entity"
	"articles-api/internal/infra/db"
	"articles-api/internal/repository"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(conn *sql.DB) repository.UserRepository {
	return &UserRepo{db: conn}
}

func (repo *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	var exists bool
	if err := db.Conn(ctx, repo.db).QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("Exists: %w", err)
	}
	return exists, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	const query = `SELECT id, name, email FROM users WHERE id = $1`
	var u entity.User
	err := db.Conn(ctx, repo.db).QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("Get: user %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &u, nil
}
