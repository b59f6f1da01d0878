package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"articles-api/internal/domain/entity"
	"articles-api/internal/infra/db"
	"articles-api/internal/observability/metrics"
	"articles-api/internal/pkg/search"
	"articles-api/internal/repository"
)

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(conn *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           conn,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

func (repo *ArticleRepo) Create(ctx context.Context, attrs map[string]any) (int64, error) {
	const query = `
INSERT INTO articles (user_id, title, body, published_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	defer observe("insert", time.Now())

	var id int64
	err := db.Conn(ctx, repo.db).QueryRowContext(ctx, query,
		attrs[entity.FieldUserID], attrs[entity.FieldTitle], attrs[entity.FieldBody],
		columnValue(attrs[entity.FieldPublishedAt]),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
	}
	return id, nil
}

func (repo *ArticleRepo) Find(ctx context.Context, id int64) (*entity.Article, error) {
	query := `
SELECT id, user_id, title, body, published_at
FROM articles
WHERE id = $1`
	// 更新・削除前の読み込みは行ロックを取る
	if db.InTx(ctx) {
		query += "\nFOR UPDATE"
	}
	defer observe("select", time.Now())

	var (
		article     entity.Article
		publishedAt sql.NullTime
	)
	err := db.Conn(ctx, repo.db).QueryRowContext(ctx, query, id).
		Scan(&article.ID, &article.UserID, &article.Title, &article.Body, &publishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}
	if publishedAt.Valid {
		article.PublishedAt = entity.NormalizeTime(&publishedAt.Time)
	}
	return &article, nil
}

func (repo *ArticleRepo) FindOrFail(ctx context.Context, id int64) (*entity.Article, error) {
	article, err := repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, fmt.Errorf("FindOrFail: article %d: %w", id, repository.ErrNotFound)
	}
	return article, nil
}

func (repo *ArticleRepo) UpdateByID(ctx context.Context, id int64, attrs map[string]any) (int64, error) {
	if len(attrs) == 0 {
		return 0, nil
	}
	set, args, err := repo.queryBuilder.BuildUpdateSet(attrs)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("UPDATE articles SET %s WHERE id = $%d", set, len(args)+1)
	defer observe("update", time.Now())

	res, err := db.Conn(ctx, repo.db).ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return 0, fmt.Errorf("UpdateByID: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("UpdateByID: RowsAffected: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM articles WHERE id = $1`
	defer observe("delete", time.Now())

	res, err := db.Conn(ctx, repo.db).ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("DeleteByID: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByID: RowsAffected: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) SearchPublished(ctx context.Context, term string) ([]entity.ArticleSummary, error) {
	// Apply search timeout to prevent long-running queries
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	where, args := repo.queryBuilder.BuildSearchWhere(term, "a")
	query := strings.Join([]string{
		"SELECT a.title, u.email",
		"FROM articles a",
		"INNER JOIN users u ON u.id = a.user_id",
		where,
		"ORDER BY a.published_at DESC, a.id DESC",
	}, "\n")
	defer observe("search", time.Now())

	rows, err := db.Conn(ctx, repo.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchPublished: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]entity.ArticleSummary, 0, 16)
	for rows.Next() {
		var s entity.ArticleSummary
		if err := rows.Scan(&s.Title, &s.Email); err != nil {
			return nil, fmt.Errorf("SearchPublished: Scan: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SearchPublished: rows.Err: %w", err)
	}
	return result, nil
}

func observe(op string, start time.Time) {
	metrics.RecordDBQuery(op, time.Since(start))
}
