package article_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"articles-api/internal/handler/http/article"
	"articles-api/internal/infra/adapter/persistence/sqlite"
	"articles-api/internal/infra/cache"
	"articles-api/internal/infra/db"
	artUC "articles-api/internal/usecase/article"
)

/* ───────── テスト用サーバ ───────── */

// countingStore counts cache flushes.
type countingStore struct {
	*cache.MemoryStore
	mu      sync.Mutex
	flushes int
}

func (s *countingStore) Flush(ctx context.Context, tag string) error {
	s.mu.Lock()
	s.flushes++
	s.mu.Unlock()
	return s.MemoryStore.Flush(ctx, tag)
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

type server struct {
	*httptest.Server
	store *countingStore
}

// newServer wires the real stack on an in-memory SQLite database and the memory cache.
func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()

	conn, dialect, err := db.Open(ctx, "sqlite://:memory:", db.DefaultConnectionConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	m, err := db.NewMigrator(conn, dialect, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx))
	_, err = db.SeedUsers(ctx, conn)
	require.NoError(t, err)

	store := &countingStore{MemoryStore: cache.NewMemoryStore()}
	svc := artUC.NewService(sqlite.NewArticleRepo(conn), db.NewTransactor(conn, dialect), cache.New(store))

	mux := http.NewServeMux()
	article.Register(mux, svc, sqlite.NewUserRepo(conn))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &server{Server: srv, store: store}
}

func (s *server) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (s *server) create(t *testing.T, body string) int64 {
	t.Helper()
	code, resp := s.do(t, http.MethodPost, "/articles", body)
	require.Equal(t, http.StatusCreated, code, string(resp))
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp, &created))
	require.Positive(t, created.ID)
	return created.ID
}

func (s *server) list(t *testing.T, query string) []map[string]string {
	t.Helper()
	code, resp := s.do(t, http.MethodGet, "/articles"+query, "")
	require.Equal(t, http.StatusOK, code, string(resp))
	var rows []map[string]string
	require.NoError(t, json.Unmarshal(resp, &rows))
	return rows
}

func path(id int64) string {
	return "/articles/" + strconv.FormatInt(id, 10)
}

/* ───────── 1. エンドツーエンド ───────── */

func TestArticlesAPI_EndToEnd(t *testing.T) {
	s := newServer(t)

	// 空の一覧は [] を返す
	code, body := s.do(t, http.MethodGet, "/articles", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))

	id := s.create(t, `{"user_id": 1, "title": "Hello", "body": "World", "published_at": "2024-05-01 10:00:00"}`)
	draft := s.create(t, `{"user_id": "2", "title": "Draft", "body": "wip"}`)

	assert.Equal(t, []map[string]string{{"title": "Hello", "email": "ada.lovelace@example.com"}}, s.list(t, ""))

	/* ── update returns only the changed fields ── */
	code, body = s.do(t, http.MethodPut, path(id), `{"title": "Hello again", "body": "World"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, `{"title": "Hello again"}`, string(body))
	assert.Equal(t, "Hello again", s.list(t, "?search=again")[0]["title"])

	/* ── no-op update ── */
	code, body = s.do(t, http.MethodPut, path(id), `{"published_at": "2024-05-01 10:00:00"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{}`, string(body))

	/* ── publish the draft ── */
	code, body = s.do(t, http.MethodPut, path(draft), `{"published_at": "2024-06-01 08:30:00"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"published_at": "2024-06-01 08:30:00"}`, string(body))
	assert.Equal(t, []map[string]string{
		{"title": "Draft", "email": "alan.turing@example.com"},
		{"title": "Hello again", "email": "ada.lovelace@example.com"},
	}, s.list(t, ""))

	/* ── destroy a published article: unpublished, still updatable ── */
	code, _ = s.do(t, http.MethodDelete, path(id), "")
	require.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, s.list(t, "?search=Hello"))

	code, _ = s.do(t, http.MethodPut, path(id), `{"title": "still here"}`)
	assert.Equal(t, http.StatusOK, code)

	/* ── destroy again: the draft is deleted ── */
	code, _ = s.do(t, http.MethodDelete, path(id), "")
	require.Equal(t, http.StatusNoContent, code)
	code, _ = s.do(t, http.MethodPut, path(id), `{"title": "gone"}`)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodDelete, path(id), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestArticlesAPI_ListIsCachedUntilMutation(t *testing.T) {
	s := newServer(t)
	s.create(t, `{"user_id": 1, "title": "cached", "body": "b", "published_at": "2024-01-01 00:00:00"}`)
	flushes := s.store.count()

	first := s.list(t, "?search=cached")
	require.Len(t, first, 1)
	second := s.list(t, "?search=cached")
	assert.Equal(t, first, second)
	assert.Equal(t, flushes, s.store.count(), "reads never flush")

	id := s.create(t, `{"user_id": 1, "title": "cached too", "body": "b", "published_at": "2024-01-02 00:00:00"}`)
	assert.Equal(t, flushes+1, s.store.count())
	assert.Len(t, s.list(t, "?search=cached"), 2)

	code, _ := s.do(t, http.MethodDelete, path(id), "")
	require.Equal(t, http.StatusNoContent, code)
	assert.Len(t, s.list(t, "?search=cached"), 1)
}

/* ───────── 2. バリデーション ───────── */

func TestCreateHandler_Validation(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name       string
		body       string
		wantFields map[string][]string
	}{
		{
			name: "everything missing",
			body: `{}`,
			wantFields: map[string][]string{
				"user_id": {"The user_id field is required."},
				"title":   {"The title field is required."},
				"body":    {"The body field is required."},
			},
		},
		{
			name: "unknown user",
			body: `{"user_id": 999, "title": "t", "body": "b"}`,
			wantFields: map[string][]string{
				"user_id": {"The selected user_id is invalid."},
			},
		},
		{
			name: "non numeric user",
			body: `{"user_id": "abc", "title": "t", "body": "b"}`,
			wantFields: map[string][]string{
				"user_id": {"The user_id must be a number."},
			},
		},
		{
			name: "title too long",
			body: `{"user_id": 1, "title": "` + strings.Repeat("a", 201) + `", "body": "b"}`,
			wantFields: map[string][]string{
				"title": {"The title must not be greater than 200 characters."},
			},
		},
		{
			name: "body too long",
			body: `{"user_id": 1, "title": "t", "body": "` + strings.Repeat("b", 1001) + `"}`,
			wantFields: map[string][]string{
				"body": {"The body must not be greater than 1000 characters."},
			},
		},
		{
			name: "title not a string",
			body: `{"user_id": 1, "title": 42, "body": "b"}`,
			wantFields: map[string][]string{
				"title": {"The title must be a string."},
			},
		},
		{
			name: "bad timestamp",
			body: `{"user_id": 1, "title": "t", "body": "b", "published_at": "2024-05-01T10:00:00Z"}`,
			wantFields: map[string][]string{
				"published_at": {"The published_at does not match the format Y-m-d H:i:s."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := s.do(t, http.MethodPost, "/articles", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, code, string(body))

			var resp struct {
				Message string              `json:"message"`
				Errors  map[string][]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, tt.wantFields, resp.Errors)
			assert.NotEmpty(t, resp.Message)
		})
	}
	assert.Empty(t, s.list(t, ""), "nothing was stored")
}

func TestCreateHandler_LimitsAreInclusive(t *testing.T) {
	s := newServer(t)
	s.create(t, `{"user_id": 1, "title": "`+strings.Repeat("a", 200)+`", "body": "`+strings.Repeat("b", 1000)+`"}`)
}

func TestCreateHandler_MalformedJSON(t *testing.T) {
	s := newServer(t)

	for _, body := range []string{`{"user_id": 1,`, `[1, 2]`, `"text"`} {
		code, resp := s.do(t, http.MethodPost, "/articles", body)
		assert.Equal(t, http.StatusBadRequest, code, string(resp))
	}
}

func TestUpdateHandler_Validation(t *testing.T) {
	s := newServer(t)
	id := s.create(t, `{"user_id": 1, "title": "t", "body": "b"}`)

	code, body := s.do(t, http.MethodPut, path(id), `{"title": "", "user_id": 999}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.JSONEq(t, `{
		"message": "The title field is required. (and 1 more error)",
		"errors": {
			"title": ["The title field is required."],
			"user_id": ["The selected user_id is invalid."]
		}
	}`, string(body))
}

func TestUpdateHandler_ExplicitNullUnpublishes(t *testing.T) {
	s := newServer(t)
	id := s.create(t, `{"user_id": 1, "title": "t", "body": "b", "published_at": "2024-01-01 00:00:00"}`)

	code, body := s.do(t, http.MethodPut, path(id), `{"published_at": null}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"published_at": null}`, string(body))
	assert.Empty(t, s.list(t, ""))
}

func TestUpdateHandler_NullOnNonNullableFieldIsRejected(t *testing.T) {
	s := newServer(t)
	id := s.create(t, `{"user_id": 1, "title": "t", "body": "b", "published_at": "2024-01-01 00:00:00"}`)

	code, body := s.do(t, http.MethodPut, path(id), `{"title": null}`)
	require.Equal(t, http.StatusUnprocessableEntity, code, string(body))
	assert.JSONEq(t, `{
		"message": "The title must be a string.",
		"errors": {"title": ["The title must be a string."]}
	}`, string(body))

	list := s.list(t, "")
	require.Len(t, list, 1)
	assert.Equal(t, "t", list[0]["title"])
}

/* ───────── 3. ID の扱い ───────── */

func TestArticleRoutes_UnparseableIDIsNotFound(t *testing.T) {
	s := newServer(t)

	for _, id := range []string{"abc", "0", "-1", "1.5", "99999999999999999999"} {
		code, _ := s.do(t, http.MethodPut, "/articles/"+id, `{"title": "x"}`)
		assert.Equal(t, http.StatusNotFound, code, "PUT %s", id)
		code, _ = s.do(t, http.MethodDelete, "/articles/"+id, "")
		assert.Equal(t, http.StatusNotFound, code, "DELETE %s", id)
	}
	assert.Zero(t, s.store.count())
}

func TestArticleRoutes_MethodNotAllowed(t *testing.T) {
	s := newServer(t)

	code, _ := s.do(t, http.MethodPatch, "/articles/1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}
