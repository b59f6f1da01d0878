package http

import (
	"errors"
	"net/http"

	"articles-api/internal/handler/http/respond"
)

// MaxURILength bounds path plus query. Search terms travel in the query string.
const MaxURILength = 2048

var errURITooLong = errors.New("URI too long")

// InputValidation rejects requests whose path and query exceed MaxURILength
// with 414 before any handler runs.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path)+len(r.URL.RawQuery) > MaxURILength {
				respond.Error(w, http.StatusRequestURITooLong, errURITooLong)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
