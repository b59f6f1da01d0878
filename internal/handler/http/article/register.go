package article

import (
	"net/http"

	"articles-api/internal/repository"
	artUC "articles-api/internal/usecase/article"
)

// Register registers all article-related HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc *artUC.Service, users repository.UserRepository) {
	mux.Handle("GET    /articles", ListHandler{Svc: svc})
	mux.Handle("POST   /articles", CreateHandler{Svc: svc, Users: users})
	mux.Handle("PUT    /articles/{id}", UpdateHandler{Svc: svc, Users: users})
	mux.Handle("DELETE /articles/{id}", DeleteHandler{Svc: svc})
}
