package article

import (
	"errors"
	"net/http"

	"articles-api/internal/domain/entity"
	"articles-api/internal/handler/http/respond"
	"articles-api/internal/repository"
	artUC "articles-api/internal/usecase/article"
)

type CreateHandler struct {
	Svc   *artUC.Service
	Users repository.UserRepository
}

// ServeHTTP 記事作成
// @Summary      記事作成
// @Description  新しい記事を作成し、生成された ID を返します
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        article body ArticleRequest true "記事情報"
// @Success      201 {object} CreatedDTO "Created"
// @Failure      400 {string} string "Bad request - invalid JSON"
// @Failure      422 {object} respond.ValidationBody "Validation failed"
// @Failure      429 {string} string "Too many requests - rate limit exceeded"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /articles [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	attrs, err := decodeAttributes(r.Context(), r, h.Users, true)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	id, err := h.Svc.Create(r.Context(), attrs)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusCreated, CreatedDTO{ID: id})
}

// writeDecodeError maps a decodeAttributes failure onto 422, 400 or 500.
func writeDecodeError(w http.ResponseWriter, err error) {
	var verrs entity.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respond.ValidationFailed(w, verrs)
	case errors.Is(err, errInvalidBody):
		respond.SafeError(w, http.StatusBadRequest, err)
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.SafeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
