package article

import (
	"errors"
	"net/http"

	"articles-api/internal/handler/http/pathutil"
	"articles-api/internal/handler/http/respond"
	"articles-api/internal/repository"
	artUC "articles-api/internal/usecase/article"
)

type UpdateHandler struct {
	Svc   *artUC.Service
	Users repository.UserRepository
}

// ServeHTTP 記事更新
// @Summary      記事更新
// @Description  送信されたフィールドのうち変更があったものだけを保存し、その差分を返します。published_at に null を送ると非公開になります
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id path int true "記事ID"
// @Param        article body ArticleRequest true "更新する記事情報（すべて任意）"
// @Success      200 {object} object "変更されたフィールド（変更なしの場合は {}）"
// @Failure      400 {string} string "Bad request - invalid JSON"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      422 {object} respond.ValidationBody "Validation failed"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /articles/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		// ID はクライアントにとって不透明なので 404 を返す
		respond.SafeError(w, http.StatusNotFound, artUC.ErrArticleNotFound)
		return
	}

	attrs, err := decodeAttributes(r.Context(), r, h.Users, false)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	diff, err := h.Svc.Update(r.Context(), id, attrs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toChangesDTO(diff))
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, artUC.ErrArticleNotFound) {
		respond.SafeError(w, http.StatusNotFound, err)
		return
	}
	respond.SafeError(w, http.StatusInternalServerError, err)
}
