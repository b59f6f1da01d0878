package article

import (
	"net/http"

	"articles-api/internal/handler/http/respond"
	artUC "articles-api/internal/usecase/article"
)

type ListHandler struct{ Svc *artUC.Service }

// ServeHTTP 公開記事一覧
// @Summary      公開記事一覧
// @Description  公開済みの記事をタイトルと著者メールで返します。search を指定するとタイトル・本文で絞り込みます（60秒キャッシュ）
// @Tags         articles
// @Produce      json
// @Param        search query string false "検索語"
// @Success      200 {array} SummaryDTO "公開記事一覧"
// @Failure      429 {string} string "Too many requests - rate limit exceeded"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /articles [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var term *string
	if q := r.URL.Query(); q.Has("search") {
		s := q.Get("search")
		term = &s
	}

	rows, err := h.Svc.GetBySearchTerm(r.Context(), term)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toSummaryDTOs(rows))
}
