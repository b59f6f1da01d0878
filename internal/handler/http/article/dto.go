// Package article provides HTTP handlers for article-related endpoints.
// It includes handlers for listing, creating, updating, and deleting articles.
package article

import (
	"time"

	"articles-api/internal/domain/entity"
)

// SummaryDTO is one row of the published listing.
type SummaryDTO struct {
	Title string `json:"title" example:"Go 1.23 リリース"`
	Email string `json:"email" example:"ada.lovelace@example.com"`
}

// CreatedDTO is returned by POST /articles.
type CreatedDTO struct {
	ID int64 `json:"id" example:"1"`
}

func toSummaryDTOs(rows []entity.ArticleSummary) []SummaryDTO {
	out := make([]SummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, SummaryDTO(r))
	}
	return out
}

// toChangesDTO renders a diff for the wire: published_at uses TimestampLayout,
// a cleared published_at stays null.
func toChangesDTO(diff map[string]any) map[string]any {
	out := make(map[string]any, len(diff))
	for k, v := range diff {
		if t, ok := v.(time.Time); ok {
			out[k] = entity.FormatTimestamp(t)
			continue
		}
		out[k] = v
	}
	return out
}
