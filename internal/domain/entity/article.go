// Package entity defines the core domain entities and validation logic for the application.
// It contains the Article aggregate and the User record it references, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// TimestampLayout is the wire and comparison format for published_at values.
const TimestampLayout = "2006-01-02 15:04:05"

// Column names shared by the aggregate, the change detector and the repositories.
const (
	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldTitle       = "title"
	FieldBody        = "body"
	FieldPublishedAt = "published_at"
)

// Article represents an article written by a user.
// A nil PublishedAt means the article is a draft.
type Article struct {
	ID          int64
	UserID      int64
	Title       string
	Body        string
	PublishedAt *time.Time
}

// NewArticle builds an Article from its persisted columns.
// The published timestamp is normalised so that comparisons are stable across stores.
func NewArticle(id, userID int64, title, body string, publishedAt *time.Time) Article {
	return Article{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Body:        body,
		PublishedAt: NormalizeTime(publishedAt),
	}
}

// IsPublished reports whether the article has a publication timestamp.
func (a Article) IsPublished() bool {
	return a.PublishedAt != nil
}

// ToMap exports every canonical field by column name.
// published_at is an untyped nil for drafts and a time.Time otherwise.
func (a Article) ToMap() map[string]any {
	var publishedAt any
	if a.PublishedAt != nil {
		publishedAt = *a.PublishedAt
	}
	return map[string]any{
		FieldID:          a.ID,
		FieldUserID:      a.UserID,
		FieldTitle:       a.Title,
		FieldBody:        a.Body,
		FieldPublishedAt: publishedAt,
	}
}

// ArticleSummary is the listing projection returned by search: the article title
// and the email of its author.
type ArticleSummary struct {
	Title string `json:"title"`
	Email string `json:"email"`
}

// NormalizeTime converts t to UTC with second precision. Nil stays nil.
func NormalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := t.UTC().Truncate(time.Second)
	return &n
}
