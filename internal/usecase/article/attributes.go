package article

import (
	"fmt"
	"time"

	"articles-api/internal/domain/entity"
)

// Attributes is the validated input of a create or update request.
// Every field is either present or absent; published_at can also be present
// and null, which unpublishes the article.
//
//	attrs := article.NewAttributes().WithTitle("Hello").WithoutPublication()
type Attributes struct {
	userID      int64
	title       string
	body        string
	publishedAt *time.Time

	hasUserID      bool
	hasTitle       bool
	hasBody        bool
	hasPublishedAt bool
}

// NewAttributes returns an empty attribute set.
func NewAttributes() Attributes {
	return Attributes{}
}

func (a Attributes) WithUserID(id int64) Attributes {
	a.userID, a.hasUserID = id, true
	return a
}

func (a Attributes) WithTitle(title string) Attributes {
	a.title, a.hasTitle = title, true
	return a
}

func (a Attributes) WithBody(body string) Attributes {
	a.body, a.hasBody = body, true
	return a
}

// WithPublishedAt sets published_at. It is stored in UTC with second precision.
func (a Attributes) WithPublishedAt(t time.Time) Attributes {
	a.publishedAt, a.hasPublishedAt = entity.NormalizeTime(&t), true
	return a
}

// WithoutPublication sets published_at to null.
func (a Attributes) WithoutPublication() Attributes {
	a.publishedAt, a.hasPublishedAt = nil, true
	return a
}

func (a Attributes) UserID() (int64, bool) { return a.userID, a.hasUserID }
func (a Attributes) Title() (string, bool) { return a.title, a.hasTitle }
func (a Attributes) Body() (string, bool)  { return a.body, a.hasBody }

// PublishedAt returns the timestamp (nil when null) and whether the field is present.
func (a Attributes) PublishedAt() (*time.Time, bool) { return a.publishedAt, a.hasPublishedAt }

// IsEmpty reports whether no field is present.
func (a Attributes) IsEmpty() bool {
	return !a.hasUserID && !a.hasTitle && !a.hasBody && !a.hasPublishedAt
}

// ToMap exports the present fields by column name, using the same value forms
// as entity.Article.ToMap.
func (a Attributes) ToMap() map[string]any {
	out := make(map[string]any, 4)
	if a.hasUserID {
		out[entity.FieldUserID] = a.userID
	}
	if a.hasTitle {
		out[entity.FieldTitle] = a.title
	}
	if a.hasBody {
		out[entity.FieldBody] = a.body
	}
	if a.hasPublishedAt {
		if a.publishedAt == nil {
			out[entity.FieldPublishedAt] = nil
		} else {
			out[entity.FieldPublishedAt] = *a.publishedAt
		}
	}
	return out
}

// requireComplete checks the fields Create cannot do without.
func (a Attributes) requireComplete() error {
	var missing []string
	if !a.hasUserID {
		missing = append(missing, entity.FieldUserID)
	}
	if !a.hasTitle {
		missing = append(missing, entity.FieldTitle)
	}
	if !a.hasBody {
		missing = append(missing, entity.FieldBody)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrIncompleteAttributes, missing)
	}
	return nil
}
