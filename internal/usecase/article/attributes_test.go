package article

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"articles-api/internal/domain/entity"
)

func TestAttributes_ToMap(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	at := time.Date(2024, 5, 1, 19, 0, 0, 500, jst)

	tests := []struct {
		name  string
		attrs Attributes
		want  map[string]any
	}{
		{name: "empty", attrs: NewAttributes(), want: map[string]any{}},
		{
			name:  "all fields",
			attrs: NewAttributes().WithUserID(3).WithTitle("t").WithBody("b").WithPublishedAt(at),
			want: map[string]any{
				entity.FieldUserID:      int64(3),
				entity.FieldTitle:       "t",
				entity.FieldBody:        "b",
				entity.FieldPublishedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "explicit null",
			attrs: NewAttributes().WithoutPublication(),
			want:  map[string]any{entity.FieldPublishedAt: nil},
		},
		{
			name:  "empty strings are present",
			attrs: NewAttributes().WithTitle(""),
			want:  map[string]any{entity.FieldTitle: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.attrs.ToMap()
			require.Len(t, got, len(tt.want))
			for k, v := range tt.want {
				if tv, ok := v.(time.Time); ok {
					assert.True(t, tv.Equal(got[k].(time.Time)), k)
					assert.Equal(t, time.UTC, got[k].(time.Time).Location())
					continue
				}
				assert.Equal(t, v, got[k], k)
			}
		})
	}
}

func TestAttributes_Immutable(t *testing.T) {
	base := NewAttributes().WithTitle("a")
	derived := base.WithTitle("b")

	title, _ := base.Title()
	assert.Equal(t, "a", title)
	title, _ = derived.Title()
	assert.Equal(t, "b", title)
}

func TestAttributes_PublishedAtPresence(t *testing.T) {
	at, present := NewAttributes().PublishedAt()
	assert.Nil(t, at)
	assert.False(t, present)

	at, present = NewAttributes().WithoutPublication().PublishedAt()
	assert.Nil(t, at)
	assert.True(t, present)

	assert.True(t, NewAttributes().IsEmpty())
	assert.False(t, NewAttributes().WithoutPublication().IsEmpty())
}

func TestAttributes_requireComplete(t *testing.T) {
	err := NewAttributes().WithTitle("t").requireComplete()
	require.ErrorIs(t, err, ErrIncompleteAttributes)
	assert.Contains(t, err.Error(), "user_id")
	assert.Contains(t, err.Error(), "body")
	assert.NotContains(t, err.Error(), "title")

	assert.NoError(t, NewAttributes().WithUserID(1).WithTitle("t").WithBody("b").requireComplete())
}
