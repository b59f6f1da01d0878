package article

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"articles-api/internal/domain/entity"
	"articles-api/internal/repository"
	artUC "articles-api/internal/usecase/article"
)

// errInvalidBody is returned for bodies that are not a JSON object.
var errInvalidBody = errors.New("invalid request body: expected a JSON object")

// ArticleRequest documents the accepted body of POST and PUT /articles.
// user_id may also be sent as a numeric string.
type ArticleRequest struct {
	UserID      int64   `json:"user_id" example:"1"`
	Title       string  `json:"title" example:"Hello"`
	Body        string  `json:"body" example:"First post"`
	PublishedAt *string `json:"published_at" example:"2024-05-01 10:00:00"`
}

// decodeAttributes reads and validates the request body.
// On create every field but published_at is required; on update every field is
// optional, but only published_at may be sent as null. Validation failures
// come back as entity.ValidationErrors.
func decodeAttributes(ctx context.Context, r *http.Request, users repository.UserRepository, create bool) (artUC.Attributes, error) {
	attrs := artUC.NewAttributes()

	raw, err := readObject(r.Body)
	if err != nil {
		return attrs, err
	}

	errs := entity.ValidationErrors{}

	/* ── user_id ── */
	if v, ok := present(raw, entity.FieldUserID); ok {
		id, err := parseUserID(v)
		if err != nil {
			errs.AddError(entity.FieldUserID, err)
		} else {
			exists, err := users.Exists(ctx, id)
			if err != nil {
				return attrs, fmt.Errorf("check user: %w", err)
			}
			if !exists {
				errs.Add(entity.FieldUserID, "The selected user_id is invalid.")
			} else {
				attrs = attrs.WithUserID(id)
			}
		}
	} else if create {
		errs.Add(entity.FieldUserID, "The user_id field is required.")
	} else if sentNull(raw, entity.FieldUserID) {
		errs.Add(entity.FieldUserID, "The user_id must be a number.")
	}

	/* ── title / body ── */
	for _, f := range []struct {
		name     string
		validate func(string) error
		set      func(artUC.Attributes, string) artUC.Attributes
	}{
		{entity.FieldTitle, entity.ValidateTitle, artUC.Attributes.WithTitle},
		{entity.FieldBody, entity.ValidateBody, artUC.Attributes.WithBody},
	} {
		v, ok := present(raw, f.name)
		if !ok {
			switch {
			case create:
				errs.Add(f.name, "The "+f.name+" field is required.")
			case sentNull(raw, f.name):
				errs.Add(f.name, "The "+f.name+" must be a string.")
			}
			continue
		}
		s, err := parseString(f.name, v)
		if err == nil {
			err = f.validate(s)
		}
		if err != nil {
			errs.AddError(f.name, err)
			continue
		}
		attrs = f.set(attrs, s)
	}

	/* ── published_at (nullable) ── */
	if v, ok := raw[entity.FieldPublishedAt]; ok {
		if isNull(v) {
			attrs = attrs.WithoutPublication()
		} else if s, err := parseString(entity.FieldPublishedAt, v); err != nil {
			errs.AddError(entity.FieldPublishedAt, err)
		} else if t, err := entity.ParseTimestamp(s); err != nil {
			errs.AddError(entity.FieldPublishedAt, err)
		} else {
			attrs = attrs.WithPublishedAt(t)
		}
	}

	if err := errs.Err(); err != nil {
		return attrs, err
	}
	return attrs, nil
}

func readObject(body io.Reader) (map[string]json.RawMessage, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body too large: %w", err)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, errInvalidBody
	}
	return raw, nil
}

// present reports whether field was sent with a non-null value.
func present(raw map[string]json.RawMessage, field string) (json.RawMessage, bool) {
	v, ok := raw[field]
	if !ok || isNull(v) {
		return nil, false
	}
	return v, true
}

// sentNull reports whether field was sent as an explicit null.
func sentNull(raw map[string]json.RawMessage, field string) bool {
	v, ok := raw[field]
	return ok && isNull(v)
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func parseString(field string, v json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", &entity.ValidationError{Field: field, Message: "The " + field + " must be a string."}
	}
	return s, nil
}

// parseUserID accepts a JSON integer or a string holding one.
func parseUserID(v json.RawMessage) (int64, error) {
	notNumber := &entity.ValidationError{Field: entity.FieldUserID, Message: "The user_id must be a number."}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		if err := dec.Decode(&n); err != nil {
			return 0, notNumber
		}
		s = n.String()
	}

	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, notNumber
	}
	if err := entity.ValidateUserID(id); err != nil {
		return 0, err
	}
	return id, nil
}
