package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a path segment as a positive int64 article id.
// Ids are opaque to clients, so callers treat ErrInvalidID as "no such resource".
//
//	ParseID("123")  // 123, nil
//	ParseID("abc")  // 0, ErrInvalidID
//	ParseID("-1")   // 0, ErrInvalidID
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] == '+' {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ExtractID removes prefix from path and parses the remainder with ParseID.
//
//	id, err := ExtractID("/articles/123", "/articles/")
//	// Returns: 123, nil
func ExtractID(path, prefix string) (int64, error) {
	if !strings.HasPrefix(path, prefix) {
		return 0, ErrInvalidID
	}
	return ParseID(strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/"))
}
