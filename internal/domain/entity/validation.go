package entity

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Length limits for article text columns.
const (
	MaxTitleLength = 200
	MaxBodyLength  = 1000
)

// ValidateTitle checks that title is non-empty and within MaxTitleLength characters.
func ValidateTitle(title string) error {
	return validateText(FieldTitle, title, MaxTitleLength)
}

// ValidateBody checks that body is non-empty and within MaxBodyLength characters.
func ValidateBody(body string) error {
	return validateText(FieldBody, body, MaxBodyLength)
}

func validateText(field, value string, limit int) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "The " + field + " field is required."}
	}
	// 文字数はルーン単位で数える
	if utf8.RuneCountInString(value) > limit {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("The %s must not be greater than %d characters.", field, limit),
		}
	}
	return nil
}

// ValidateUserID checks that id is a positive identifier.
func ValidateUserID(id int64) error {
	if id <= 0 {
		return &ValidationError{Field: FieldUserID, Message: "The user_id must be a number."}
	}
	return nil
}

// ParseTimestamp parses s using TimestampLayout and returns the time in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   FieldPublishedAt,
			Message: "The published_at does not match the format Y-m-d H:i:s.",
		}
	}
	return t, nil
}

// FormatTimestamp renders t using TimestampLayout in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
