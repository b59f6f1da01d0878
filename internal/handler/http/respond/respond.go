// Package respond provides utilities for sending HTTP responses in JSON format.
// It includes error handling with sanitization to prevent leaking sensitive information.
package respond

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"articles-api/internal/domain/entity"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// SafeError sanitizes error messages before returning them to users.
// Internal errors (e.g., database errors) are returned as "internal server error",
// with details logged for debugging. Safe errors (validation errors) are returned as-is.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	// ユーザーに安全に返せるエラーかどうかを判定
	msg := err.Error()

	// バリデーションエラーなど、ユーザーに返してOKなエラー
	safeErrors := []string{
		"required",
		"invalid",
		"not found",
		"must be",
		"too large",
	}

	isSafe := false
	lowerMsg := strings.ToLower(msg)
	for _, safe := range safeErrors {
		if strings.Contains(lowerMsg, safe) {
			isSafe = true
			break
		}
	}

	// 500エラーは常に内部エラーとして扱う
	if code >= 500 {
		isSafe = false
	}

	if isSafe {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	// 内部エラーはログに出力し、汎用メッセージを返す
	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// ValidationBody is the 422 response shape.
type ValidationBody struct {
	Message string              `json:"message" example:"The title field is required."`
	Errors  map[string][]string `json:"errors"`
}

// ValidationFailed writes errs as a 422 response. The message is the first
// failure, followed by a count of the rest.
func ValidationFailed(w http.ResponseWriter, errs entity.ValidationErrors) {
	JSON(w, http.StatusUnprocessableEntity, NewValidationBody(errs))
}

// NewValidationBody builds the 422 body for errs.
func NewValidationBody(errs entity.ValidationErrors) ValidationBody {
	body := ValidationBody{Message: "The given data was invalid.", Errors: map[string][]string(errs)}
	if body.Errors == nil {
		body.Errors = map[string][]string{}
	}

	fields := errs.Fields()
	total := 0
	for _, f := range fields {
		total += len(errs[f])
	}
	if total == 0 {
		return body
	}

	body.Message = errs[fields[0]][0]
	switch rest := total - 1; {
	case rest == 1:
		body.Message += " (and 1 more error)"
	case rest > 1:
		body.Message += fmt.Sprintf(" (and %d more errors)", rest)
	}
	return body
}
