// Package service holds the business rules between the HTTP handlers and the
// repository:
//
//	Handler (HTTP) → Service (validation, rules) → Repository (storage)
//
// Services never see HTTP types. Per-user operations take a
// *repository.Scoped, so a service cannot touch another user's records even
// by mistake.
package service

import (
	"strings"
	"time"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/mood"
)

// Input limits, in bytes.
const (
	MaxMoodLength     = 64
	MaxTextLength     = 10000
	MaxTitleLength    = 200
	MaxUsernameLength = 50
	MaxPasswordLength = 72
)

// clock returns the current time. Tests replace it.
type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// today is the UTC calendar day of now.
func today(now clock) string {
	return now().UTC().Format(mood.DateLayout)
}

// required trims value and rejects it when empty or longer than max.
func required(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.ValidationFailed(field, field+" is required")
	}
	if len(value) > max {
		return "", apperror.ValidationFailed(field, field+" is too long")
	}
	return value, nil
}

// optional trims value and rejects it only when too long.
func optional(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) > max {
		return "", apperror.ValidationFailed(field, field+" is too long")
	}
	return value, nil
}

// validDate checks a YYYY-MM-DD calendar day.
func validDate(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.ValidationFailed(field, field+" is required")
	}
	if _, err := time.Parse(mood.DateLayout, value); err != nil {
		return "", apperror.ValidationFailed(field, field+" must be YYYY-MM-DD")
	}
	return value, nil
}
