package serrors

import (
	"errors"

	"github.com/iota-uz/go-i18n/v2/i18n"
)

// Canonical domain error codes. Services return these so callers can branch on
// the failure kind without string-matching messages. Module-specific codes are
// fine too; these are the ones shared across module boundaries.
const (
	CodeNotFound               = "NOT_FOUND"
	CodePermissionDenied       = "PERMISSION_DENIED"
	CodeConflict               = "CONFLICT"
	CodeTimeConflict           = "TIME_CONFLICT"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeValidation             = "VALIDATION_ERROR"
)

type BaseError struct {
	Code         string
	Message      string
	LocaleKey    string
	TemplateData map[string]string
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func NewNotFound(message, localeKey string) *BaseError {
	return NewError(CodeNotFound, message, localeKey)
}

func NewPermissionDenied(message, localeKey string) *BaseError {
	return NewError(CodePermissionDenied, message, localeKey)
}

func NewConflict(message, localeKey string) *BaseError {
	return NewError(CodeConflict, message, localeKey)
}

func NewTimeConflict(message, localeKey string) *BaseError {
	return NewError(CodeTimeConflict, message, localeKey)
}

func NewInvalidStateTransition(message, localeKey string) *BaseError {
	return NewError(CodeInvalidStateTransition, message, localeKey)
}

func NewValidationError(message, localeKey string) *BaseError {
	return NewError(CodeValidation, message, localeKey)
}

func (e *BaseError) Error() string {
	return e.Message
}

// WithTemplateData returns a copy carrying template data for localization.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	clone := *e
	clone.TemplateData = data
	return &clone
}

// Localize renders the error for the user. Falls back to the raw message when
// no locale key is set or the bundle has no translation.
func (e *BaseError) Localize(l *i18n.Localizer) string {
	if l == nil || e.LocaleKey == "" {
		return e.Message
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    e.LocaleKey,
		TemplateData: e.TemplateData,
	})
	if err != nil || msg == "" {
		return e.Message
	}
	return msg
}

// CodeOf extracts the domain code from err, or "" when err carries none.
// Infrastructure errors (wrapped pgx failures and the like) have no code, which
// is how callers tell them apart from the domain taxonomy.
func CodeOf(err error) string {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// HasCode reports whether err is a domain error with the given code.
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
