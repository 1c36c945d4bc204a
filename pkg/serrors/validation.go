package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/go-i18n/v2/i18n"
)

// ValidationErrors maps struct field names to their validation failures.
type ValidationErrors map[string]*BaseError

func NewFieldRequiredError(field, fieldLocaleKey string) *BaseError {
	e := NewError(CodeValidation, fmt.Sprintf("%s is required", field), "Errors.FieldRequired")
	return e.WithTemplateData(map[string]string{
		"Field":          field,
		"FieldLocaleKey": fieldLocaleKey,
	})
}

func newFieldInvalidError(field, fieldLocaleKey string) *BaseError {
	e := NewError(CodeValidation, fmt.Sprintf("%s is invalid", field), "Errors.FieldInvalid")
	return e.WithTemplateData(map[string]string{
		"Field":          field,
		"FieldLocaleKey": fieldLocaleKey,
	})
}

// ProcessValidatorErrors converts validator failures into ValidationErrors.
// getFieldLocaleKey maps a struct field name to the locale key of its label;
// an empty key leaves the raw field name in the rendered message.
func ProcessValidatorErrors(
	errs validator.ValidationErrors,
	getFieldLocaleKey func(field string) string,
) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		localeKey := getFieldLocaleKey(field)
		switch fe.Tag() {
		case "required":
			out[field] = NewFieldRequiredError(field, localeKey)
		default:
			out[field] = newFieldInvalidError(field, localeKey)
		}
	}
	return out
}

// LocalizeValidationErrors renders each field error, localizing the field label
// first when a locale key is present.
func LocalizeValidationErrors(errs ValidationErrors, l *i18n.Localizer) map[string]string {
	out := make(map[string]string, len(errs))
	for field, be := range errs {
		localized := *be
		if key := be.TemplateData["FieldLocaleKey"]; key != "" && l != nil {
			if label, err := l.Localize(&i18n.LocalizeConfig{MessageID: key}); err == nil && label != "" {
				data := make(map[string]string, len(be.TemplateData))
				for k, v := range be.TemplateData {
					data[k] = v
				}
				data["Field"] = label
				localized = *be.WithTemplateData(data)
			}
		}
		out[field] = localized.Localize(l)
	}
	return out
}
