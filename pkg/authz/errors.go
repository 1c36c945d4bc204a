package authz

import (
	"fmt"

	"github.com/aisleworks/aisle/pkg/serrors"
)

const errorLocaleKey = "Authorization.PermissionDenied"

// forbiddenError builds a standardized error for denied policies.
func forbiddenError(req Request) *serrors.BaseError {
	return serrors.NewPermissionDenied(
		"permission denied",
		errorLocaleKey,
	).WithTemplateData(map[string]string{
		"object":  req.Object,
		"action":  req.Action,
		"domain":  req.Domain,
		"subject": req.Subject,
	})
}

// IsForbidden reports whether err is a permission-denied decision.
func IsForbidden(err error) bool {
	return serrors.HasCode(err, serrors.CodePermissionDenied)
}

// configError standardizes configuration validation errors.
func configError(msg string, args ...any) error {
	return fmt.Errorf("authz: "+msg, args...)
}
