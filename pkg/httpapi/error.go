package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/aisleworks/aisle/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// StatusFor maps a domain error to an HTTP status. Errors without a
// taxonomy code are treated as internal failures.
func StatusFor(err error) int {
	switch serrors.CodeOf(err) {
	case serrors.CodeNotFound:
		return http.StatusNotFound
	case serrors.CodePermissionDenied:
		return http.StatusForbidden
	case serrors.CodeConflict, serrors.CodeTimeConflict, serrors.CodeInvalidStateTransition:
		return http.StatusConflict
	case serrors.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
