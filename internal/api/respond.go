package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/matzehuels/crashviz/pkg/errors"
)

// ErrorResponse is the error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps err to a status. Internal errors are masked.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	resp := ErrorResponse{
		Code:    string(apperrors.GetCode(err)),
		Message: apperrors.UserMessage(err),
	}
	if status == http.StatusInternalServerError {
		resp = ErrorResponse{Code: string(apperrors.ErrCodeInternal), Message: "internal server error"}
	}
	writeJSON(w, status, resp)
}

func badRequest(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, format, args...)
}
