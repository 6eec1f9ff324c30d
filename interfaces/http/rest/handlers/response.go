package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "schemaviz-backend/pkg/errors"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   bool                   `json:"error"`
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError renders err. Application errors keep their type, message and
// status; anything else is reported as an opaque internal error.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		logger.Error("Unhandled error", zap.Error(err))
		appErr = apperrors.NewInternalError("Internal server error")
	}

	status := apperrors.HTTPStatus(appErr)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}

	respondJSON(w, logger, status, ErrorResponse{
		Error:   true,
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func respondValidation(w http.ResponseWriter, logger *zap.Logger, message string) {
	respondError(w, logger, apperrors.NewValidationError(message))
}
