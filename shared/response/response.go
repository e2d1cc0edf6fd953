// Package response writes the JSON envelope used by every HTTP endpoint:
//
//	{"success": true, "message": "...", "code": "SUCCESS", "data": {...}}
//	{"success": false, "message": "...", "code": "...", "errors": [...]}
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/account-api/shared/apperror"
	"github.com/vasapolrittideah/account-api/shared/validator"
)

// Body is the response envelope.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body Body) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Success writes a successful envelope carrying data.
func Success(w http.ResponseWriter, status int, message string, data any) {
	if message == "" {
		message = "SUCCESS"
	}
	JSON(w, status, Body{
		Success: true,
		Message: message,
		Code:    apperror.CodeSuccess,
		Data:    data,
	})
}

// WriteError maps err to its status and code, logs it with the request
// logger and writes the failure envelope. Unclassified errors never leak
// their text to the caller.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := hlog.FromRequest(r)

	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn().Err(err).Msg("request validation failed")
		JSON(w, http.StatusBadRequest, Body{
			Message: validationErr.Error(),
			Code:    apperror.CodeValidationFailed,
			Errors:  validationErr.Fields,
		})
		return
	}

	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(err)
	}

	event := logger.Warn()
	if appErr.Kind == apperror.KindInternal {
		event = logger.Error()
	}
	event.Err(err).Str("code", appErr.Code).Str("kind", appErr.Kind.String()).Msg("request failed")

	JSON(w, appErr.Kind.HTTPStatus(), Body{
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
