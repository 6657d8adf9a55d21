package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"placement/internal/common"
)

// ErrorCollector counts error responses by code.
type ErrorCollector interface {
	IncErrorCode(code string)
}

var errorCollector ErrorCollector

func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details any               `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("response encode failed", slog.String("error", err.Error()))
	}
}

func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = common.NewError(common.CodeInternal, "internal error", err)
	}
	status := StatusFor(appErr.Code)
	if status >= http.StatusInternalServerError {
		slog.Default().Error("request failed", slog.String("code", string(appErr.Code)), slog.String("error", err.Error()))
	}
	if errorCollector != nil {
		errorCollector.IncErrorCode(string(appErr.Code))
	}
	message := appErr.Message
	if appErr.Code == common.CodeInternal {
		message = "internal error"
	}
	JSON(w, status, errorBody{Error: errorPayload{
		Code:    appErr.Code,
		Message: message,
		Fields:  appErr.Fields,
		Details: appErr.Details,
	}})
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeValidation, common.CodeInvalidStatus:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeIneligible:
		return http.StatusUnprocessableEntity
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	case common.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
