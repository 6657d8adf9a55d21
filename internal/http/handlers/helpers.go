package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"placement/internal/common"
	"placement/internal/http/middleware"
	"placement/internal/security"
)

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return common.NewValidationError("invalid request", map[string]string{"body": "request body is required"})
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return common.NewValidationError("request body too large", map[string]string{"body": "request body too large"})
		case errors.Is(err, io.EOF):
			return common.NewValidationError("invalid request", map[string]string{"body": "request body is required"})
		default:
			return common.NewValidationError("invalid json", map[string]string{"body": err.Error()})
		}
	}
	return nil
}

// idFromPath returns the path segment at position n counted from the end,
// so "/jobs/{id}" is 1 and "/applications/{id}/status" is 2.
func idFromPath(r *http.Request, n int) (common.ID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if n <= 0 || n > len(parts) {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "id is required"})
	}
	return common.ParseID(parts[len(parts)-n])
}

func principal(r *http.Request) (security.Principal, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return security.Principal{}, errUnauthorized()
	}
	return p, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "unauthorized", nil)
}

func queryBool(r *http.Request, key string) (bool, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, common.NewValidationError("invalid query", map[string]string{key: "must be true or false"})
	}
	return parsed, nil
}
