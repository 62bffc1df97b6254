package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/planwise/engine/internal/api/middleware"
	"github.com/planwise/engine/internal/api/types"
	"github.com/planwise/engine/internal/api/validators"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.APIResponse{Success: true, Data: data})
}

// statusFor is the single place error codes become HTTP statuses.
func statusFor(code appErr.Code) int {
	switch code {
	case appErr.CodeInvalid, appErr.CodeInvalidID, appErr.CodeInvalidCredentials,
		appErr.CodeConflict, appErr.CodeAlreadyExists:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	case appErr.CodeDeadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := appErr.CodeOf(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		if code == appErr.CodeUnknown {
			code = appErr.CodeInternal
		}
		writeJSON(w, status, types.APIResponse{
			Success: false,
			Error:   &types.APIError{Code: string(code), Message: "Internal server error"},
		})
		return
	}
	writeJSON(w, status, types.APIResponse{
		Success: false,
		Error:   types.FromAppError(err),
		Errors:  types.FieldErrorsFrom(err),
	})
}

// writeValidation answers a failed struct validation with its field errors.
func writeValidation(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, types.APIResponse{
		Success: false,
		Error:   &types.APIError{Code: string(appErr.CodeInvalid), Message: "Validation failed"},
		Errors:  validators.Translate(err),
	})
}

// decode reads a JSON body into dst and validates it. On failure it has
// already written the response and returns false.
func decode(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any, failStatus int) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, types.APIResponse{
			Success: false,
			Error:   &types.APIError{Code: string(appErr.CodeInvalid), Message: "invalid json", Details: err.Error()},
		})
		return false
	}
	if err := v.Struct(dst); err != nil {
		writeValidation(w, failStatus, err)
		return false
	}
	return true
}

// parseID validates an identifier before any store access.
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, appErr.InvalidID("Invalid " + field).WithMeta("field", field).WithMeta("reason", string(appErr.CodeInvalidID))
	}
	return id, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return parseID(chi.URLParam(r, "id"), "id")
}

// pageQuery reads pageNumber, itemsPerPage and sorting.
func pageQuery(r *http.Request) (repository.PageQuery, error) {
	q := repository.PageQuery{Page: 1, Limit: repository.DefaultPageLimit}
	values := r.URL.Query()

	if s := values.Get("pageNumber"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return q, appErr.Invalid("pageNumber must be a positive integer").WithMeta("field", "pageNumber")
		}
		q.Page = n
	}
	if s := values.Get("itemsPerPage"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > repository.DefaultPageLimit {
			return q, appErr.Invalid("itemsPerPage must be between 1 and 100").WithMeta("field", "itemsPerPage")
		}
		q.Limit = n
	}
	switch strings.ToLower(values.Get("sorting")) {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return q, appErr.Invalid("sorting must be asc or desc").WithMeta("field", "sorting")
	}
	return q, nil
}

// currentUser is always set behind the Auth middleware.
func currentUser(r *http.Request) *models.User {
	return middleware.CurrentUser(r.Context())
}
