package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/logging"
	"github.com/ndewijer/folio/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	return v, nil
}

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAssetNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrPlanNotFound),
		errors.Is(err, apperrors.ErrPriceNotFound):
		return http.StatusNotFound

	case errors.Is(err, apperrors.ErrInsufficientShares),
		errors.Is(err, apperrors.ErrKindNotAllowed),
		errors.Is(err, apperrors.ErrCashAssetNotCash),
		errors.Is(err, apperrors.ErrInvalidRefreshInterval),
		errors.Is(err, apperrors.ErrUnsupportedFormat),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrAIKeyMissing),
		errors.Is(err, apperrors.ErrSecretKeyMissing):
		return http.StatusBadRequest

	case errors.Is(err, apperrors.ErrInvalidPlanTransition),
		errors.Is(err, apperrors.ErrPlanNotActive),
		errors.Is(err, apperrors.ErrRefreshInProgress),
		errors.Is(err, apperrors.ErrDuplicateEntry):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with the status statusFor picks. Validation
// errors carry their field map as details. Server errors are logged.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Get().Errorw(message, "error", err)
	}
	response.RespondError(w, status, message, err.Error())
}

// intQuery reads an optional positive integer query parameter.
func intQuery(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}
