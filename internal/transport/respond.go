package transport

import (
	"errors"
	"net/http"
	"time"

	"prime-pizza/internal/domain"
	"prime-pizza/internal/middleware"
	"prime-pizza/internal/repository"
	"prime-pizza/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondServiceError maps domain errors onto the HTTP taxonomy:
// validation and state errors are 400, authorization errors 403, missing
// entities 404, everything else 500. Unexpected error details are only
// exposed in development mode.
func respondServiceError(w http.ResponseWriter, err error, devMode bool, logger *zap.Logger) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrNotCancellable),
		errors.Is(err, service.ErrInvalidCategory):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrNotOrderOwner),
		errors.Is(err, service.ErrOrderAccessDenied):
		middleware.RespondWithError(w, http.StatusForbidden, err.Error())

	default:
		logger.Error("Unexpected error", zap.Error(err))
		message := "Server Error"
		if devMode {
			message = err.Error()
		}
		middleware.RespondWithError(w, http.StatusInternalServerError, message)
	}
}

// requesterFromContext builds the authenticated requester from the claims
// placed on the context by the auth middleware
func requesterFromContext(r *http.Request) (service.Requester, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return service.Requester{}, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return service.Requester{}, false
	}

	role, ok := middleware.GetUserRole(r.Context())
	if !ok {
		return service.Requester{}, false
	}

	return service.Requester{ID: userID, Role: role}, true
}

// parseDate accepts RFC3339 timestamps or plain ISO dates
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// dateRangeFromQuery reads optional inclusive startDate/endDate bounds
func dateRangeFromQuery(r *http.Request) (domain.DateRange, error) {
	var dateRange domain.DateRange

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		start, err := parseDate(raw)
		if err != nil {
			return domain.DateRange{}, err
		}
		dateRange.Start = &start
	}

	if raw := r.URL.Query().Get("endDate"); raw != "" {
		end, err := parseDate(raw)
		if err != nil {
			return domain.DateRange{}, err
		}
		dateRange.End = &end
	}

	return dateRange, nil
}
