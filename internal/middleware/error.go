package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Response is the envelope every endpoint replies with
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// RespondWithJSON writes an arbitrary payload as JSON
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithData writes a successful envelope around data
func RespondWithData(w http.ResponseWriter, statusCode int, data interface{}) {
	RespondWithJSON(w, statusCode, Response{Success: true, Data: data})
}

// RespondWithList writes a successful envelope with an item count
func RespondWithList(w http.ResponseWriter, statusCode int, data interface{}, count int) {
	RespondWithJSON(w, statusCode, Response{Success: true, Data: data, Count: &count})
}

// RespondWithMessage writes a successful envelope carrying only a message
func RespondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, Response{Success: true, Message: message})
}

// RespondWithError writes a failure envelope
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, Response{Success: false, Message: message})
}

// RespondWithValidationErrors writes a failure envelope listing every
// violated field constraint
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	RespondWithJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "validation failed",
		Data:    map[string]interface{}{"validation_errors": errors},
	})
}

// ErrorHandlingMiddleware catches panics and converts them to 500 responses
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "Server Error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
