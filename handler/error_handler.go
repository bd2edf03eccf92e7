package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"user-management-api/common"
	"user-management-api/logger"
	"user-management-api/service"

	"github.com/sirupsen/logrus"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// mapServiceError converts a user service error into the response to send.
func mapServiceError(err error, fallback string) *common.AppError {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return common.NewAppError(http.StatusNotFound, "User not found", nil)
	case errors.Is(err, service.ErrEmailAlreadyExists), errors.Is(err, service.ErrNicknameAlreadyExists):
		return common.NewAppError(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return common.NewAppError(http.StatusUnauthorized, "Incorrect email or password.", nil)
	case errors.Is(err, service.ErrAccountLocked):
		return common.NewAppError(http.StatusForbidden, "Account locked due to too many failed login attempts.", nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request with its status and latency.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status_code": rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")
	})
}
