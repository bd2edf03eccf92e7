package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"user-management-api/logger"

	"github.com/sirupsen/logrus"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationAppError maps a rejected payload to a 422 response carrying
// the offending field and the reason.
func NewValidationAppError(v *ValidationError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: v.Error(),
		Field:   v.Field,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}

// ValidationError is a single rejected field. Value is only populated for
// rules whose message must echo the input (email); it is never set for
// passwords.
type ValidationError struct {
	Field  string
	Reason string
	Value  string
	err    error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s [input_value=%q]", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap exposes the rule error, e.g. ErrInvalidEmail.
func (e *ValidationError) Unwrap() error {
	return e.err
}
