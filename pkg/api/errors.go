package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jakechorley/duty-rota/pkg/core/allocator"
	"github.com/jakechorley/duty-rota/pkg/core/services"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// Error is the error body of every failed request
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error, code string, status int) *Error {
	return &Error{Code: code, Message: err.Error(), Status: status, Err: err}
}

// badRequest wraps a request parsing failure
func badRequest(err error) *Error {
	return newError(err, "VALIDATION_ERROR", http.StatusBadRequest)
}

// errorMapping pairs sentinel errors with their HTTP representation, first match wins
var errorMapping = []struct {
	target error
	code   string
	status int
}{
	{db.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{services.ErrNoPreview, "NO_PREVIEW", http.StatusNotFound},
	{services.ErrNothingToUndo, "NOTHING_TO_UNDO", http.StatusConflict},
	{services.ErrInvalidEmployee, "VALIDATION_ERROR", http.StatusBadRequest},
	{services.ErrInvalidRank, "VALIDATION_ERROR", http.StatusBadRequest},
	{services.ErrInvalidDay, "VALIDATION_ERROR", http.StatusBadRequest},
	{services.ErrInvalidSnapshot, "VALIDATION_ERROR", http.StatusBadRequest},
	{allocator.ErrInvalidMonth, "VALIDATION_ERROR", http.StatusBadRequest},
	{allocator.ErrEmptyRoster, "EMPTY_ROSTER", http.StatusUnprocessableEntity},
}

// fromError normalises any error into an *Error; unknown errors become 500s
func fromError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return newError(err, m.code, m.status)
		}
	}
	return &Error{Code: "INTERNAL_ERROR", Message: "internal server error", Status: http.StatusInternalServerError, Err: err}
}
