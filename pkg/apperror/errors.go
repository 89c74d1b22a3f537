package apperror

import (
	"errors"
	"net/http"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ledger"
)

// AppError represents an error with an HTTP-mappable status
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequest(message string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, Status: http.StatusConflict}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

// MapError translates domain and ledger errors to HTTP-mappable ones
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrRequirementNotFound),
		errors.Is(err, domain.ErrTestCaseNotFound),
		errors.Is(err, domain.ErrNoRequirements):
		return NewNotFound(err.Error())
	case errors.Is(err, domain.ErrEmptyIngest),
		errors.Is(err, ledger.ErrInvalidLimit):
		return NewBadRequest(err.Error())
	case errors.Is(err, ledger.ErrChainConflict):
		return NewConflict(err.Error())
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return NewBadRequest(domainErr.Message)
	}

	return NewInternalServer("An unexpected error occurred")
}
