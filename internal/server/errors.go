package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrInvalidAdminToken indicates the token exchange presented a wrong token
type ErrInvalidAdminToken struct{}

func (e *ErrInvalidAdminToken) Error() string {
	return "invalid admin token"
}

// ErrRunNotFound indicates a chain run was not found
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("chain run not found: %s", e.RunID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStorageUnavailable indicates an endpoint needs audit storage and none
// is configured
type ErrStorageUnavailable struct{}

func (e *ErrStorageUnavailable) Error() string {
	return "run storage is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrInvalidAdminToken:
		return http.StatusUnauthorized
	case *ErrRunNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
