package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"settlement/internal/repository"
	"settlement/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Authorization errors
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrSettlementInProgress):
		return http.StatusConflict

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrInvalidActor),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidOwnerKind),
		errors.Is(err, service.ErrInvalidPaymentOption),
		errors.Is(err, service.ErrMissingTransactionID):
		return http.StatusBadRequest

	// Configuration errors
	case errors.Is(err, service.ErrNoPricingTier):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
