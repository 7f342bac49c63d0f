package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
	"github.com/DanielMD1989/freight-managment-sub009/internal/service"
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
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrWalletNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidLoadID),
		errors.Is(err, service.ErrInvalidOrgID),
		errors.Is(err, service.ErrInvalidTruckID),
		errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrNoFeeConfig),
		errors.Is(err, service.ErrInvalidCommissionRate),
		errors.Is(err, domain.ErrUnknownStatus):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrServiceFeeAlreadyDeducted),
		errors.Is(err, service.ErrServiceFeeNotDeducted),
		errors.Is(err, service.ErrServiceFeeAlreadyRefunded),
		errors.Is(err, service.ErrSettlementAlreadyProcessed),
		errors.Is(err, service.ErrSettlementRequired),
		errors.Is(err, service.ErrLoadNotDelivered),
		errors.Is(err, service.ErrPODNotVerified),
		errors.Is(err, service.ErrPODNotSubmitted),
		errors.Is(err, service.ErrLoadAlreadyAssigned),
		errors.Is(err, service.ErrLoadNotAssignable),
		errors.Is(err, service.ErrTruckBusy),
		errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, service.ErrAssignmentConflict),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, domain.ErrRoleNotPermitted):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
