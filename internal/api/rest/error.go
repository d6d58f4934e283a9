package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/royalty-ledger/internal/domain"
	"github.com/feral-file/royalty-ledger/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest          ErrorCode = "bad_request"
	errCodeNotFound            ErrorCode = "not_found"
	errCodeValidationFailed    ErrorCode = "validation_failed"
	errCodeSelfPurchase        ErrorCode = "self_purchase"
	errCodeInsufficientPayment ErrorCode = "insufficient_payment"
	errCodeTransferFailed      ErrorCode = "transfer_failed"

	// Server errors (5xx)
	errCodeInternalError ErrorCode = "internal_error"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Validation failed", details)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondLedgerError maps a ledger engine error to its HTTP representation
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownAsset):
		respondNotFound(c, "Asset not found", err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Invalid price", err.Error())
	case errors.Is(err, domain.ErrSelfPurchase):
		respondWithError(c, http.StatusConflict, errCodeSelfPurchase, "Buyer already owns this asset", err.Error())
	case errors.Is(err, domain.ErrInsufficientPayment):
		respondWithError(c, http.StatusPaymentRequired, errCodeInsufficientPayment, "Payment below current price", err.Error())
	case errors.Is(err, domain.ErrTransferFailed):
		respondWithError(c, http.StatusUnprocessableEntity, errCodeTransferFailed, "Settlement rejected", err.Error())
	default:
		respondInternalError(c, err, "Ledger operation failed")
	}
}
