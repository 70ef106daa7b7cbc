package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/service/auth"
	"github.com/Domenick1991/wolkenticket/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error  string             `json:"error"`
	Code   string             `json:"code"`
	Fields domain.FieldErrors `json:"fields,omitempty"`
}

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrBookingNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrFormNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrSessionNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrAttemptNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{domain.ErrOrderIDRequired, http.StatusBadRequest, "order_id_required"},
	{domain.ErrStatusTransition, http.StatusConflict, "status_transition"},
	{domain.ErrCaptureInProgress, http.StatusConflict, "capture_in_progress"},
	{domain.ErrDuplicateTransaction, http.StatusConflict, "duplicate_transaction"},
}

// writeError maps service errors to a status and JSON body. Unknown errors become
// a 500 without leaking their text; the request logger records them.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	if ve, ok := domain.AsValidationError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Code: "validation_failed", Fields: ve.Fields})
		return
	}

	var pe *payment.PaymentError
	if errors.As(err, &pe) {
		c.JSON(http.StatusBadGateway, errorResponse{Error: pe.Message, Code: "payment_failed"})
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			c.JSON(m.status, errorResponse{Error: m.err.Error(), Code: m.code})
			return
		}
	}

	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal"})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "bad_request"})
}
