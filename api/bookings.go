package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/wolkenticket/internal/checkout"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	paypal "github.com/Domenick1991/wolkenticket/internal/payment"
	"github.com/Domenick1991/wolkenticket/internal/service/booking"
	"github.com/Domenick1991/wolkenticket/internal/service/payment"
	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the payment flow and the public booking lookup.
type BookingHandler struct {
	payments  payment.PaymentUseCase
	bookings  booking.BookingUseCase
	checkouts checkout.CheckoutUseCase
}

type createOrderRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// captureRequest names the draft either by checkout session or inline.
type captureRequest struct {
	CheckoutID string        `json:"checkout_id"`
	Draft      *domain.Draft `json:"draft"`
}

type completeRequest struct {
	Intent paypal.Intent `json:"intent" binding:"omitempty,oneof=CAPTURE AUTHORIZE"`
}

type captureResponse struct {
	Attempt       *domain.PaymentAttempt `json:"attempt"`
	Restart       bool                   `json:"restart"`
	TransactionID string                 `json:"transaction_id,omitempty"`
	Booking       *bookingResponse       `json:"booking,omitempty"`
}

func NewBookingHandler(payments payment.PaymentUseCase, bookings booking.BookingUseCase, checkouts checkout.CheckoutUseCase) *BookingHandler {
	return &BookingHandler{payments: payments, bookings: bookings, checkouts: checkouts}
}

// Register mounts the routes; lookup gets the extra middleware (rate limiting).
func (h *BookingHandler) Register(router *gin.RouterGroup, lookup ...gin.HandlerFunc) {
	router.POST("/create-order", h.createOrder)
	router.POST("/capture/:orderID", h.capture)
	router.POST("/complete/:orderID", h.complete)
	router.GET("/orders/:orderID", h.attempt)
	router.GET("/lookup/:code", append(lookup, h.lookup)...)
}

func (h *BookingHandler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.ErrInvalidQuantity)
		return
	}

	attempt, err := h.payments.CreateOrder(c.Request.Context(), req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

func (h *BookingHandler) capture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var draft domain.Draft
	switch {
	case req.CheckoutID != "":
		form, err := h.checkouts.Get(c.Request.Context(), req.CheckoutID)
		if err != nil {
			writeError(c, err)
			return
		}
		draft = form.Draft
	case req.Draft != nil:
		draft = *req.Draft
	default:
		badRequest(c, errors.New("checkout_id or draft is required"))
		return
	}

	result, err := h.payments.Capture(c.Request.Context(), c.Param("orderID"), draft)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := captureResponse{Attempt: result.Attempt, Restart: result.Restart, TransactionID: result.TransactionID}
	status := http.StatusOK
	switch {
	case result.Booking != nil:
		b := newBookingResponse(result.Booking)
		resp.Booking = &b
		status = http.StatusCreated
	case result.Attempt != nil && result.Attempt.State == domain.PaymentStateFailed:
		status = http.StatusPaymentRequired
	}
	c.JSON(status, resp)
}

func (h *BookingHandler) complete(c *gin.Context) {
	var req completeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	order, err := h.payments.Complete(c.Request.Context(), c.Param("orderID"), req.Intent)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *BookingHandler) attempt(c *gin.Context) {
	attempt, err := h.payments.Attempt(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

func (h *BookingHandler) lookup(c *gin.Context) {
	b, err := h.bookings.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}
