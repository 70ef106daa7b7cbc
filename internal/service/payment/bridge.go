package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/clock"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/payment"
	"github.com/Domenick1991/wolkenticket/internal/service/booking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentUseCase interface {
	CreateOrder(ctx context.Context, quantity int) (*domain.PaymentAttempt, error)
	Capture(ctx context.Context, orderID string, draft domain.Draft) (*CaptureResult, error)
	Complete(ctx context.Context, orderID string, intent payment.Intent) (*payment.Order, error)
	Attempt(ctx context.Context, orderID string) (*domain.PaymentAttempt, error)
}

// AttemptStore keeps payment attempts and the per-order capture lock.
// GetAttempt returns nil, nil for an unknown order.
type AttemptStore interface {
	GetAttempt(ctx context.Context, orderID string) (*domain.PaymentAttempt, error)
	SaveAttempt(ctx context.Context, attempt *domain.PaymentAttempt, ttl time.Duration) error
	AcquireCaptureLock(ctx context.Context, orderID, token string, ttl time.Duration) (bool, error)
	ReleaseCaptureLock(ctx context.Context, orderID, token string) error
}

// CaptureResult is the outcome of one capture. Restart asks the buyer to pick another
// funding source; the order itself stays usable.
type CaptureResult struct {
	Attempt       *domain.PaymentAttempt
	Booking       *domain.Booking
	TransactionID string
	Restart       bool
}

// PaymentError carries the message shown to the buyer when PayPal refuses an order
// or a captured payment could not be turned into a booking.
type PaymentError struct {
	Message string
	Err     error
}

func (e *PaymentError) Error() string { return e.Message }

func (e *PaymentError) Unwrap() error { return e.Err }

type Bridge struct {
	gateway  payment.Gateway
	bookings booking.BookingUseCase
	store    AttemptStore
	clock    clock.Clock
	logger   *zap.Logger

	unitPriceCents int64
	currency       string
	lockTTL        time.Duration
	attemptTTL     time.Duration
}

type BridgeOption func(*Bridge)

func WithClock(c clock.Clock) BridgeOption {
	return func(b *Bridge) {
		b.clock = c
	}
}

func WithPricing(unitPriceCents int64, currency string) BridgeOption {
	return func(b *Bridge) {
		b.unitPriceCents = unitPriceCents
		b.currency = currency
	}
}

func WithTTLs(lockTTL, attemptTTL time.Duration) BridgeOption {
	return func(b *Bridge) {
		b.lockTTL = lockTTL
		b.attemptTTL = attemptTTL
	}
}

func NewBridge(gateway payment.Gateway, bookings booking.BookingUseCase, store AttemptStore, logger *zap.Logger, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		gateway:        gateway,
		bookings:       bookings,
		store:          store,
		clock:          clock.NewSystem(),
		logger:         logger,
		unitPriceCents: 800,
		currency:       "USD",
		lockTTL:        time.Minute,
		attemptTTL:     time.Hour,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateOrder opens a PayPal order for quantity tickets. The amount is priced here, never by the client.
func (b *Bridge) CreateOrder(ctx context.Context, quantity int) (*domain.PaymentAttempt, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	order, err := b.gateway.CreateOrder(ctx, payment.OrderRequest{
		Intent:      payment.IntentCapture,
		AmountCents: domain.TotalPriceCents(quantity, b.unitPriceCents),
		Currency:    b.currency,
		Description: fmt.Sprintf("Flight reservation x%d", quantity),
	})
	if err != nil {
		b.logger.Warn("paypal order creation failed", zap.Int("quantity", quantity), zap.Error(err))
		return nil, &PaymentError{Message: gatewayMessage(err), Err: err}
	}

	attempt := &domain.PaymentAttempt{
		OrderID:  order.ID,
		Quantity: quantity,
		State:    domain.PaymentStateOrderCreated,
	}
	b.saveAttempt(ctx, attempt)
	return attempt, nil
}

// Capture charges an approved order and stores the booking. The booking is only created
// after PayPal confirmed the capture, and the attempt only reports succeeded once it is stored.
func (b *Bridge) Capture(ctx context.Context, orderID string, draft domain.Draft) (*CaptureResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrOrderIDRequired
	}

	if existing, err := b.bookings.GetByOrderID(ctx, orderID); err == nil {
		return b.alreadyCaptured(ctx, orderID, existing), nil
	} else if !errors.Is(err, domain.ErrBookingNotFound) {
		return nil, fmt.Errorf("failed to check order %s: %w", orderID, err)
	}

	if errs := draft.Validate(clock.Today(b.clock)); !errs.Empty() {
		return nil, domain.NewValidationError(errs)
	}

	token := uuid.NewString()
	locked, err := b.store.AcquireCaptureLock(ctx, orderID, token, b.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock order %s: %w", orderID, err)
	}
	if !locked {
		return nil, domain.ErrCaptureInProgress
	}
	defer func() {
		if err := b.store.ReleaseCaptureLock(context.WithoutCancel(ctx), orderID, token); err != nil {
			b.logger.Warn("failed to release capture lock", zap.String("order_id", orderID), zap.Error(err))
		}
	}()

	attempt, err := b.store.GetAttempt(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment attempt %s: %w", orderID, err)
	}
	if errs := matchOrder(attempt, draft); !errs.Empty() {
		return nil, domain.NewValidationError(errs)
	}

	attempt.State = domain.PaymentStateProcessing
	attempt.Message = ""
	attempt.Captures++
	b.saveAttempt(ctx, attempt)

	order, err := b.gateway.CaptureOrder(ctx, orderID, fmt.Sprintf("capture-%s-%d", orderID, attempt.Captures))
	if err != nil {
		var apiErr *payment.APIError
		if !errors.As(err, &apiErr) {
			return b.fail(ctx, attempt, err.Error()), nil
		}
		order = apiErr.Order()
	}

	if issue := order.FirstIssue(); issue != nil {
		if issue.Issue == payment.IssueInstrumentDeclined {
			attempt.State = domain.PaymentStateIdle
			attempt.Message = issue.Description
			b.saveAttempt(ctx, attempt)
			return &CaptureResult{Attempt: attempt, Restart: true}, nil
		}
		return b.fail(ctx, attempt, fmt.Sprintf("%s (%s)", issue.Description, order.DebugID)), nil
	}

	transactionID := order.CaptureID()
	if transactionID == "" {
		return b.fail(ctx, attempt, "capture response has no transaction id"), nil
	}

	expected := domain.TotalPriceCents(attempt.Quantity, b.unitPriceCents)
	if cents, currency, ok := order.CapturedAmount(); !ok || cents != expected || currency != b.currency {
		return nil, b.unbooked(ctx, attempt, transactionID,
			fmt.Errorf("captured %s %s, expected %s %s", domain.FormatCents(cents), currency, domain.FormatCents(expected), b.currency))
	}

	created, err := b.bookings.Create(ctx, booking.CreateInput{
		Draft:         draft,
		Status:        domain.BookingStatusConfirmed,
		TransactionID: transactionID,
		OrderID:       orderID,
	})
	if err != nil {
		return nil, b.unbooked(ctx, attempt, transactionID, err)
	}

	attempt.State = domain.PaymentStateSucceeded
	attempt.Message = ""
	attempt.BookingID = created.ID
	b.saveAttempt(ctx, attempt)

	return &CaptureResult{Attempt: attempt, Booking: created, TransactionID: transactionID}, nil
}

// matchOrder checks the draft against the order it is paid with. Every ticket of the
// order must name one passenger, so the booking total equals what PayPal charged.
func matchOrder(attempt *domain.PaymentAttempt, draft domain.Draft) domain.FieldErrors {
	errs := domain.FieldErrors{}
	switch {
	case attempt == nil:
		errs.Add(domain.FieldPassengers, "No payment order was created for this checkout")
	case len(draft.Passengers) != attempt.Quantity:
		errs.Add(domain.FieldPassengers, fmt.Sprintf("The payment order covers %d passenger(s), the booking names %d", attempt.Quantity, len(draft.Passengers)))
	}
	return errs
}

// Complete finalises an order according to its intent.
func (b *Bridge) Complete(ctx context.Context, orderID string, intent payment.Intent) (*payment.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.ErrOrderIDRequired
	}
	if intent == "" {
		intent = payment.IntentCapture
	}
	order, err := b.gateway.CompleteOrder(ctx, orderID, intent)
	if err != nil {
		return nil, &PaymentError{Message: gatewayMessage(err), Err: err}
	}
	return order, nil
}

func (b *Bridge) Attempt(ctx context.Context, orderID string) (*domain.PaymentAttempt, error) {
	attempt, err := b.store.GetAttempt(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment attempt %s: %w", orderID, err)
	}
	if attempt == nil {
		return nil, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

func (b *Bridge) alreadyCaptured(ctx context.Context, orderID string, existing *domain.Booking) *CaptureResult {
	attempt := &domain.PaymentAttempt{
		OrderID:   orderID,
		Quantity:  len(existing.Passengers),
		State:     domain.PaymentStateSucceeded,
		BookingID: existing.ID,
	}
	b.saveAttempt(ctx, attempt)
	return &CaptureResult{Attempt: attempt, Booking: existing, TransactionID: existing.TransactionID}
}

func (b *Bridge) fail(ctx context.Context, attempt *domain.PaymentAttempt, message string) *CaptureResult {
	attempt.State = domain.PaymentStateFailed
	attempt.Message = message
	b.saveAttempt(ctx, attempt)
	b.logger.Warn("payment capture failed", zap.String("order_id", attempt.OrderID), zap.String("message", message))
	return &CaptureResult{Attempt: attempt}
}

// unbooked marks an attempt whose money was captured but no booking stored. The buyer
// gets a message naming the transaction so support can reconcile it.
func (b *Bridge) unbooked(ctx context.Context, attempt *domain.PaymentAttempt, transactionID string, cause error) error {
	b.logger.Error("payment captured but booking not stored",
		zap.String("order_id", attempt.OrderID),
		zap.String("transaction_id", transactionID),
		zap.Error(cause))
	msg := "Payment received but the booking could not be saved. Please contact support with transaction " + transactionID
	b.fail(ctx, attempt, msg)
	return &PaymentError{
		Message: msg,
		Err:     fmt.Errorf("failed to store booking for order %s: %w", attempt.OrderID, cause),
	}
}

func (b *Bridge) saveAttempt(ctx context.Context, attempt *domain.PaymentAttempt) {
	attempt.UpdatedAt = b.clock.Now()
	if err := b.store.SaveAttempt(ctx, attempt, b.attemptTTL); err != nil {
		b.logger.Warn("failed to save payment attempt",
			zap.String("order_id", attempt.OrderID),
			zap.String("state", string(attempt.State)),
			zap.Error(err))
	}
}

func gatewayMessage(err error) string {
	var apiErr *payment.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

var _ PaymentUseCase = (*Bridge)(nil)
