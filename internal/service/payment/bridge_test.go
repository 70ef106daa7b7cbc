package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/clock"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/payment"
	"github.com/Domenick1991/wolkenticket/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockGateway) CaptureOrder(ctx context.Context, orderID, requestID string) (*payment.Order, error) {
	args := m.Called(ctx, orderID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockGateway) CompleteOrder(ctx context.Context, orderID string, intent payment.Intent) (*payment.Order, error) {
	args := m.Called(ctx, orderID, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

type MockBookings struct {
	mock.Mock
}

func (m *MockBookings) Create(ctx context.Context, input booking.CreateInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookings) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookings) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookings) FindByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookings) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookings) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// memoryStore records every saved attempt state so tests can check the order of transitions.
type memoryStore struct {
	attempts map[string]domain.PaymentAttempt
	states   []domain.PaymentState
	locked   map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{attempts: map[string]domain.PaymentAttempt{}, locked: map[string]string{}}
}

// withOrder seeds the attempt CreateOrder leaves behind.
func (s *memoryStore) withOrder(orderID string, quantity int) *memoryStore {
	s.attempts[orderID] = domain.PaymentAttempt{OrderID: orderID, Quantity: quantity, State: domain.PaymentStateOrderCreated}
	return s
}

func (s *memoryStore) GetAttempt(ctx context.Context, orderID string) (*domain.PaymentAttempt, error) {
	a, ok := s.attempts[orderID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *memoryStore) SaveAttempt(ctx context.Context, attempt *domain.PaymentAttempt, ttl time.Duration) error {
	s.attempts[attempt.OrderID] = *attempt
	s.states = append(s.states, attempt.State)
	return nil
}

func (s *memoryStore) AcquireCaptureLock(ctx context.Context, orderID, token string, ttl time.Duration) (bool, error) {
	if _, ok := s.locked[orderID]; ok {
		return false, nil
	}
	s.locked[orderID] = token
	return true, nil
}

func (s *memoryStore) ReleaseCaptureLock(ctx context.Context, orderID, token string) error {
	if s.locked[orderID] == token {
		delete(s.locked, orderID)
	}
	return nil
}

var testNow = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

func validDraft() domain.Draft {
	return domain.Draft{
		FlightType:      domain.FlightTypeOneWay,
		DepartureCity:   domain.City{Value: "CGK", Label: "Soekarno-Hatta - Jakarta, Indonesia"},
		DestinationCity: domain.City{Value: "SIN", Label: "Changi - Singapore, Singapore"},
		DepartureDate:   "2025-06-01",
		Email:           "traveller@example.com",
		Phone:           "+62 811 000 000",
		Passengers:      []domain.Passenger{{Name: "Ayu", BirthDate: "1990-01-01"}, {Name: "Budi", BirthDate: "1991-01-01"}},
		PaymentMethod:   domain.PaymentMethodPayPal,
	}
}

func capturedOrder(txID, value string) *payment.Order {
	return &payment.Order{
		ID:     "ORDER-1",
		Status: "COMPLETED",
		PurchaseUnits: []payment.PurchaseUnit{{
			Payments: payment.Payments{Captures: []payment.Capture{{
				ID:     txID,
				Status: "COMPLETED",
				Amount: &payment.Money{CurrencyCode: "USD", Value: value},
			}}},
		}},
	}
}

func newTestBridge(gateway *MockGateway, bookings *MockBookings, store *memoryStore) *Bridge {
	return NewBridge(gateway, bookings, store, zap.NewNop(),
		WithClock(clock.NewFixed(testNow)),
		WithPricing(800, "USD"),
		WithTTLs(time.Minute, time.Hour),
	)
}

func TestBridge_CreateOrder(t *testing.T) {
	gateway := &MockGateway{}
	store := newMemoryStore()
	bridge := newTestBridge(gateway, &MockBookings{}, store)
	ctx := context.Background()

	gateway.On("CreateOrder", ctx, payment.OrderRequest{
		Intent:      payment.IntentCapture,
		AmountCents: 2400,
		Currency:    "USD",
		Description: "Flight reservation x3",
	}).Return(&payment.Order{ID: "ORDER-1", Status: "CREATED"}, nil).Once()

	attempt, err := bridge.CreateOrder(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", attempt.OrderID)
	assert.Equal(t, domain.PaymentStateOrderCreated, attempt.State)
	assert.Equal(t, []domain.PaymentState{domain.PaymentStateOrderCreated}, store.states)
}

func TestBridge_CreateOrder_Errors(t *testing.T) {
	gateway := &MockGateway{}
	bridge := newTestBridge(gateway, &MockBookings{}, newMemoryStore())
	ctx := context.Background()

	_, err := bridge.CreateOrder(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	apiErr := &payment.APIError{DebugID: "dbg", Details: []payment.IssueDetail{{Issue: "AMOUNT_MISMATCH", Description: "Amount mismatch."}}}
	gateway.On("CreateOrder", ctx, mock.Anything).Return(nil, apiErr).Once()

	_, err = bridge.CreateOrder(ctx, 1)

	var pe *PaymentError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "AMOUNT_MISMATCH Amount mismatch. (dbg)", pe.Message)
}

func TestBridge_Capture_Success(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	store := newMemoryStore().withOrder("ORDER-1", 2)
	bridge := newTestBridge(gateway, bookings, store)
	ctx := context.Background()
	draft := validDraft()

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound).Once()
	gateway.On("CaptureOrder", ctx, "ORDER-1", "capture-ORDER-1-1").Return(capturedOrder("9XY12345AB", "16.00"), nil).Once()
	bookings.On("Create", ctx, booking.CreateInput{
		Draft:         draft,
		Status:        domain.BookingStatusConfirmed,
		TransactionID: "9XY12345AB",
		OrderID:       "ORDER-1",
	}).Return(&domain.Booking{ID: "b-1", TransactionID: "9XY12345AB"}, nil).Once()

	result, err := bridge.Capture(ctx, "ORDER-1", draft)

	require.NoError(t, err)
	assert.False(t, result.Restart)
	assert.Equal(t, "9XY12345AB", result.TransactionID)
	assert.Equal(t, "b-1", result.Booking.ID)
	assert.Equal(t, domain.PaymentStateSucceeded, result.Attempt.State)
	assert.Equal(t, []domain.PaymentState{domain.PaymentStateProcessing, domain.PaymentStateSucceeded}, store.states)
	assert.Empty(t, store.locked)
	bookings.AssertExpectations(t)
}

func TestBridge_Capture_InstrumentDeclined(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	store := newMemoryStore().withOrder("ORDER-1", 2)
	bridge := newTestBridge(gateway, bookings, store)
	ctx := context.Background()

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound).Once()
	gateway.On("CaptureOrder", ctx, "ORDER-1", "capture-ORDER-1-1").Return(nil, &payment.APIError{
		StatusCode: 422,
		DebugID:    "dbg-1",
		Details:    []payment.IssueDetail{{Issue: payment.IssueInstrumentDeclined, Description: "The instrument presented was declined."}},
	}).Once()

	result, err := bridge.Capture(ctx, "ORDER-1", validDraft())

	require.NoError(t, err)
	assert.True(t, result.Restart)
	assert.Nil(t, result.Booking)
	assert.Equal(t, domain.PaymentStateIdle, result.Attempt.State)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBridge_Capture_OtherIssue(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	store := newMemoryStore().withOrder("ORDER-1", 2)
	bridge := newTestBridge(gateway, bookings, store)
	ctx := context.Background()

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound).Once()
	gateway.On("CaptureOrder", ctx, "ORDER-1", mock.Anything).Return(&payment.Order{
		DebugID: "abc123",
		Details: []payment.IssueDetail{{Issue: "ORDER_NOT_APPROVED", Description: "Payer has not yet approved the Order for payment."}},
	}, nil).Once()

	result, err := bridge.Capture(ctx, "ORDER-1", validDraft())

	require.NoError(t, err)
	assert.False(t, result.Restart)
	assert.Equal(t, domain.PaymentStateFailed, result.Attempt.State)
	assert.Equal(t, "Payer has not yet approved the Order for payment. (abc123)", result.Attempt.Message)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBridge_Capture_NetworkError(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	bridge := newTestBridge(gateway, bookings, newMemoryStore().withOrder("ORDER-1", 2))
	ctx := context.Background()

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound).Once()
	gateway.On("CaptureOrder", ctx, "ORDER-1", mock.Anything).Return(nil, errors.New("dial tcp: i/o timeout")).Once()

	result, err := bridge.Capture(ctx, "ORDER-1", validDraft())

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateFailed, result.Attempt.State)
	assert.Equal(t, "dial tcp: i/o timeout", result.Attempt.Message)
}

func TestBridge_Capture_BookingStoreFails(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	store := newMemoryStore().withOrder("ORDER-1", 2)
	bridge := newTestBridge(gateway, bookings, store)
	ctx := context.Background()

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound).Once()
	gateway.On("CaptureOrder", ctx, "ORDER-1", mock.Anything).Return(capturedOrder("9XY12345AB", "16.00"), nil).Once()
	bookings.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down")).Once()

	result, err := bridge.Capture(ctx, "ORDER-1", validDraft())

	assert.Nil(t, result)
	var pe *PaymentError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Payment received but the booking could not be saved. Please contact support with transaction 9XY12345AB", pe.Message)
	assert.EqualError(t, pe.Err, "failed to store booking for order ORDER-1: db down")
	assert.NotContains(t, store.states, domain.PaymentStateSucceeded)
	assert.Equal(t, domain.PaymentStateFailed, store.attempts["ORDER-1"].State)
	assert.Equal(t, pe.Message, store.attempts["ORDER-1"].Message)
}

func TestBridge_Capture_PassengersMustMatchOrder(t *testing.T) {
	testCases := []struct {
		name        string
		store       *memoryStore
		expectedMsg string
	}{
		{
			name:        "paid for fewer tickets",
			store:       newMemoryStore().withOrder("ORDER-1", 1),
			expectedMsg: "The payment order covers 1 passenger(s), the booking names 2",
		},
		{
			name:        "no order created",
			store:       newMemoryStore(),
			expectedMsg: "No payment order was created for this checkout",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := &MockGateway{}
			bookings := &MockBookings{}
			bridge := newTestBridge(gateway, bookings, tc.store)
			ctx := context.Background()

			bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound).Once()

			result, err := bridge.Capture(ctx, "ORDER-1", validDraft())

			assert.Nil(t, result)
			ve, ok := domain.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tc.expectedMsg, ve.Fields.First(domain.FieldPassengers))
			gateway.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything, mock.Anything)
			bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Empty(t, tc.store.locked)
		})
	}
}

func TestBridge_Capture_AmountMismatch(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	store := newMemoryStore().withOrder("ORDER-1", 2)
	bridge := newTestBridge(gateway, bookings, store)
	ctx := context.Background()

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound).Once()
	gateway.On("CaptureOrder", ctx, "ORDER-1", mock.Anything).Return(capturedOrder("9XY12345AB", "8.00"), nil).Once()

	result, err := bridge.Capture(ctx, "ORDER-1", validDraft())

	assert.Nil(t, result)
	var pe *PaymentError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "9XY12345AB")
	assert.EqualError(t, pe.Err, "failed to store booking for order ORDER-1: captured 8.00 USD, expected 16.00 USD")
	assert.Equal(t, domain.PaymentStateFailed, store.attempts["ORDER-1"].State)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBridge_Capture_RetryAfterDeclineUsesNewRequestID(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	store := newMemoryStore().withOrder("ORDER-1", 2)
	bridge := newTestBridge(gateway, bookings, store)
	ctx := context.Background()

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound).Twice()
	gateway.On("CaptureOrder", ctx, "ORDER-1", "capture-ORDER-1-1").Return(nil, &payment.APIError{
		Details: []payment.IssueDetail{{Issue: payment.IssueInstrumentDeclined, Description: "The instrument presented was declined."}},
	}).Once()
	gateway.On("CaptureOrder", ctx, "ORDER-1", "capture-ORDER-1-2").Return(capturedOrder("9XY12345AB", "16.00"), nil).Once()
	bookings.On("Create", ctx, mock.Anything).Return(&domain.Booking{ID: "b-1", TransactionID: "9XY12345AB"}, nil).Once()

	first, err := bridge.Capture(ctx, "ORDER-1", validDraft())
	require.NoError(t, err)
	assert.True(t, first.Restart)

	second, err := bridge.Capture(ctx, "ORDER-1", validDraft())
	require.NoError(t, err)
	assert.Equal(t, "b-1", second.Booking.ID)
	assert.Equal(t, 2, store.attempts["ORDER-1"].Captures)
	gateway.AssertExpectations(t)
}

func TestBridge_Capture_AlreadyBooked(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	bridge := newTestBridge(gateway, bookings, newMemoryStore())
	ctx := context.Background()

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(&domain.Booking{ID: "b-1", TransactionID: "9XY12345AB"}, nil).Once()

	result, err := bridge.Capture(ctx, "ORDER-1", validDraft())

	require.NoError(t, err)
	assert.Equal(t, "b-1", result.Booking.ID)
	assert.Equal(t, domain.PaymentStateSucceeded, result.Attempt.State)
	gateway.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestBridge_Capture_Rejections(t *testing.T) {
	gateway := &MockGateway{}
	bookings := &MockBookings{}
	store := newMemoryStore()
	bridge := newTestBridge(gateway, bookings, store)
	ctx := context.Background()

	_, err := bridge.Capture(ctx, "  ", validDraft())
	assert.ErrorIs(t, err, domain.ErrOrderIDRequired)

	bookings.On("GetByOrderID", ctx, "ORDER-1").Return(nil, domain.ErrBookingNotFound)

	invalid := validDraft()
	invalid.Passengers = nil
	_, err = bridge.Capture(ctx, "ORDER-1", invalid)
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "At least one passenger is required", ve.Fields.First(domain.FieldPassengers))

	store.locked["ORDER-1"] = "other-capture"
	_, err = bridge.Capture(ctx, "ORDER-1", validDraft())
	assert.ErrorIs(t, err, domain.ErrCaptureInProgress)
	assert.Equal(t, "other-capture", store.locked["ORDER-1"])

	gateway.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestBridge_Complete(t *testing.T) {
	gateway := &MockGateway{}
	bridge := newTestBridge(gateway, &MockBookings{}, newMemoryStore())
	ctx := context.Background()

	gateway.On("CompleteOrder", ctx, "ORDER-1", payment.IntentCapture).Return(&payment.Order{ID: "ORDER-1", Status: "COMPLETED"}, nil).Once()

	order, err := bridge.Complete(ctx, "ORDER-1", "")

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", order.Status)
}

func TestBridge_Attempt(t *testing.T) {
	store := newMemoryStore()
	bridge := newTestBridge(&MockGateway{}, &MockBookings{}, store)
	ctx := context.Background()

	_, err := bridge.Attempt(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrAttemptNotFound)

	store.attempts["ORDER-1"] = domain.PaymentAttempt{OrderID: "ORDER-1", State: domain.PaymentStateProcessing}
	attempt, err := bridge.Attempt(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateProcessing, attempt.State)
}
