package api

import (
	"context"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/checkout"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	paypal "github.com/Domenick1991/wolkenticket/internal/payment"
	"github.com/Domenick1991/wolkenticket/internal/service/auth"
	"github.com/Domenick1991/wolkenticket/internal/service/booking"
	"github.com/Domenick1991/wolkenticket/internal/service/payment"
	"github.com/stretchr/testify/mock"
)

type MockAirportsUseCase struct {
	mock.Mock
}

func (m *MockAirportsUseCase) Search(ctx context.Context, query string, limit int) ([]domain.AirportOption, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AirportOption), args.Error(1)
}

func (m *MockAirportsUseCase) Refresh(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAirportsUseCase) RequestRefresh() {
	m.Called()
}

type MockCheckoutUseCase struct {
	mock.Mock
}

func (m *MockCheckoutUseCase) Start(ctx context.Context) (*checkout.Form, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Form), args.Error(1)
}

func (m *MockCheckoutUseCase) Get(ctx context.Context, id string) (*checkout.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Form), args.Error(1)
}

func (m *MockCheckoutUseCase) UpdateDraft(ctx context.Context, id string, draft domain.Draft) (*checkout.Form, error) {
	args := m.Called(ctx, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Form), args.Error(1)
}

func (m *MockCheckoutUseCase) Advance(ctx context.Context, id string) (*checkout.Form, bool, domain.FieldErrors, error) {
	args := m.Called(ctx, id)
	var form *checkout.Form
	if args.Get(0) != nil {
		form = args.Get(0).(*checkout.Form)
	}
	var fields domain.FieldErrors
	if args.Get(2) != nil {
		fields = args.Get(2).(domain.FieldErrors)
	}
	return form, args.Bool(1), fields, args.Error(3)
}

func (m *MockCheckoutUseCase) Retreat(ctx context.Context, id string) (*checkout.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Form), args.Error(1)
}

type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) CreateOrder(ctx context.Context, quantity int) (*domain.PaymentAttempt, error) {
	args := m.Called(ctx, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAttempt), args.Error(1)
}

func (m *MockPaymentUseCase) Capture(ctx context.Context, orderID string, draft domain.Draft) (*payment.CaptureResult, error) {
	args := m.Called(ctx, orderID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CaptureResult), args.Error(1)
}

func (m *MockPaymentUseCase) Complete(ctx context.Context, orderID string, intent paypal.Intent) (*paypal.Order, error) {
	args := m.Called(ctx, orderID, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Order), args.Error(1)
}

func (m *MockPaymentUseCase) Attempt(ctx context.Context, orderID string) (*domain.PaymentAttempt, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAttempt), args.Error(1)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Create(ctx context.Context, input booking.CreateInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) FindByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockFormsUseCase struct {
	mock.Mock
}

func (m *MockFormsUseCase) GetForm(ctx context.Context, id string) (*domain.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form), args.Error(1)
}

func (m *MockFormsUseCase) Submit(ctx context.Context, formID string, values map[string]string) (*domain.Submission, error) {
	args := m.Called(ctx, formID, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Token), args.Error(1)
}

func (m *MockAuthUseCase) ValidateToken(raw string) (*auth.Claims, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *MockAuthUseCase) EnsureAdmin(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Int(1), args.Error(2)
}
