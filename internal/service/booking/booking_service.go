package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/wolkenticket/internal/clock"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateInput) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error)
	FindByCode(ctx context.Context, code string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
}

type CreateInput struct {
	Draft         domain.Draft
	Status        domain.BookingStatus
	TransactionID string
	OrderID       string
}

// Hook runs after a booking was stored. Its error never fails the booking.
type Hook interface {
	Name() string
	AfterCreate(ctx context.Context, booking *domain.Booking) error
}

// StatusHook is implemented by hooks that also react to admin status changes.
type StatusHook interface {
	AfterStatusChange(ctx context.Context, booking *domain.Booking) error
}

type BookingService struct {
	bookings       repository.BookingRepository
	hooks          []Hook
	clock          clock.Clock
	logger         *zap.Logger
	unitPriceCents int64
	currency       string
}

type BookingServiceOption func(*BookingService)

func WithHooks(hooks ...Hook) BookingServiceOption {
	return func(s *BookingService) {
		s.hooks = append(s.hooks, hooks...)
	}
}

func WithClock(c clock.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clock = c
	}
}

func WithPricing(unitPriceCents int64, currency string) BookingServiceOption {
	return func(s *BookingService) {
		s.unitPriceCents = unitPriceCents
		s.currency = currency
	}
}

func NewBookingService(bookings repository.BookingRepository, logger *zap.Logger, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		clock:          clock.NewSystem(),
		logger:         logger,
		unitPriceCents: 800,
		currency:       "USD",
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create validates the draft, stores the booking and then runs the post-create hooks.
// Validation failures come back as *domain.ValidationError.
func (s *BookingService) Create(ctx context.Context, input CreateInput) (*domain.Booking, error) {
	status := input.Status
	if status == "" {
		status = domain.BookingStatusPending
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	d := input.Draft
	if errs := d.Validate(clock.Today(s.clock)); !errs.Empty() {
		return nil, domain.NewValidationError(errs)
	}

	departure, err := domain.ParseDate(d.DepartureDate)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldDepartureDate: {"Departure date is invalid"}})
	}
	booking := &domain.Booking{
		ID:              uuid.NewString(),
		FlightType:      d.FlightType,
		DepartureCity:   d.DepartureCity,
		DestinationCity: d.DestinationCity,
		DepartureDate:   departure,
		Email:           strings.TrimSpace(d.Email),
		Phone:           strings.TrimSpace(d.Phone),
		Passengers:      d.Passengers,
		PaymentMethod:   d.PaymentMethod,
		Status:          status,
		TotalPriceCents: domain.TotalPriceCents(len(d.Passengers), s.unitPriceCents),
		Currency:        s.currency,
		TransactionID:   strings.TrimSpace(input.TransactionID),
		OrderID:         strings.TrimSpace(input.OrderID),
		Notes:           d.Notes,
	}
	if d.FlightType == domain.FlightTypeRoundTrip {
		ret, err := domain.ParseDate(d.ReturnDate)
		if err != nil {
			return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldReturnDate: {"Return date is invalid"}})
		}
		booking.ReturnDate = &ret
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) && booking.OrderID != "" {
			if existing, getErr := s.bookings.GetByOrderID(ctx, booking.OrderID); getErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("status", string(booking.Status)),
		zap.String("order_id", booking.OrderID))
	s.runHooks(ctx, booking)
	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.ErrOrderIDRequired
	}
	return s.bookings.GetByOrderID(ctx, orderID)
}

// FindByCode looks a booking up by its id or by the payment transaction id.
func (s *BookingService) FindByCode(ctx context.Context, code string) (*domain.Booking, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrBookingNotFound
	}
	return s.bookings.FindByCode(ctx, code)
}

func (s *BookingService) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.bookings.List(ctx, filter)
}

func (s *BookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, domain.ErrStatusTransition
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, current.Status, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking status changed",
		zap.String("booking_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)))
	s.runStatusHooks(ctx, updated)
	return updated, nil
}

func (s *BookingService) runStatusHooks(ctx context.Context, booking *domain.Booking) {
	for _, h := range s.hooks {
		sh, ok := h.(StatusHook)
		if !ok {
			continue
		}
		if err := sh.AfterStatusChange(ctx, booking); err != nil {
			s.logger.Warn("status hook failed",
				zap.String("hook", h.Name()),
				zap.String("booking_id", booking.ID),
				zap.Error(err))
		}
	}
}

func (s *BookingService) runHooks(ctx context.Context, booking *domain.Booking) {
	for _, h := range s.hooks {
		if err := h.AfterCreate(ctx, booking); err != nil {
			s.logger.Warn("post-create hook failed",
				zap.String("hook", h.Name()),
				zap.String("booking_id", booking.ID),
				zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
