package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error)
	FindByCode(ctx context.Context, code string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id::text, flight_type, departure_city, destination_city, departure_date, return_date,
	email, phone, passengers, payment_method, status, total_price_cents, currency,
	transaction_id, order_id, notes, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	departureCity, err := json.Marshal(b.DepartureCity)
	if err != nil {
		return fmt.Errorf("failed to encode departure city: %w", err)
	}
	destinationCity, err := json.Marshal(b.DestinationCity)
	if err != nil {
		return fmt.Errorf("failed to encode destination city: %w", err)
	}
	passengers, err := json.Marshal(b.Passengers)
	if err != nil {
		return fmt.Errorf("failed to encode passengers: %w", err)
	}

	err = r.db.QueryRow(ctx, `INSERT INTO bookings (id, flight_type, departure_city, destination_city, departure_date, return_date,
		email, phone, passengers, payment_method, status, total_price_cents, currency, transaction_id, order_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`,
		b.ID, b.FlightType, departureCity, destinationCity, b.DepartureDate, b.ReturnDate,
		b.Email, b.Phone, passengers, b.PaymentMethod, b.Status, b.TotalPriceCents, b.Currency,
		nullString(b.TransactionID), nullString(b.OrderID), b.Notes).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id::text = $1`, id)
}

func (r *PGBookingRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE order_id = $1`, orderID)
}

// FindByCode matches either the booking id or the payment transaction id.
func (r *PGBookingRepository) FindByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE id::text = $1 OR transaction_id = $1
		ORDER BY created_at
		LIMIT 1`, code)
}

func (r *PGBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// UpdateStatus moves a booking from one status to another. It returns ErrStatusTransition
// when the stored status is no longer from.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	b, err := r.getOne(ctx, `UPDATE bookings SET status = $1, updated_at = now()
		WHERE id::text = $2 AND status = $3
		RETURNING `+bookingColumns, to, id, from)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return nil, domain.ErrStatusTransition
	}
	return b, err
}

func (r *PGBookingRepository) getOne(ctx context.Context, sql string, args ...any) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b                                           domain.Booking
		departureCity, destinationCity, passengers []byte
		returnDate                                  *time.Time
		transactionID, orderID                      *string
	)
	if err := row.Scan(&b.ID, &b.FlightType, &departureCity, &destinationCity, &b.DepartureDate, &returnDate,
		&b.Email, &b.Phone, &passengers, &b.PaymentMethod, &b.Status, &b.TotalPriceCents, &b.Currency,
		&transactionID, &orderID, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(departureCity, &b.DepartureCity); err != nil {
		return nil, fmt.Errorf("failed to decode departure city: %w", err)
	}
	if err := json.Unmarshal(destinationCity, &b.DestinationCity); err != nil {
		return nil, fmt.Errorf("failed to decode destination city: %w", err)
	}
	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return nil, fmt.Errorf("failed to decode passengers: %w", err)
	}
	b.ReturnDate = returnDate
	b.TransactionID = derefString(transactionID)
	b.OrderID = derefString(orderID)
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
