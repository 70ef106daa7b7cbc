package api

import (
	"time"

	"github.com/Domenick1991/wolkenticket/internal/domain"
)

type bookingResponse struct {
	ID              string             `json:"id"`
	FlightType      domain.FlightType  `json:"flight_type"`
	DepartureCity   domain.City        `json:"departure_city"`
	DestinationCity domain.City        `json:"destination_city"`
	DepartureDate   string             `json:"departure_date"`
	ReturnDate      string             `json:"return_date,omitempty"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	Passengers      []domain.Passenger `json:"passengers"`
	PaymentMethod   string             `json:"payment_method"`
	Status          string             `json:"status"`
	TotalPriceCents int64              `json:"total_price_cents"`
	Currency        string             `json:"currency"`
	TransactionID   string             `json:"transaction_id,omitempty"`
	OrderID         string             `json:"order_id,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

func newBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID,
		FlightType:      b.FlightType,
		DepartureCity:   b.DepartureCity,
		DestinationCity: b.DestinationCity,
		DepartureDate:   b.DepartureDate.Format(time.DateOnly),
		Email:           b.Email,
		Phone:           b.Phone,
		Passengers:      b.Passengers,
		PaymentMethod:   string(b.PaymentMethod),
		Status:          string(b.Status),
		TotalPriceCents: b.TotalPriceCents,
		Currency:        b.Currency,
		TransactionID:   b.TransactionID,
		OrderID:         b.OrderID,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	if b.ReturnDate != nil {
		resp.ReturnDate = b.ReturnDate.Format(time.DateOnly)
	}
	return resp
}
