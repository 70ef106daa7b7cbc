package domain

import "time"

type FlightType string

const (
	FlightTypeOneWay    FlightType = "oneWay"
	FlightTypeRoundTrip FlightType = "roundTrip"
)

func (t FlightType) Valid() bool {
	return t == FlightTypeOneWay || t == FlightTypeRoundTrip
}

type PaymentMethod string

const (
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodPayPal, PaymentMethodBankTransfer, PaymentMethodCreditCard:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking may move from s to next.
// Transitions only go forward: cancelled and completed are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}

// City is an airport picked from the search list. Value holds the IATA code.
type City struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Country string `json:"country,omitempty"`
}

func (c City) Empty() bool {
	return c.Value == "" && c.Label == ""
}

type Passenger struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
}

// Draft is the not yet persisted checkout state.
type Draft struct {
	FlightType      FlightType    `json:"flightType"`
	DepartureCity   City          `json:"departureCity"`
	DestinationCity City          `json:"destinationCity"`
	DepartureDate   string        `json:"departureDate"`
	ReturnDate      string        `json:"returnDate,omitempty"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	Passengers      []Passenger   `json:"passengers"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Notes           string        `json:"notes,omitempty"`
}

// NewDraft returns the defaults the storefront starts the checkout with.
func NewDraft() Draft {
	return Draft{
		FlightType:    FlightTypeRoundTrip,
		Passengers:    []Passenger{{}},
		PaymentMethod: PaymentMethodPayPal,
	}
}

type Booking struct {
	ID              string
	FlightType      FlightType
	DepartureCity   City
	DestinationCity City
	DepartureDate   time.Time
	ReturnDate      *time.Time
	Email           string
	Phone           string
	Passengers      []Passenger
	PaymentMethod   PaymentMethod
	Status          BookingStatus
	TotalPriceCents int64
	Currency        string
	TransactionID   string
	OrderID         string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalPriceCents is the booking price: one unit per passenger.
func TotalPriceCents(passengers int, unitPriceCents int64) int64 {
	if passengers < 0 {
		return 0
	}
	return int64(passengers) * unitPriceCents
}

type BookingFilter struct {
	Status BookingStatus
	Limit  int
	Offset int
}
