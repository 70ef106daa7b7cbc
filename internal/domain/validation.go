package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	FieldFlightType      = "flightType"
	FieldDepartureCity   = "departureCity"
	FieldDestinationCity = "destinationCity"
	FieldDepartureDate   = "departureDate"
	FieldReturnDate      = "returnDate"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldPassengers      = "passengers"
	FieldPaymentMethod   = "paymentMethod"
)

var validate = validator.New()

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// ParseDate accepts a calendar date ("2006-01-02") or a full RFC 3339 timestamp
// and returns the calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// Validate checks the named fields of the draft against the booking rules.
// With no fields named every field is checked. today must be a midnight UTC date.
func (d Draft) Validate(today time.Time, fields ...string) FieldErrors {
	errs := FieldErrors{}
	want := wanted(fields)

	if want(FieldFlightType) && !d.FlightType.Valid() {
		errs.Add(FieldFlightType, "Please select a flight type")
	}
	if want(FieldDepartureCity) && d.DepartureCity.Empty() {
		errs.Add(FieldDepartureCity, "Departure city is required")
	}
	if want(FieldDestinationCity) && d.DestinationCity.Empty() {
		errs.Add(FieldDestinationCity, "Destination city is required")
	}

	departure, departureOK := time.Time{}, false
	if strings.TrimSpace(d.DepartureDate) != "" {
		if t, err := ParseDate(d.DepartureDate); err == nil {
			departure, departureOK = t, true
		}
	}
	if want(FieldDepartureDate) {
		switch {
		case strings.TrimSpace(d.DepartureDate) == "":
			errs.Add(FieldDepartureDate, "Departure date is required")
		case !departureOK:
			errs.Add(FieldDepartureDate, "Departure date is invalid")
		case departure.Before(today):
			errs.Add(FieldDepartureDate, "Departure date must be today or later")
		}
	}

	if want(FieldReturnDate) && d.FlightType == FlightTypeRoundTrip {
		if strings.TrimSpace(d.ReturnDate) == "" {
			errs.Add(FieldReturnDate, "Return date is required for round trips")
		} else if ret, err := ParseDate(d.ReturnDate); err != nil {
			errs.Add(FieldReturnDate, "Return date is invalid")
		} else if departureOK && ret.Before(departure) {
			errs.Add(FieldReturnDate, "Return date must be after departure date")
		}
	}

	if want(FieldEmail) {
		if strings.TrimSpace(d.Email) == "" {
			errs.Add(FieldEmail, "Email is required")
		} else if !ValidEmail(d.Email) {
			errs.Add(FieldEmail, "Invalid email address")
		}
	}
	if want(FieldPhone) && strings.TrimSpace(d.Phone) == "" {
		errs.Add(FieldPhone, "Phone number is required")
	}
	if want(FieldPassengers) {
		if len(d.Passengers) == 0 {
			errs.Add(FieldPassengers, "At least one passenger is required")
		}
		for i, p := range d.Passengers {
			if strings.TrimSpace(p.Name) == "" {
				errs.Add(fmt.Sprintf("passengers[%d].name", i), "Name is required")
			}
			if strings.TrimSpace(p.BirthDate) == "" {
				errs.Add(fmt.Sprintf("passengers[%d].birthDate", i), "Birth date is required")
			}
		}
	}
	if want(FieldPaymentMethod) && !d.PaymentMethod.Valid() {
		errs.Add(FieldPaymentMethod, "Invalid payment method")
	}

	return errs
}

func wanted(fields []string) func(string) bool {
	if len(fields) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return func(f string) bool {
		_, ok := set[f]
		return ok
	}
}
