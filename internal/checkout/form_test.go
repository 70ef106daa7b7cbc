package checkout

import (
	"testing"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

func filledDraft() domain.Draft {
	return domain.Draft{
		FlightType:      domain.FlightTypeOneWay,
		DepartureCity:   domain.City{Value: "CGK", Label: "Soekarno-Hatta - Jakarta, Indonesia"},
		DestinationCity: domain.City{Value: "AMS", Label: "Schiphol - Amsterdam, Netherlands"},
		DepartureDate:   "2025-06-01",
		Email:           "traveller@example.com",
		Phone:           "+31 20 000 0000",
		Passengers:      []domain.Passenger{{Name: "Sam", BirthDate: "1988-03-04"}},
		PaymentMethod:   domain.PaymentMethodPayPal,
	}
}

func TestForm_Advance_BlockedByStepFields(t *testing.T) {
	form := NewForm("s1")

	advanced, errs := form.Advance(today)

	assert.False(t, advanced)
	assert.Equal(t, StepTravel, form.Step)
	assert.Equal(t, "Departure city is required", errs.First(domain.FieldDepartureCity))
	assert.Equal(t, "Return date is required for round trips", errs.First(domain.FieldReturnDate))
	// contact fields belong to the next step
	assert.Empty(t, errs.First(domain.FieldEmail))
}

func TestForm_Advance_StepsByOne(t *testing.T) {
	form := NewForm("s1")
	form.Draft = filledDraft()

	advanced, errs := form.Advance(today)
	assert.True(t, advanced)
	assert.True(t, errs.Empty())
	assert.Equal(t, StepPassengers, form.Step)

	advanced, _ = form.Advance(today)
	assert.True(t, advanced)
	assert.Equal(t, StepPayment, form.Step)

	// clamped at the last step
	advanced, _ = form.Advance(today)
	assert.False(t, advanced)
	assert.Equal(t, StepPayment, form.Step)
}

func TestForm_Advance_PassengerStepValidation(t *testing.T) {
	form := NewForm("s1")
	form.Draft = filledDraft()
	form.Draft.Passengers = nil
	form.Step = StepPassengers

	advanced, errs := form.Advance(today)

	assert.False(t, advanced)
	assert.Equal(t, StepPassengers, form.Step)
	assert.Equal(t, "At least one passenger is required", errs.First(domain.FieldPassengers))
}

func TestForm_Retreat(t *testing.T) {
	form := NewForm("s1")
	form.Step = StepPayment

	form.Retreat()
	assert.Equal(t, StepPassengers, form.Step)
	form.Retreat()
	assert.Equal(t, StepTravel, form.Step)
	form.Retreat()
	assert.Equal(t, StepTravel, form.Step)
}
