package checkout

import (
	"time"

	"github.com/Domenick1991/wolkenticket/internal/domain"
)

type Step int

const (
	StepTravel Step = iota + 1
	StepPassengers
	StepPayment
)

const (
	FirstStep = StepTravel
	LastStep  = StepPayment
)

// stepFields lists the draft fields checked before leaving a step.
// The payment step has none: the payment bridge gates it.
var stepFields = map[Step][]string{
	StepTravel: {
		domain.FieldFlightType,
		domain.FieldDepartureCity,
		domain.FieldDestinationCity,
		domain.FieldDepartureDate,
		domain.FieldReturnDate,
	},
	StepPassengers: {
		domain.FieldEmail,
		domain.FieldPhone,
		domain.FieldPassengers,
	},
}

// Form is the three-step checkout state for one browsing session.
type Form struct {
	ID        string       `json:"id"`
	Step      Step         `json:"step"`
	Draft     domain.Draft `json:"draft"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewForm(id string) *Form {
	return &Form{ID: id, Step: FirstStep, Draft: domain.NewDraft()}
}

// Validate checks only the fields that belong to the current step.
func (f *Form) Validate(today time.Time) domain.FieldErrors {
	fields, ok := stepFields[f.Step]
	if !ok {
		return domain.FieldErrors{}
	}
	return f.Draft.Validate(today, fields...)
}

// Advance moves to the next step when the current step validates.
// The step never goes past LastStep. It returns whether the step changed
// together with the field errors that blocked it.
func (f *Form) Advance(today time.Time) (bool, domain.FieldErrors) {
	errs := f.Validate(today)
	if !errs.Empty() {
		return false, errs
	}
	if f.Step >= LastStep {
		f.Step = LastStep
		return false, errs
	}
	f.Step++
	return true, errs
}

// Retreat moves back one step, never before FirstStep.
func (f *Form) Retreat() {
	if f.Step > FirstStep {
		f.Step--
		return
	}
	f.Step = FirstStep
}
