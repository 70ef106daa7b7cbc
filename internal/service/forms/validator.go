package forms

import (
	"strings"

	"github.com/Domenick1991/wolkenticket/internal/domain"
)

// Validator checks submissions against the fields of one form.
// Fields of an unsupported kind are ignored.
type Validator struct {
	fields []domain.FormField
}

func BuildValidator(form *domain.Form) *Validator {
	fields := make([]domain.FormField, 0, len(form.Fields))
	for _, f := range form.Fields {
		if f.Kind.Supported() {
			fields = append(fields, f)
		}
	}
	return &Validator{fields: fields}
}

// Defaults returns the initial value of every field.
func (v *Validator) Defaults() map[string]string {
	out := make(map[string]string, len(v.fields))
	for _, f := range v.fields {
		out[f.Name] = f.DefaultValue
	}
	return out
}

func (v *Validator) Validate(values map[string]string) domain.FieldErrors {
	errs := domain.FieldErrors{}
	for _, f := range v.fields {
		value := strings.TrimSpace(values[f.Name])
		if value == "" {
			if f.Required {
				errs.Add(f.Name, f.DisplayName()+" is required")
			}
			continue
		}
		if f.Kind == domain.FieldKindEmail && !domain.ValidEmail(value) {
			errs.Add(f.Name, "Invalid email address")
		}
	}
	return errs
}

// Transform turns the value map into {field, value} pairs in form field order.
// Keys that are not fields of the form are dropped.
func (v *Validator) Transform(values map[string]string) []domain.SubmissionValue {
	out := make([]domain.SubmissionValue, 0, len(v.fields))
	for _, f := range v.fields {
		value, ok := values[f.Name]
		if !ok {
			value = f.DefaultValue
		}
		out = append(out, domain.SubmissionValue{Field: f.Name, Value: value})
	}
	return out
}
