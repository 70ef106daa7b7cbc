package domain

import "time"

type FieldKind string

const (
	FieldKindEmail    FieldKind = "email"
	FieldKindText     FieldKind = "text"
	FieldKindTextarea FieldKind = "textarea"
)

func (k FieldKind) Supported() bool {
	return k == FieldKindEmail || k == FieldKindText || k == FieldKindTextarea
}

type FormField struct {
	Name         string    `json:"name"`
	Label        string    `json:"label,omitempty"`
	Kind         FieldKind `json:"blockType"`
	Required     bool      `json:"required,omitempty"`
	DefaultValue string    `json:"defaultValue,omitempty"`
}

// DisplayName is the label used in validation messages.
func (f FormField) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

type Form struct {
	ID                string
	Title             string
	Fields            []FormField
	SubmitButtonLabel string
	ConfirmationText  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type SubmissionValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type Submission struct {
	ID        string
	FormID    string
	Values    []SubmissionValue
	CreatedAt time.Time
}
