package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/wolkenticket/internal/domain"
)

type Intent string

const (
	IntentCapture   Intent = "CAPTURE"
	IntentAuthorize Intent = "AUTHORIZE"
)

// Issue codes PayPal reports in error details.
const (
	IssueInstrumentDeclined = "INSTRUMENT_DECLINED"
)

// Gateway is the payment provider used by checkout.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	// CaptureOrder captures an approved order. requestID is the idempotency key of this
	// capture attempt; a retry after a declined instrument must use a new one.
	CaptureOrder(ctx context.Context, orderID, requestID string) (*Order, error)
	CompleteOrder(ctx context.Context, orderID string, intent Intent) (*Order, error)
}

type OrderRequest struct {
	Intent      Intent
	AmountCents int64
	Currency    string
	Description string
}

type IssueDetail struct {
	Field       string `json:"field,omitempty"`
	Issue       string `json:"issue"`
	Description string `json:"description"`
}

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount *Money `json:"amount,omitempty"`
}

type Payments struct {
	Captures       []Capture `json:"captures,omitempty"`
	Authorizations []Capture `json:"authorizations,omitempty"`
}

type PurchaseUnit struct {
	ReferenceID string   `json:"reference_id,omitempty"`
	Payments    Payments `json:"payments"`
}

// Order is the subset of the PayPal order resource the shop reads.
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	DebugID       string         `json:"debug_id,omitempty"`
	Details       []IssueDetail  `json:"details,omitempty"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
}

// FirstIssue returns the first reported issue or nil.
func (o *Order) FirstIssue() *IssueDetail {
	if o == nil || len(o.Details) == 0 {
		return nil
	}
	return &o.Details[0]
}

// CaptureID is purchase_units[0].payments.captures[0].id, the payment transaction id.
func (o *Order) CaptureID() string {
	if o == nil || len(o.PurchaseUnits) == 0 || len(o.PurchaseUnits[0].Payments.Captures) == 0 {
		return ""
	}
	return o.PurchaseUnits[0].Payments.Captures[0].ID
}

// CapturedAmount is the amount of the first capture in minor units with its currency.
// ok is false when the response carries no parsable amount.
func (o *Order) CapturedAmount() (cents int64, currency string, ok bool) {
	if o == nil || len(o.PurchaseUnits) == 0 || len(o.PurchaseUnits[0].Payments.Captures) == 0 {
		return 0, "", false
	}
	m := o.PurchaseUnits[0].Payments.Captures[0].Amount
	if m == nil {
		return 0, "", false
	}
	cents, err := domain.ParseCents(m.Value)
	if err != nil {
		return 0, "", false
	}
	return cents, m.CurrencyCode, true
}

// APIError is a non-2xx answer from PayPal.
type APIError struct {
	StatusCode int           `json:"-"`
	Name       string        `json:"name"`
	Message    string        `json:"message"`
	DebugID    string        `json:"debug_id"`
	Details    []IssueDetail `json:"details"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		d := e.Details[0]
		return strings.TrimSpace(fmt.Sprintf("%s %s (%s)", d.Issue, d.Description, e.DebugID))
	}
	if e.Message != "" {
		return fmt.Sprintf("paypal: %s: %s (%s)", e.Name, e.Message, e.DebugID)
	}
	return fmt.Sprintf("paypal: unexpected status %d", e.StatusCode)
}

// Order exposes the error as an order carrying its details, the shape a successful call would return.
func (e *APIError) Order() *Order {
	return &Order{DebugID: e.DebugID, Details: e.Details}
}
