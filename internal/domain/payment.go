package domain

import "time"

// PaymentState is where a PayPal order is in the checkout payment flow.
type PaymentState string

const (
	PaymentStateIdle         PaymentState = "idle"
	PaymentStateOrderCreated PaymentState = "order_created"
	PaymentStateProcessing   PaymentState = "processing"
	PaymentStateSucceeded    PaymentState = "succeeded"
	PaymentStateFailed       PaymentState = "failed"
)

// PaymentAttempt tracks one PayPal order so clients can poll its progress.
type PaymentAttempt struct {
	OrderID   string       `json:"order_id"`
	Quantity  int          `json:"quantity"`
	State     PaymentState `json:"state"`
	Message   string       `json:"message,omitempty"`
	BookingID string       `json:"booking_id,omitempty"`
	// Captures counts capture calls sent to PayPal for this order.
	Captures  int       `json:"captures,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
