package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/wolkenticket/internal/clock"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/kafka"
)

type Notifier interface {
	SendConfirmation(ctx context.Context, booking *domain.Booking) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// EmailHook sends the confirmation email in the request that created the booking.
type EmailHook struct {
	notifier Notifier
}

func NewEmailHook(notifier Notifier) *EmailHook {
	return &EmailHook{notifier: notifier}
}

func (h *EmailHook) Name() string { return "email" }

func (h *EmailHook) AfterCreate(ctx context.Context, booking *domain.Booking) error {
	return h.notifier.SendConfirmation(ctx, booking)
}

// EventHook publishes booking_confirmed so the worker sends the email.
type EventHook struct {
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	clock              clock.Clock
}

func NewEventHook(producer Producer, bookingTopic, notificationsTopic string, clk clock.Clock) *EventHook {
	return &EventHook{
		producer:           producer,
		bookingTopic:       bookingTopic,
		notificationsTopic: notificationsTopic,
		clock:              clk,
	}
}

func (h *EventHook) Name() string { return "event" }

// AfterCreate publishes to both topics. A failure on one does not keep the event from the other.
func (h *EventHook) AfterCreate(ctx context.Context, booking *domain.Booking) error {
	event := NewBookingEvent(kafka.EventBookingConfirmed, booking, h.clock)
	var errs []error
	for _, topic := range []string{h.notificationsTopic, h.bookingTopic} {
		if topic == "" {
			continue
		}
		if err := h.producer.Publish(ctx, topic, booking.ID, event); err != nil {
			errs = append(errs, fmt.Errorf("failed to publish to %s: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}

// AfterStatusChange publishes booking_status_changed on the booking topic only;
// status changes do not trigger emails.
func (h *EventHook) AfterStatusChange(ctx context.Context, booking *domain.Booking) error {
	if h.bookingTopic == "" {
		return nil
	}
	event := NewBookingEvent(kafka.EventBookingStatusChanged, booking, h.clock)
	return h.producer.Publish(ctx, h.bookingTopic, booking.ID, event)
}

func NewBookingEvent(eventType string, b *domain.Booking, clk clock.Clock) kafka.BookingEvent {
	return kafka.BookingEvent{
		Type:            eventType,
		BookingID:       b.ID,
		Email:           b.Email,
		Status:          string(b.Status),
		TransactionID:   b.TransactionID,
		OrderID:         b.OrderID,
		TotalPriceCents: b.TotalPriceCents,
		Currency:        b.Currency,
		OccurredAt:      clk.Now(),
	}
}

var (
	_ Hook       = (*EmailHook)(nil)
	_ Hook       = (*EventHook)(nil)
	_ StatusHook = (*EventHook)(nil)
)
