package email

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Domenick1991/wolkenticket/config"
	"github.com/Domenick1991/wolkenticket/internal/document"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender delivers booking confirmations through an SMTP relay.
type Sender struct {
	dialer   Dialer
	from     string
	fromName string
	logger   *zap.Logger
}

func NewSender(cfg config.SMTPConfig, logger *zap.Logger) *Sender {
	return NewSenderWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, cfg.FromName, logger)
}

func NewSenderWithDialer(dialer Dialer, from, fromName string, logger *zap.Logger) *Sender {
	return &Sender{dialer: dialer, from: from, fromName: fromName, logger: logger}
}

func (s *Sender) SendConfirmation(ctx context.Context, b *domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf, filename, err := document.Reservation(b)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", b.Email)
	m.SetHeader("Subject", ConfirmationSubject(b))
	m.SetBody("text/plain", ConfirmationBody(b))
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation to %s: %w", b.Email, err)
	}
	s.logger.Info("confirmation email sent", zap.String("booking_id", b.ID), zap.String("to", b.Email))
	return nil
}

// Notifier sends the booking confirmation to the traveller.
type Notifier interface {
	SendConfirmation(ctx context.Context, b *domain.Booking) error
}

// New returns an SMTP sender, or a LogSender when cfg has no host.
func New(cfg config.SMTPConfig, logger *zap.Logger) Notifier {
	if cfg.Host == "" {
		logger.Warn("smtp host not set, confirmation emails are only logged")
		return NewLogSender(logger)
	}
	return NewSender(cfg, logger)
}

// LogSender only logs confirmations. Used when no SMTP host is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendConfirmation(ctx context.Context, b *domain.Booking) error {
	s.logger.Info("smtp not configured, confirmation email skipped",
		zap.String("booking_id", b.ID),
		zap.String("to", b.Email),
		zap.String("subject", ConfirmationSubject(b)))
	return nil
}

func ConfirmationSubject(b *domain.Booking) string {
	return fmt.Sprintf("Your flight reservation %s to %s", b.DepartureCity.Value, b.DestinationCity.Value)
}

func ConfirmationBody(b *domain.Booking) string {
	var sb strings.Builder
	sb.WriteString("Thank you for booking with Wolkenticket.\n\n")
	fmt.Fprintf(&sb, "Booking code: %s\n", b.ID)
	if b.TransactionID != "" {
		fmt.Fprintf(&sb, "Transaction ID: %s\n", b.TransactionID)
	}
	fmt.Fprintf(&sb, "Route: %s -> %s\n", b.DepartureCity.Label, b.DestinationCity.Label)
	fmt.Fprintf(&sb, "Departure: %s\n", b.DepartureDate.Format("2006-01-02"))
	if b.FlightType == domain.FlightTypeRoundTrip && b.ReturnDate != nil {
		fmt.Fprintf(&sb, "Return: %s\n", b.ReturnDate.Format("2006-01-02"))
	}
	sb.WriteString("Passengers:\n")
	for _, p := range b.Passengers {
		fmt.Fprintf(&sb, "  - %s (%s)\n", p.Name, p.BirthDate)
	}
	fmt.Fprintf(&sb, "Total: %s %s\n\n", domain.FormatCents(b.TotalPriceCents), b.Currency)
	sb.WriteString("Your reservation document is attached. You can look up this booking at any time with the booking code or transaction ID.\n\n")
	sb.WriteString("Wolkenticket Support\n")
	return sb.String()
}

var (
	_ Notifier = (*Sender)(nil)
	_ Notifier = (*LogSender)(nil)
)
