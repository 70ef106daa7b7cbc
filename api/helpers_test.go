package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func testBooking() *domain.Booking {
	ret := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:              "5f0c6a51-9d4e-4c1b-8a0d-2b7f3c9e1a11",
		FlightType:      domain.FlightTypeRoundTrip,
		DepartureCity:   domain.City{Value: "CGK", Label: "Soekarno-Hatta - Jakarta, Indonesia"},
		DestinationCity: domain.City{Value: "AMS", Label: "Schiphol - Amsterdam, Netherlands"},
		DepartureDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:      &ret,
		Email:           "traveller@example.com",
		Phone:           "+62 811 000 000",
		Passengers:      []domain.Passenger{{Name: "Ayu", BirthDate: "1990-01-01"}},
		PaymentMethod:   domain.PaymentMethodPayPal,
		Status:          domain.BookingStatusConfirmed,
		TotalPriceCents: 800,
		Currency:        "USD",
		TransactionID:   "3C679366HH908993F",
		OrderID:         "5O190127TN364715T",
		CreatedAt:       time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC),
	}
}
