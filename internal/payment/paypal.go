package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type PayPalConfig struct {
	BaseURL  string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

// PayPalGateway talks to the PayPal Orders v2 REST API.
// Bearer tokens come from the client credentials flow and are cached until they expire.
type PayPalGateway struct {
	client *resty.Client
}

func NewPayPalGateway(cfg PayPalConfig) *PayPalGateway {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.Secret,
		TokenURL:     baseURL + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})

	client := resty.NewWithClient(creds.Client(tokenCtx)).
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &PayPalGateway{client: client}
}

type purchaseUnitRequest struct {
	Amount      Money  `json:"amount"`
	Description string `json:"description,omitempty"`
}

type createOrderRequest struct {
	Intent        Intent                `json:"intent"`
	PurchaseUnits []purchaseUnitRequest `json:"purchase_units"`
}

func (g *PayPalGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	intent := req.Intent
	if intent == "" {
		intent = IntentCapture
	}
	body := createOrderRequest{
		Intent: intent,
		PurchaseUnits: []purchaseUnitRequest{{
			Amount:      Money{CurrencyCode: req.Currency, Value: domain.FormatCents(req.AmountCents)},
			Description: req.Description,
		}},
	}

	order, err := g.post(ctx, "/v2/checkout/orders", body, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("failed to create order: %w", &APIError{DebugID: order.DebugID, Details: order.Details, Message: "missing order id", Name: "INVALID_RESPONSE"})
	}
	return order, nil
}

// CaptureOrder captures an approved order. A declined instrument comes back as *APIError
// with the INSTRUMENT_DECLINED issue.
func (g *PayPalGateway) CaptureOrder(ctx context.Context, orderID, requestID string) (*Order, error) {
	return g.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", nil, requestID)
}

func (g *PayPalGateway) CompleteOrder(ctx context.Context, orderID string, intent Intent) (*Order, error) {
	var action string
	switch intent {
	case IntentCapture:
		action = "capture"
	case IntentAuthorize:
		action = "authorize"
	default:
		return nil, fmt.Errorf("unsupported intent %q", intent)
	}
	return g.post(ctx, "/v2/checkout/orders/"+orderID+"/"+action, nil, action+"-"+orderID)
}

func (g *PayPalGateway) post(ctx context.Context, path string, body any, requestID string) (*Order, error) {
	r := g.client.R().SetContext(ctx)
	if body != nil {
		r.SetBody(body)
	} else {
		r.SetBody(struct{}{})
	}
	if requestID != "" {
		r.SetHeader("PayPal-Request-Id", requestID)
	}

	resp, err := r.Post(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		_ = json.Unmarshal(resp.Body(), apiErr)
		return nil, apiErr
	}

	var order Order
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("failed to decode paypal response: %w", err)
	}
	return &order, nil
}

var _ Gateway = (*PayPalGateway)(nil)
