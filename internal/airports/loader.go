package airports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/go-resty/resty/v2"
)

// Loader downloads the airport list and converts it to searchable options.
type Loader struct {
	client *resty.Client
	url    string
}

func NewLoader(url string, timeout time.Duration) *Loader {
	return &Loader{
		client: resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
		url:    url,
	}
}

func (l *Loader) Fetch(ctx context.Context) ([]domain.AirportOption, error) {
	resp, err := l.client.R().SetContext(ctx).Get(l.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airports: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch airports: unexpected status %d", resp.StatusCode())
	}

	// the list is often served as text/plain, so the body is decoded here
	var airports []domain.Airport
	if err := json.Unmarshal(resp.Body(), &airports); err != nil {
		return nil, fmt.Errorf("failed to fetch airports: %w", err)
	}

	options := make([]domain.AirportOption, 0, len(airports))
	for _, a := range airports {
		if a.IATACode == "" {
			continue
		}
		options = append(options, a.Option())
	}
	return options, nil
}
