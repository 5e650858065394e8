// Package source implements itinerary source collaborators: concrete ways of
// obtaining raw one-way offer batches for a route. Sources own their transport
// concerns (timeouts, empty-batch polling); the engine only sees batches or a
// terminal error.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	// BaseURL is the one-way offer search endpoint.
	BaseURL string
	// APIKey, when set, is sent as X-API-Key.
	APIKey  string
	Timeout time.Duration

	// Tries is the total number of fetch attempts for a batch that keeps
	// coming back empty. Upstream renders listings asynchronously, so an
	// empty first response frequently fills in on a re-fetch.
	Tries      int
	RetryDelay time.Duration
}

// HTTPSource fetches offer batches from a JSON search endpoint.
type HTTPSource struct {
	cfg    HTTPConfig
	client *http.Client
	logger *slog.Logger
}

// NewHTTPSource creates an HTTPSource from cfg.
func NewHTTPSource(cfg HTTPConfig, logger *slog.Logger) *HTTPSource {
	if cfg.Tries < 1 {
		cfg.Tries = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPSource{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.With(slog.String("component", "http_source")),
	}
}

// searchResponse is the JSON shape returned by the search endpoint.
type searchResponse struct {
	Offers []domain.RawOffer `json:"offers"`
}

// FetchOffers performs the one-way search for q. An empty batch is re-fetched
// up to Tries total attempts with RetryDelay between them, then accepted as
// genuinely empty. Transport and decode failures are returned immediately and
// are never retried here.
func (s *HTTPSource) FetchOffers(ctx context.Context, q domain.RouteQuery) ([]domain.RawOffer, error) {
	reqURL, err := s.searchURL(q)
	if err != nil {
		return nil, fmt.Errorf("source: build search url: %w", err)
	}

	for attempt := 1; ; attempt++ {
		offers, err := s.fetch(ctx, reqURL)
		if err != nil {
			return nil, err
		}
		if len(offers) > 0 || attempt >= s.cfg.Tries {
			return offers, nil
		}

		s.logger.DebugContext(ctx, "empty batch, retrying",
			slog.String("origin", q.Origin),
			slog.String("destination", q.Destination),
			slog.Int("attempt", attempt),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.cfg.RetryDelay):
		}
	}
}

func (s *HTTPSource) fetch(ctx context.Context, reqURL string) ([]domain.RawOffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("source: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("source: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("source: decode response: %w", err)
	}
	return decoded.Offers, nil
}

// searchURL builds the one-way search request URL. The leg encoding matches
// the upstream listing site's query format.
func (s *HTTPSource) searchURL(q domain.RouteQuery) (string, error) {
	u, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return "", err
	}
	vals := u.Query()
	vals.Set("trip", "oneway")
	vals.Set("leg1", fmt.Sprintf("from:%s,to:%s,departure:%sTANYT", q.Origin, q.Destination, q.Date))
	vals.Set("passengers", "adults:1,children:0,seniors:0,infantinlap:Y")
	vals.Set("options", "cabinclass:economy")
	vals.Set("mode", "search")
	u.RawQuery = vals.Encode()
	return u.String(), nil
}
