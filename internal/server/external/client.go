// Package external searches TheMealDB and adapts its meals into
// recipe-shaped records. Calls go through a circuit breaker so an unhealthy
// upstream fails fast instead of holding request goroutines.
package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipeshare/internal/logging"
	"github.com/dmitrijs2005/recipeshare/internal/server/metrics"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
)

const (
	breakerName = "themealdb"

	DefaultTimeout = 10 * time.Second
	// consecutive failures that open the breaker
	tripAfter   = 5
	openTimeout = 30 * time.Second
)

// ErrUnavailable is returned when the breaker rejects a call.
var ErrUnavailable = errors.New("external recipe provider unavailable")

// Client queries the TheMealDB search endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]models.ExternalRecipe]
	logger  logging.Logger
}

// NewClient builds a client for the API rooted at baseURL
// (e.g. https://www.themealdb.com/api/json/v1/1).
func NewClient(baseURL string, logger logging.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logger.With("module", "external"),
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	c.cb = gobreaker.NewCircuitBreaker[[]models.ExternalRecipe](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn(context.Background(), "circuit breaker state change",
				"name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(metrics.BreakerStateValue(to))
		},
	})

	return c
}

// Search returns the meals whose name matches term. An empty term returns
// an empty list without calling the upstream.
func (c *Client) Search(ctx context.Context, term string) ([]models.ExternalRecipe, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.ExternalRecipe{}, nil
	}

	result, err := c.cb.Execute(func() ([]models.ExternalRecipe, error) {
		return c.search(ctx, term)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ExternalRequests.WithLabelValues("rejected").Inc()
			return nil, ErrUnavailable
		}
		metrics.ExternalRequests.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.ExternalRequests.WithLabelValues("success").Inc()
	return result, nil
}

type searchResponse struct {
	Meals []map[string]*string `json:"meals"`
}

func (c *Client) search(ctx context.Context, term string) ([]models.ExternalRecipe, error) {
	endpoint := c.baseURL + "/search.php?s=" + url.QueryEscape(term)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("themealdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("themealdb status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode themealdb response: %w", err)
	}

	recipes := make([]models.ExternalRecipe, 0, len(body.Meals))
	for _, meal := range body.Meals {
		recipes = append(recipes, AdaptMeal(meal))
	}
	return recipes, nil
}
