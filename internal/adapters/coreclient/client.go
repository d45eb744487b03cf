// Package coreclient is the HTTP adapter for the three core services. One
// client implements the aggregator's three reader interfaces plus the
// health checks.
package coreclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"product-composite/internal/domain/composite"
	"product-composite/pkg/api"
	"product-composite/pkg/apierrors"
	"product-composite/pkg/logattr"
)

const defaultTimeout = 10 * time.Second

// responses larger than this are cut off when kept for error diagnosis
const maxErrorBodySize = 8 * 1024

type Config struct {
	ProductServiceURL        string
	RecommendationServiceURL string
	ReviewServiceURL         string
	Timeout                  time.Duration
}

type Client struct {
	httpClient         *http.Client
	productBase        string
	recommendationBase string
	reviewBase         string
	logger             *slog.Logger
}

var (
	_ composite.ProductReader        = (*Client)(nil)
	_ composite.RecommendationReader = (*Client)(nil)
	_ composite.ReviewReader         = (*Client)(nil)
	_ composite.HealthChecker        = (*Client)(nil)
)

func New(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient:         &http.Client{Timeout: timeout},
		productBase:        config.ProductServiceURL,
		recommendationBase: config.RecommendationServiceURL,
		reviewBase:         config.ReviewServiceURL,
		logger:             logger,
	}
}

// GetProduct is the required read: upstream 404 and 422 map to the domain
// error kinds, everything else propagates as-is.
func (c *Client) GetProduct(ctx context.Context, productID int) (api.Product, error) {
	if productID < 1 {
		return api.Product{}, apierrors.NewInvalidInput("invalid productId: %d", productID)
	}

	url := fmt.Sprintf("%s/product/%d", c.productBase, productID)
	c.logger.Debug("calling getProduct API", logattr.URL(url))

	var product api.Product
	if err := c.getJSON(ctx, url, &product); err != nil {
		return api.Product{}, err
	}
	return product, nil
}

// GetRecommendations is best-effort: any failure degrades to an empty list
// so the composite can still return partial data.
func (c *Client) GetRecommendations(ctx context.Context, productID int) ([]api.Recommendation, error) {
	url := fmt.Sprintf("%s/recommendation?productId=%d", c.recommendationBase, productID)
	c.logger.Debug("calling getRecommendations API", logattr.URL(url))

	var recommendations []api.Recommendation
	if err := c.getJSON(ctx, url, &recommendations); err != nil {
		c.logger.Warn("got an error while requesting recommendations, returning zero recommendations", logattr.Error(err.Error()), logattr.ProductId(productID))
		return []api.Recommendation{}, nil
	}
	return recommendations, nil
}

// GetReviews is best-effort, like GetRecommendations.
func (c *Client) GetReviews(ctx context.Context, productID int) ([]api.Review, error) {
	url := fmt.Sprintf("%s/review?productId=%d", c.reviewBase, productID)
	c.logger.Debug("calling getReviews API", logattr.URL(url))

	var reviews []api.Review
	if err := c.getJSON(ctx, url, &reviews); err != nil {
		c.logger.Warn("got an error while requesting reviews, returning zero reviews", logattr.Error(err.Error()), logattr.ProductId(productID))
		return []api.Review{}, nil
	}
	return reviews, nil
}

func (c *Client) ProductHealth(ctx context.Context) composite.Status {
	return c.health(ctx, c.productBase)
}

func (c *Client) RecommendationHealth(ctx context.Context) composite.Status {
	return c.health(ctx, c.recommendationBase)
}

func (c *Client) ReviewHealth(ctx context.Context) composite.Status {
	return c.health(ctx, c.reviewBase)
}

// health maps any 2xx to Up and everything else, transport failures
// included, to Down. It never errors: health must always answer.
func (c *Client) health(ctx context.Context, base string) composite.Status {
	url := base + "/actuator/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return composite.StatusDown
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("health check failed", logattr.URL(url), logattr.Error(err.Error()))
		return composite.StatusDown
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return composite.StatusUp
	}
	return composite.StatusDown
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return c.mapHTTPError(resp.StatusCode, body, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed decoding response from %s: %w", url, err)
	}
	return nil
}
