package infrastructure

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/config"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
)

// implements MarketingClient and ExportClient interfaces
type HTTPClient struct {
	client      *http.Client
	dataURL     string
	sinkURL     string
	sinkSecret  string
	logger      *logger.Logger
	rateLimiter *rate.Limiter
}

// creates a new HTTP client for the upstream marketing API and the report sink
func NewHTTPClient(cfg config.UpstreamConfig, logger *logger.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		dataURL:     cfg.DataURL,
		sinkURL:     cfg.SinkURL,
		sinkSecret:  cfg.SinkSecret,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst),
	}
}

// fetches the marketing document from the upstream API
func (c *HTTPClient) FetchMarketingData(ctx context.Context) (*domain.MarketingData, error) {
	start := time.Now()

	// Apply rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.dataURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marketing data: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marketing API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var data domain.MarketingData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse marketing data: %w", err)
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"url":       c.dataURL,
		"duration":  duration,
		"campaigns": len(data.Campaigns),
	}).Info("Successfully fetched marketing data")

	return &data, nil
}

// implements ExportClient interface
func (c *HTTPClient) Export(ctx context.Context, view string, payload any) error {
	if c.sinkURL == "" {
		return domain.ErrSinkNotConfigured
	}

	start := time.Now()

	// Apply rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"view":        view,
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"data":        payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal export payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.sinkURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	// Add HMAC signature if secret is provided
	if c.sinkSecret != "" {
		req.Header.Set("X-Signature", c.generateHMACSignature(body))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sink API returned status %d", resp.StatusCode)
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"url":      c.sinkURL,
		"view":     view,
		"duration": duration,
	}).Info("Successfully exported report")

	return nil
}

// generates HMAC-SHA256 signature for the payload
func (c *HTTPClient) generateHMACSignature(payload []byte) string {
	h := hmac.New(sha256.New, []byte(c.sinkSecret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
