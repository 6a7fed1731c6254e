package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"thermo-guard/internal/common"
	"thermo-guard/internal/features/alarm/domain"
)

// ClientConfig holds configuration for the alert feed client
type ClientConfig struct {
	BaseURL            string
	NetworkID          string
	APIKey             string
	Timeout            time.Duration
	InsecureSkipVerify bool
	EnableHTTP2        bool
}

// DefaultClientConfig returns the default alert feed client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:     10 * time.Second,
		EnableHTTP2: true,
	}
}

// Client reads the sensor alert overview from the Meraki-style feed.
// It implements domain.Feed.
type Client struct {
	client *http.Client
	config ClientConfig
}

// NewClient creates a new alert feed client
func NewClient(config ClientConfig) (*Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("failed to configure HTTP/2 transport: %w", err)
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// FetchAlertOverview issues one read of the per-metric alert overview for the
// configured network. Transport failures and non-200 responses are returned
// as errors for the caller's retry policy to handle.
func (c *Client) FetchAlertOverview(ctx context.Context) (*domain.Reading, error) {
	url := fmt.Sprintf("%s/networks/%s/sensor/alerts/current/overview/byMetric",
		c.config.BaseURL, c.config.NetworkID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll alert feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, common.UnavailableError("alert feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var reading domain.Reading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, fmt.Errorf("failed to parse alert feed response: %w", err)
	}

	return &reading, nil
}
