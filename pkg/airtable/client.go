// Package airtable is a minimal client for appending records to one Airtable
// table. Only what the feedback recorder needs.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

// Config identifies the target table.
type Config struct {
	APIKey  string
	BaseID  string
	Table   string
	BaseURL string
}

// Client appends records over the Airtable REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New creates the client.
func New(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: logger.Named("Airtable"),
	}
}

type createRecordRequest struct {
	Fields map[string]any `json:"fields"`
}

// CreateRecord appends one record. Upstream failures are reported as
// ErrStorageFailed; the caller does not retry.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) error {
	body, err := json.Marshal(createRecordRequest{Fields: fields})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, c.cfg.Table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Airtable request failed", zap.Error(err))
		return fmt.Errorf("%w: airtable request: %v", model.ErrStorageFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Airtable rejected record",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload))
		return fmt.Errorf("%w: airtable returned status %d", model.ErrStorageFailed, resp.StatusCode)
	}
	return nil
}
