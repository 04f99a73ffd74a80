package recs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
)

const (
	defaultBaseURL             = "http://localhost:5001"
	predictPath                = "predict"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 5 * time.Second
)

// Client wraps the external scoring service that ranks products for a buyer.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured scoring base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the scoring client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// HistoryItem is one purchase fed into the scoring model.
type HistoryItem struct {
	ProductID      string `json:"product_id"`
	Category       string `json:"category,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// ScoreRequest describes the payload sent to the scoring service.
type ScoreRequest struct {
	UserID  string        `json:"user_id"`
	History []HistoryItem `json:"purchase_history"`
}

// ScoredProduct is one ranked entry returned by the scoring service.
type ScoredProduct struct {
	ProductID string
	Score     float64
	Reason    string
}

// Score posts the buyer's purchase history and returns the ranked products.
func (c *Client) Score(ctx context.Context, req ScoreRequest) ([]ScoredProduct, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "scoring client not configured")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal score request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(predictPath), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build score request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute score request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "score request failed")
	}

	var apiResp struct {
		Predictions []struct {
			ProductID string  `json:"product_id"`
			Score     float64 `json:"score"`
			Reason    string  `json:"reason"`
		} `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode score response")
	}

	scored := make([]ScoredProduct, 0, len(apiResp.Predictions))
	for _, p := range apiResp.Predictions {
		scored = append(scored, ScoredProduct{
			ProductID: p.ProductID,
			Score:     p.Score,
			Reason:    p.Reason,
		})
	}

	return scored, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
