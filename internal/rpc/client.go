package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// EndpointPath is where Confluence exposes its v1 JSON-RPC service.
const EndpointPath = "/rpc/json-rpc/confluenceservice-v1"

// Client issues JSON-RPC calls against a Confluence instance. The base URL is
// the instance root, including any context path (e.g. https://domain.com/wiki).
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	nextID atomic.Int64
}

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.HTTPClient = httpClient
		}
	}
}

// WithBasicAuth wraps the client's transport so every request also carries an
// HTTP basic Authorization header, for instances behind an authenticating
// proxy.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.HTTPClient.Transport = NewTransport(c.HTTPClient.Transport, username, password)
	}
}

// NewClient creates a JSON-RPC client for the given instance URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("rpc: base URL is required")
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// Call invokes a remote method with positional parameters and decodes the
// result into out when non-nil. Faults surface as *Error.
func (c *Client) Call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}

	payload, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("rpc: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+EndpointPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("rpc: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return parseHTTPError(res)
	}

	var envelope response
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("rpc: decode response: %w", err)
	}

	if envelope.Error != nil {
		return envelope.Error
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("rpc: decode result: %w", err)
	}

	return nil
}
