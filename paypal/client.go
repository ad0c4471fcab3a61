package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api-m.sandbox.paypal.com"

var ErrMissingCredentials = errors.New("paypal: missing client id or secret")

// APIError is a non-2xx PayPal response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal API error (%d): %s", e.StatusCode, e.Body)
}

// CaptureResult is the part of a capture response the store cares about.
type CaptureResult struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount Money  `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// Completed reports whether PayPal marked the order as captured.
func (r *CaptureResult) Completed() bool {
	return r != nil && r.Status == "COMPLETED"
}

// Client calls the PayPal REST API. Order calls are never retried.
type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
	log        *zap.Logger
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(clientID, secret string, opts ...Option) (*Client, error) {
	if clientID == "" || secret == "" {
		return nil, ErrMissingCredentials
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		clientID:   clientID,
		secret:     secret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zap.NewNop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached access token, refreshing it a minute before expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && c.now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tr tokenResponse
	if err := c.send(req, &tr); err != nil {
		return "", fmt.Errorf("failed to get PayPal access token: %w", err)
	}
	c.accessToken = tr.AccessToken
	c.expiresAt = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}

// CreateOrder registers the order with PayPal and returns its id.
func (c *Client) CreateOrder(ctx context.Context, order OrderDetails) (string, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return "", err
	}
	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	requestID := uuid.NewString()
	if err := c.call(ctx, http.MethodPost, "/v2/checkout/orders", body, requestID, &resp); err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create order: paypal returned no order id")
	}
	c.log.Info("paypal order created", zap.String("order_id", resp.ID), zap.String("request_id", requestID))
	return resp.ID, nil
}

// CaptureOrder captures an approved order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	if orderID == "" {
		return nil, fmt.Errorf("capture order: missing order id")
	}
	var res CaptureResult
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := c.call(ctx, http.MethodPost, path, nil, "", &res); err != nil {
		return nil, fmt.Errorf("capture order %s: %w", orderID, err)
	}
	c.log.Info("paypal order captured", zap.String("order_id", orderID), zap.String("status", res.Status))
	return &res, nil
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, requestID string, out interface{}) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach paypal: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse paypal response: %w", err)
	}
	return nil
}
