package printify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.printify.com/v1"
	userAgent      = "Thrills-Store-App"

	// MaxPageSize is the largest page the API accepts.
	MaxPageSize = 50
)

var (
	ErrMissingToken = errors.New("printify: missing API token")
	ErrNoShop       = errors.New("printify: no shops found in account")
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("printify API error (%d): %s", e.StatusCode, e.Body)
}

// Client is safe for concurrent use. The shop id is looked up once.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *zap.Logger

	// MaxElapsedTime bounds the retries of a GET.
	MaxElapsedTime time.Duration

	mu     sync.Mutex
	shopID string
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

func WithMaxElapsedTime(d time.Duration) ClientOption {
	return func(c *Client) { c.MaxElapsedTime = d }
}

func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	c := &Client{
		baseURL:        DefaultBaseURL,
		token:          token,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		log:            zap.NewNop(),
		MaxElapsedTime: 10 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ShopID returns the id of the first shop of the account.
func (c *Client) ShopID(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.shopID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}

	var shops []Shop
	if err := c.get(ctx, "/shops.json", &shops); err != nil {
		return "", fmt.Errorf("fetch shops: %w", err)
	}
	if len(shops) == 0 {
		return "", ErrNoShop
	}
	id = strconv.FormatInt(shops[0].ID, 10)

	c.mu.Lock()
	c.shopID = id
	c.mu.Unlock()
	return id, nil
}

// ListProducts returns one page of the shop's products. limit is capped at
// MaxPageSize. An empty tag or "all" disables tag filtering.
func (c *Client) ListProducts(ctx context.Context, page, limit int, tag string) ([]Product, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	shopID, err := c.ShopID(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var resp productPage
	if err := c.get(ctx, "/shops/"+shopID+"/products.json?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	if tag == "" || tag == "all" {
		return resp.Data, nil
	}
	filtered := make([]Product, 0, len(resp.Data))
	for _, p := range resp.Data {
		for _, t := range p.Tags {
			if t == tag {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// GetProduct returns nil, nil when the product does not exist.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	shopID, err := c.ShopID(ctx)
	if err != nil {
		return nil, err
	}
	var p Product
	err = c.get(ctx, "/shops/"+shopID+"/products/"+url.PathEscape(id)+".json", &p)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", id, err)
	}
	return &p, nil
}

// CalculateShipping asks the provider for a shipping quote. It is a POST and
// is not retried.
func (c *Client) CalculateShipping(ctx context.Context, items []ShippingLineItem, to Address) (*ShippingCost, error) {
	shopID, err := c.ShopID(ctx)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]interface{}{
		"line_items": items,
		"address_to": to,
	})
	if err != nil {
		return nil, err
	}
	var cost ShippingCost
	if err := c.do(ctx, http.MethodPost, "/shops/"+shopID+"/shipping.json", body, &cost); err != nil {
		return nil, fmt.Errorf("calculate shipping: %w", err)
	}
	return &cost, nil
}

// get retries transport errors and 5xx responses with exponential backoff.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = c.MaxElapsedTime

	op := func() error {
		err := c.do(ctx, http.MethodGet, path, nil, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn("printify request failed, retrying",
			zap.String("path", path), zap.Duration("wait", wait), zap.Error(err))
	}
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach printify: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse printify response: %w", err)
	}
	return nil
}
