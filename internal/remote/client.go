package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"souq-client/internal/cart"
	"souq-client/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer credential for authenticated calls.
// Token acquisition and refresh belong to the host app's auth layer.
type TokenSource func() string

// Client talks to the backend cart endpoints for an authenticated user.
// Every operation returns the authoritative cart the server computed;
// the caller adopts it wholesale, never patches locally.
type Client interface {
	Fetch(ctx context.Context, userID string) (cart.Cart, error)
	Add(ctx context.Context, userID string, item cart.CartItem) (cart.Cart, error)
	Update(ctx context.Context, userID string, item cart.CartItem) (cart.Cart, error)
	Remove(ctx context.Context, userID string, productID int64) (cart.Cart, error)
	Clear(ctx context.Context, userID string) (cart.Cart, error)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Token     TokenSource
	RateLimit float64
	RateBurst int
}

type client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	limiter    *rate.Limiter
}

func NewClient(opts Options) Client {
	if opts.BaseURL == "" {
		logger.L().Warn("remote cart client created without base URL")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Limit(opts.RateLimit)
	if opts.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &client{
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		token:      opts.Token,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

func (c *client) Fetch(ctx context.Context, userID string) (cart.Cart, error) {
	url := fmt.Sprintf("%s/cart/%s", c.baseURL, userID)
	return c.exchange(ctx, "fetch", http.MethodGet, url, nil)
}

func (c *client) Add(ctx context.Context, userID string, item cart.CartItem) (cart.Cart, error) {
	// Guest line ids are local; the server assigns its own identity.
	item.ID = ""
	url := fmt.Sprintf("%s/cart/%s/add", c.baseURL, userID)
	return c.exchange(ctx, "add", http.MethodPost, url, &item)
}

func (c *client) Update(ctx context.Context, userID string, item cart.CartItem) (cart.Cart, error) {
	url := fmt.Sprintf("%s/cart/%s/update", c.baseURL, userID)
	return c.exchange(ctx, "update", http.MethodPut, url, &item)
}

func (c *client) Remove(ctx context.Context, userID string, productID int64) (cart.Cart, error) {
	url := fmt.Sprintf("%s/cart/%s/remove/%d", c.baseURL, userID, productID)
	return c.exchange(ctx, "remove", http.MethodDelete, url, nil)
}

func (c *client) Clear(ctx context.Context, userID string) (cart.Cart, error) {
	url := fmt.Sprintf("%s/cart/%s/clear", c.baseURL, userID)
	return c.exchange(ctx, "clear", http.MethodDelete, url, nil)
}

func (c *client) exchange(ctx context.Context, op, method, url string, body *cart.CartItem) (cart.Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("op", op),
		zap.String("url", url),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return cart.Cart{}, classify(op, err)
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return cart.Cart{}, newError(op, KindDecode, err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return cart.Cart{}, newError(op, KindNetwork, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("remote cart request failed", zap.Error(err))
		return cart.Cart{}, classify(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("failed reading cart response", zap.Error(err))
		return cart.Cart{}, classify(op, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return cart.Cart{}, newError(op, KindNotFound, fmt.Errorf("cart not found: %s", string(raw)))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Warn("remote cart returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", raw),
		)
		return cart.Cart{}, newError(op, KindNetwork,
			fmt.Errorf("cart api status %d: %s", resp.StatusCode, string(raw)))
	}

	decoded, err := decodeCart(raw)
	if err != nil {
		log.Warn("malformed cart response", zap.Error(err))
		return cart.Cart{}, newError(op, KindDecode, err)
	}

	return decoded, nil
}

// decodeCart strictly validates the server payload. A response without an
// items array is malformed, not an empty cart; the server always sends
// items, possibly empty.
func decodeCart(raw []byte) (cart.Cart, error) {
	var probe struct {
		Items *[]cart.CartItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return cart.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	if probe.Items == nil {
		return cart.Cart{}, fmt.Errorf("decode cart: missing items field")
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return cart.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	for _, item := range c.Items {
		if item.ProductID == 0 || item.Quantity < 1 {
			return cart.Cart{}, fmt.Errorf("decode cart: invalid line item (product %d, qty %d)",
				item.ProductID, item.Quantity)
		}
	}
	return c, nil
}
