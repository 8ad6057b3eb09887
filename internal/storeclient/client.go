// Package storeclient is an HTTP client for the field-service API, used by
// tooling that runs apart from the server (the ops watcher). GET responses
// can be cached in Redis with a short TTL so frequent polls stay cheap.
package storeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/analytics"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

// Client calls the field-service API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	redis    *redis.Client
	cacheTTL time.Duration
}

// New constructs a client for baseURL. Outbound calls are limited to 10/s
// with a small burst so a misconfigured cron schedule cannot hammer the API.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
	}
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// FetchOrders returns all orders with joined references, in the store's
// scheduled-start order.
func (c *Client) FetchOrders(ctx context.Context) ([]model.ServiceOrder, error) {
	endpoint := c.baseURL + "/api/v1/orders"
	var wrap struct {
		Orders []model.ServiceOrder `json:"orders"`
	}

	if c.readCache(ctx, "orders", &wrap) {
		return wrap.Orders, nil
	}

	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	c.writeCache(ctx, "orders", wrap)
	return wrap.Orders, nil
}

// FetchOrdersBetween returns orders scheduled between two dates (inclusive).
func (c *Client) FetchOrdersBetween(ctx context.Context, from, to time.Time) ([]model.ServiceOrder, error) {
	endpoint := fmt.Sprintf("%s/api/v1/orders?from=%s&to=%s",
		c.baseURL,
		url.QueryEscape(from.Format("2006-01-02")),
		url.QueryEscape(to.Format("2006-01-02")),
	)
	cacheKey := fmt.Sprintf("orders:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	var wrap struct {
		Orders []model.ServiceOrder `json:"orders"`
	}
	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Orders, nil
	}
	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Orders, nil
}

// FetchAnalytics returns the server-side analytics summary. Never cached:
// the watcher wants fresh numbers when it alerts.
func (c *Client) FetchAnalytics(ctx context.Context) (*analytics.Summary, error) {
	var summary analytics.Summary
	if err := c.doGet(ctx, c.baseURL+"/api/v1/analytics", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Reschedule applies target-hour drag semantics to an order.
func (c *Client) Reschedule(ctx context.Context, orderID string, targetHour int) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/v1/orders/%s/schedule", c.baseURL, url.PathEscape(orderID))
	body := map[string]int{"target_hour": targetHour}

	var resp struct {
		Updated bool `json:"updated"`
	}
	if err := c.doPatch(ctx, endpoint, body, &resp); err != nil {
		return false, err
	}
	return resp.Updated, nil
}

// UpdateStatus moves an order through the workflow.
func (c *Client) UpdateStatus(ctx context.Context, orderID string, status model.Status) error {
	endpoint := fmt.Sprintf("%s/api/v1/orders/%s/status", c.baseURL, url.PathEscape(orderID))
	return c.doPatch(ctx, endpoint, map[string]string{"status": string(status)}, nil)
}

// HealthCheck checks if the API is up.
func (c *Client) HealthCheck(ctx context.Context, healthURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, "fieldsvc:"+key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, "fieldsvc:"+key, data, c.cacheTTL).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	return c.do(ctx, req, out)
}

func (c *Client) doPatch(ctx context.Context, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
