package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	v1 "github.com/shirry/webserver/api/v1"
	srvErrors "github.com/shirry/webserver/pkg/errors"
)

// Client talks to the admin API of a running web server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken sends token as a bearer JWT on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient takes the admin base URL, e.g. http://127.0.0.1:8000.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("failed to initialize admin client: %v", err)
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetDispatcher returns the dispatcher status
// GET /api/v1/dispatcher
func (c *Client) GetDispatcher(ctx context.Context) (*v1.DispatcherStatus, error) {
	var status v1.DispatcherStatus
	if err := c.get(ctx, "/api/v1/dispatcher", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListRequests returns one page of the request log
// GET /api/v1/requests
func (c *Client) ListRequests(ctx context.Context, params v1.ListRequestsParams) (*v1.RequestListResponse, error) {
	query := url.Values{}
	for _, s := range params.Status {
		query.Add("status", strconv.Itoa(s))
	}
	for _, p := range params.Path {
		query.Add("path", p)
	}
	for _, m := range params.Mode {
		query.Add("mode", m)
	}
	if params.Page != nil {
		query.Set("page", strconv.Itoa(*params.Page))
	}
	if params.PageSize != nil {
		query.Set("pageSize", strconv.Itoa(*params.PageSize))
	}

	var resp v1.RequestListResponse
	if err := c.get(ctx, "/api/v1/requests", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	zap.S().Named("admin_client").Debugw("admin request", "url", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusUnauthorized:
		return srvErrors.NewUnauthorizedError()
	default:
		var apiErr v1.Error
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s: %s", http.MethodGet, path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", http.MethodGet, path, resp.Status)
	}
}
