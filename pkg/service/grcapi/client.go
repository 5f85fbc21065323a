package grcapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
)

// RequestIDHeader carries a fresh id on every call for correlating backend logs
const RequestIDHeader = "X-Request-ID"

// Client talks to the GRC backend REST API under <backend>/api
type Client struct {
	httpc   *resty.Client
	baseURL string
	variant types.Variant
	routes  routes
}

var (
	_ interfaces.Gateway       = (*Client)(nil)
	_ interfaces.Analyzer      = (*Client)(nil)
	_ interfaces.RiskSuggester = (*Client)(nil)
)

type config struct {
	variant    types.Variant
	token      string
	timeout    time.Duration
	httpClient *http.Client
	debug      bool
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithVariant selects the backend API flavour. The default is the enterprise API.
func WithVariant(v types.Variant) Option {
	return func(c *config) {
		c.variant = v
	}
}

// WithToken sends a bearer token on every request
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithTimeout sets a per-request timeout. Zero, the default, waits indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithDebug makes resty log every request and response at debug level
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.debug = debug
	}
}

// New creates a client for the backend at backendURL. "/api" is appended unless already present.
func New(backendURL string, opts ...Option) (*Client, error) {
	if backendURL == "" {
		return nil, goerr.New("backend URL is required")
	}

	cfg := &config{variant: types.VariantEnterprise}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.variant.IsValid() {
		return nil, goerr.New("unknown API variant", goerr.V("variant", cfg.variant))
	}

	baseURL := strings.TrimRight(backendURL, "/")
	if !strings.HasSuffix(baseURL, "/api") {
		baseURL += "/api"
	}

	var httpc *resty.Client
	if cfg.httpClient != nil {
		httpc = resty.NewWithClient(cfg.httpClient)
	} else {
		httpc = resty.New()
	}

	// Failed calls are surfaced to the user once and never retried
	httpc.
		SetBaseURL(baseURL).
		SetLogger(slogAdapter{}).
		SetDebug(cfg.debug).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if cfg.timeout > 0 {
		httpc.SetTimeout(cfg.timeout)
	}
	if cfg.token != "" {
		httpc.SetAuthToken(cfg.token)
	}

	return &Client{
		httpc:   httpc,
		baseURL: baseURL,
		variant: cfg.variant,
		routes:  routesFor(cfg.variant),
	}, nil
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Variant returns the API flavour the client speaks
func (c *Client) Variant() types.Variant {
	return c.variant
}

// call executes one request and decodes a JSON response into out when out is not nil
func (c *Client) call(ctx context.Context, method, path string, build func(*resty.Request), out any) error {
	reqID := uuid.NewString()
	req := c.httpc.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, reqID)
	if build != nil {
		build(req)
	}

	logger := logging.From(ctx)
	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		return goerr.Wrap(err, "request to GRC backend failed",
			goerr.V("method", method),
			goerr.V("path", path),
			goerr.V("request_id", reqID))
	}

	logger.Debug("GRC backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode(),
		"request_id", reqID,
		"duration", time.Since(start))

	if !resp.IsSuccess() {
		return goerr.Wrap(&APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode(),
			Body:   truncate(resp.Body()),
		}, "GRC backend returned error status",
			goerr.V("method", method),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode()),
			goerr.V("request_id", reqID))
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return goerr.Wrap(err, "failed to decode GRC backend response",
			goerr.V("method", method),
			goerr.V("path", path),
			goerr.V("request_id", reqID))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	return c.call(ctx, http.MethodPost, path, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}, out)
}

func (c *Client) notSupported(op string) error {
	return goerr.Wrap(ErrNotSupported, "operation not available",
		goerr.V("operation", op),
		goerr.V("variant", c.variant))
}
