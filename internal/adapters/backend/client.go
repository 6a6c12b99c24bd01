package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader  = "X-Request-Id"
	maxResponseBytes = 1 << 20
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "hv"
)

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	// RateLimit is the sustained requests per second; zero disables limiting.
	RateLimit float64
	RateBurst int
	UserAgent string
}

// Client talks to the HVAC REST backend. It attaches the persisted bearer
// token and classifies every failure as a domain.BackendError.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    ports.SecretStore
	limiter   *rate.Limiter
	attempts  uint
	delay     time.Duration
	userAgent string
	logger    *slog.Logger
	requestID func() string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(cfg Config, tokens ports.SecretStore, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		tokens:    tokens,
		attempts:  attempts,
		delay:     cfg.RetryDelay,
		userAgent: userAgent,
		logger:    slog.Default(),
		requestID: uuid.NewString,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "backend_client")

	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return nil, errors.New("backend base url is empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("backend base url %q must use http or https", raw)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("backend base url %q has no host", raw)
	}

	return parsed, nil
}

type authMode int

const (
	authStored authMode = iota
	authExplicit
	authNone
)

type call struct {
	op          string
	method      string
	path        string
	body        []byte
	contentType string
	auth        authMode
	token       string
}

type response struct {
	status int
	body   []byte
}

func (c *Client) getJSON(ctx context.Context, op string, path string, out any) error {
	resp, err := c.do(ctx, call{op: op, method: http.MethodGet, path: path})
	if err != nil {
		return err
	}
	return decodeBody(op, resp, out)
}

func (c *Client) postJSON(ctx context.Context, op string, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode body: %w", op, err)
	}

	resp, err := c.do(ctx, call{op: op, method: http.MethodPost, path: path, body: body, contentType: "application/json"})
	if err != nil {
		return err
	}
	return decodeBody(op, resp, out)
}

// sendForm sends fields as multipart/form-data in the given order.
func (c *Client) sendForm(ctx context.Context, op string, method string, path string, fields []formField, auth authMode, out any) error {
	body, contentType, err := encodeForm(fields)
	if err != nil {
		return fmt.Errorf("%s: encode form: %w", op, err)
	}

	resp, err := c.do(ctx, call{op: op, method: method, path: path, body: body, contentType: contentType, auth: auth})
	if err != nil {
		return err
	}
	return decodeBody(op, resp, out)
}

type formField struct {
	name  string
	value string
}

func encodeForm(fields []formField) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// do sends the call. Only GETs are retried, and only when no response came
// back.
func (c *Client) do(ctx context.Context, req call) (response, error) {
	attempts := uint(1)
	if req.method == http.MethodGet {
		attempts = c.attempts
	}

	token := c.bearerToken(ctx, req)

	return retry.DoWithData(
		func() (response, error) {
			return c.send(ctx, req, token)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			c.logger.DebugContext(ctx, "retrying backend call", "operation", req.op, "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) send(ctx context.Context, req call, token string) (response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return response{}, fmt.Errorf("%s: rate limit: %w", req.op, err)
		}
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path), body)
	if err != nil {
		return response{}, fmt.Errorf("%s: build request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(requestIDHeader, c.requestID())
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return response{}, fmt.Errorf("%s: %w", req.op, ctxErr)
		}
		return response{}, classifyTransportError(req.op, err)
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return response{}, &domain.BackendError{Kind: domain.FailureNoResponse, Op: req.op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.DebugContext(ctx, "backend call",
		"operation", req.op,
		"method", req.method,
		"path", req.path,
		"status", httpResp.StatusCode,
		"request_id", httpReq.Header.Get(requestIDHeader),
		"duration", time.Since(started),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return response{}, &domain.BackendError{
			Kind:    domain.FailureRejected,
			Op:      req.op,
			Status:  httpResp.StatusCode,
			Payload: payload,
		}
	}

	return response{status: httpResp.StatusCode, body: payload}, nil
}

func (c *Client) bearerToken(ctx context.Context, req call) string {
	switch req.auth {
	case authNone:
		return ""
	case authExplicit:
		return strings.TrimSpace(req.token)
	}

	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Get(ctx, ports.SessionTokenKey)
	if err != nil {
		if !errors.Is(err, domain.ErrSecretNotFound) {
			c.logger.WarnContext(ctx, "read session token failed", "operation", req.op, "error", err)
		}
		return ""
	}
	return strings.TrimSpace(token)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

// classifyTransportError separates "could not reach the server" from "sent
// but nothing came back".
func classifyTransportError(op string, err error) error {
	kind := domain.FailureNoResponse

	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case errors.As(err, &dnsErr):
		kind = domain.FailureNetworkUnavailable
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		kind = domain.FailureNetworkUnavailable
	case errors.As(err, &opErr) && opErr.Op == "dial":
		kind = domain.FailureNetworkUnavailable
	}

	return &domain.BackendError{Kind: kind, Op: op, Err: err}
}

func isTransient(err error) bool {
	backendErr, ok := domain.AsBackendError(err)
	return ok && backendErr.Kind != domain.FailureRejected
}

func decodeBody(op string, resp response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
