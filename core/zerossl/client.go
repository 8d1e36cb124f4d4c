package zerossl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/certkit/core/logger"
)

const (
	// ValidationMethodHTTP asks the CA to fetch the validation file over plain HTTP.
	ValidationMethodHTTP = "HTTP_CSR_HASH"

	maxResponseBytes = 1 << 20
)

// Client talks to the ZeroSSL certificate REST API.
// Every operation is a single request without retries.
// Safe for concurrent use.
type Client struct {
	baseURL      string
	apiKey       string
	validityDays int
	http         HTTPDoer
	logger       *slog.Logger
}

// New creates a Client. The API key is required.
func New(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("zerossl: invalid base url: %w", err)
	}

	validity := cfg.ValidityDays
	if validity <= 0 {
		validity = DefaultValidityDays
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		validityDays: validity,
		http:         &http.Client{Timeout: timeout},
		logger:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateCertificate submits a new order for domain with the PEM encoded CSR.
func (c *Client) CreateCertificate(ctx context.Context, domain, csrPEM string) (*Certificate, error) {
	form := url.Values{}
	form.Set("certificate_domains", domain)
	form.Set("certificate_validity_days", strconv.Itoa(c.validityDays))
	form.Set("certificate_csr", csrPEM)

	var cert Certificate
	if err := c.do(ctx, http.MethodPost, "/certificates", form, &cert); err != nil {
		return nil, err
	}
	if cert.ID == "" {
		return nil, fmt.Errorf("%w: order created without id", ErrCAProtocol)
	}
	return &cert, nil
}

// VerifyDomains asks the CA to start HTTP file validation for the order.
func (c *Client) VerifyDomains(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	form := url.Values{}
	form.Set("validation_method", ValidationMethodHTTP)

	err := c.do(ctx, http.MethodPost, "/certificates/"+url.PathEscape(id)+"/challenges", form, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", ErrChallengeRejected, apiErr)
	}
	return err
}

// GetCertificate fetches the current state of an order.
func (c *Client) GetCertificate(ctx context.Context, id string) (*Certificate, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	var cert Certificate
	if err := c.do(ctx, http.MethodGet, "/certificates/"+url.PathEscape(id), nil, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

// DownloadCertificate fetches the issued leaf certificate and CA bundle.
func (c *Client) DownloadCertificate(ctx context.Context, id string) (*Download, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	var dl Download
	if err := c.do(ctx, http.MethodGet, "/certificates/"+url.PathEscape(id)+"/download/return", nil, &dl); err != nil {
		return nil, err
	}
	if strings.TrimSpace(dl.Certificate) == "" {
		return nil, ErrEmptyDownload
	}
	return &dl, nil
}

// do performs one API call. form is sent URL-encoded when non-nil; out is
// decoded from the response body when non-nil.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + url.Values{"access_key": {c.apiKey}}.Encode()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("zerossl: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Never log the endpoint: it carries the access key.
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("zerossl: %s %s: %w", method, path, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("zerossl: read %s response: %w", path, err)
	}

	c.logger.DebugContext(ctx, "zerossl request",
		logger.Method(method),
		logger.Path(path),
		logger.StatusCode(resp.StatusCode),
		logger.Elapsed(start),
	)

	if err := checkResponse(resp.StatusCode, data); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrCAProtocol, path, err)
	}
	return nil
}

func checkResponse(status int, data []byte) error {
	var env envelope
	jsonErr := json.Unmarshal(data, &env)

	failed := status < 200 || status > 299
	if !failed && (jsonErr != nil || env.Success == nil || *env.Success) {
		return nil
	}

	apiErr := &APIError{StatusCode: status}
	if env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Type = env.Error.Type
		apiErr.Info = env.Error.Info
	} else if failed {
		apiErr.Info = truncate(strings.TrimSpace(string(data)), 256)
	}
	return apiErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// redactKey strips the access key from transport errors, which embed the request URL.
func redactKey(err error, key string) error {
	msg := err.Error()
	if !strings.Contains(msg, key) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, key, "REDACTED"))
}
