package deviceconfig

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/essctl/essctl/internal/logging"
	"github.com/essctl/essctl/internal/version"
)

const (
	// DefaultUsername is the factory login of Easy Smart switches
	DefaultUsername = "admin"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed page reads
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second
)

// Client talks to the web management interface of one Easy Smart switch.
//
// Every operation happens inside a Session obtained from WithSession. Page
// reads are retried on network and 5xx errors; writes are never retried.
type Client struct {
	// BaseURL is the base URL for the switch (e.g., "http://192.168.0.1")
	BaseURL string

	// Username for the web login (default: "admin")
	Username string

	// Password for the web login
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed page reads
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool
}

// NewClient creates a client for the switch at host, which may carry a
// port ("192.168.0.1" or "switch.lan:8080").
func NewClient(host string) *Client {
	return NewClientWithURL("http://" + host)
}

// NewClientWithURL creates a new client with a full base URL
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		Username:              DefaultUsername,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets the web login credentials
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Host returns the switch address without scheme.
func (c *Client) Host() string {
	return strings.TrimPrefix(strings.TrimPrefix(c.BaseURL, "http://"), "https://")
}

// WithSession logs in, runs fn, and logs out again. Logout happens on every
// exit path, including errors and panics in fn; a failed logout is only
// logged since the switch expires idle sessions on its own.
func (c *Client) WithSession(ctx context.Context, fn func(*Session) error) error {
	if err := c.login(ctx); err != nil {
		return err
	}
	logging.LogSession(c.Host(), "login")

	defer func() {
		if err := c.logout(context.WithoutCancel(ctx)); err != nil {
			logging.Warn("Logout failed", zap.String("host", c.Host()), zap.Error(err))
			return
		}
		logging.LogSession(c.Host(), "logout")
	}()

	return fn(&Session{client: c})
}

func (c *Client) login(ctx context.Context) error {
	body, err := c.do(ctx, http.MethodPost, LoginQuery(c.Username, c.Password))
	if err != nil {
		return err
	}
	if !bytes.Contains(body, []byte(loginSuccessTag)) {
		logging.LogRawBytes("Login response", body)
		err := NewAuthError(fmt.Sprintf("login to %s as %q was rejected", c.Host(), c.Username))
		err.Host = c.Host()
		return err
	}
	return nil
}

func (c *Client) logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, PathLogout)
	return err
}

// get performs a GET with the retry policy of the client.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Warn("Retrying page read",
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", currentDelay),
				zap.Error(lastErr),
			)
			if err := sleep(ctx, currentDelay); err != nil {
				return nil, NewNetworkError("request cancelled", err)
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		body, err := c.do(ctx, http.MethodGet, path)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if !IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// do performs a single request. Login is a POST with a form content type
// and its parameters in the URL; everything else is a plain GET.
func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/"+path, nil)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		devErr := ClassifyNetworkError(err, c.Host())
		devErr.Message = fmt.Sprintf("%s %s failed", method, pathOnly(path))
		return nil, devErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	logging.LogRequest(method, path, resp.StatusCode, len(body))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		devErr := NewAuthError(fmt.Sprintf("%s rejected with status %d", pathOnly(path), resp.StatusCode))
		devErr.StatusCode = resp.StatusCode
		return nil, devErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("%s returned status %d", pathOnly(path), resp.StatusCode))
	}

	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Session is a logged-in connection to a switch. It is only valid inside
// the function passed to Client.WithSession.
type Session struct {
	client *Client
}

// Host returns the address of the switch this session is logged in to.
func (s *Session) Host() string {
	return s.client.Host()
}

// FetchPage reads a page, retrying transient failures.
func (s *Session) FetchPage(ctx context.Context, path string) ([]byte, error) {
	body, err := s.client.get(ctx, path)
	if err != nil {
		return nil, err
	}
	logging.LogRawBytes("Page "+pathOnly(path), body)
	return body, nil
}

// Apply issues a write action exactly once. The switch reports success with
// a full page reload, so the body is returned only for logging.
func (s *Session) Apply(ctx context.Context, pathWithQuery string) ([]byte, error) {
	logging.Info("Applying change", zap.String("host", s.Host()), zap.String("action", logging.RedactPath(pathWithQuery)))
	body, err := s.client.do(ctx, http.MethodGet, pathWithQuery)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", pathOnly(pathWithQuery), err)
	}
	return body, nil
}
