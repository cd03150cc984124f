package repository

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/matzehuels/mvnresolve/pkg/buildinfo"
	"github.com/matzehuels/mvnresolve/pkg/errors"
	"github.com/matzehuels/mvnresolve/pkg/httputil"
)

// Transport retrieves a document from a repository URL.
//
// Implementations report a missing document with [errors.ErrCodeNotFound],
// a timed-out request with [errors.ErrCodeTimeout] and any other failure with
// [errors.ErrCodeNetwork].
//
//go:generate mockgen -source=transport.go -destination=mocks/mock_transport.go -package=mocks
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryDelay     = 250 * time.Millisecond
)

// HTTPTransport fetches documents over http, https and file URLs.
// Transient failures (connection errors, 5xx) are retried with exponential
// backoff; 404 and other client errors are not.
type HTTPTransport struct {
	client   *http.Client
	attempts int
	delay    time.Duration
}

// TransportOption configures an [HTTPTransport].
type TransportOption func(*HTTPTransport)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) { t.client = c }
}

// WithRetry sets the attempt count and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) TransportOption {
	return func(t *HTTPTransport) { t.attempts, t.delay = attempts, delay }
}

// NewHTTPTransport returns a transport whose requests time out after
// timeout. A non-positive timeout selects 30s.
func NewHTTPTransport(timeout time.Duration, opts ...TransportOption) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	t := &HTTPTransport{
		client:   &http.Client{Timeout: timeout},
		attempts: defaultRetryAttempts,
		delay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get fetches rawURL and returns the response body.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "invalid url %q", rawURL)
	}
	if u.Scheme == "file" {
		return readFile(u)
	}

	var body []byte
	err = httputil.Retry(ctx, t.attempts, t.delay, func() error {
		body, err = t.do(ctx, rawURL)
		return err
	})
	return body, err
}

func (t *HTTPTransport) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "build request for %s", rawURL)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := t.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "GET %s", rawURL)
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", rawURL))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, rawURL); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "read %s", rawURL)
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL))
	}
	return data, nil
}

func checkStatus(code int, rawURL string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return errors.New(errors.ErrCodeNotFound, "%s", rawURL)
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, code)
	}
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}

func readFile(u *url.URL) ([]byte, error) {
	data, err := os.ReadFile(u.Path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "%s", u.String())
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", u.String())
	}
	return data, nil
}

var _ Transport = (*HTTPTransport)(nil)
