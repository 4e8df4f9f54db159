package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultAPIPrefix is the catalog API the families endpoint hangs off
const DefaultAPIPrefix = "https://typekit.com/api/edge_internal_v1/"

// DefaultFetchTimeout is the default timeout for one HTTP attempt
const DefaultFetchTimeout = 10 * time.Second

// DefaultMinInterval is the default minimum spacing between requests upstream
const DefaultMinInterval = time.Second

// HTTP fetches the catalog from "<prefix>families"
type HTTP struct {
	prefix      string
	client      *http.Client
	timeout     time.Duration
	delays      []time.Duration
	minInterval time.Duration
	limiter     *rate.Limiter
	logger      zerolog.Logger
}

// Option configures an HTTP source
type Option func(*HTTP)

// WithTimeout sets the per-attempt timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTP) {
		s.timeout = d
	}
}

// WithRetryDelays sets the backoff between attempts; nil disables retries
func WithRetryDelays(delays []time.Duration) Option {
	return func(s *HTTP) {
		s.delays = delays
	}
}

// WithMinInterval spaces requests to the catalog API at least d apart.
// Zero disables the limit.
func WithMinInterval(d time.Duration) Option {
	return func(s *HTTP) {
		s.minInterval = d
	}
}

// WithLogger sets the logger used for retry warnings
func WithLogger(logger zerolog.Logger) Option {
	return func(s *HTTP) {
		s.logger = logger
	}
}

// NewHTTP creates an HTTP catalog source. An empty prefix uses DefaultAPIPrefix.
func NewHTTP(prefix string, opts ...Option) *HTTP {
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}
	s := &HTTP{
		prefix:      prefix,
		timeout:     DefaultFetchTimeout,
		delays:      DefaultRetryDelays(),
		minInterval: DefaultMinInterval,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}
	if s.minInterval > 0 {
		s.limiter = rate.NewLimiter(rate.Every(s.minInterval), 1)
	} else {
		s.limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return s
}

// Name returns "http"
func (s *HTTP) Name() string { return "http" }

// URL returns the families endpoint
func (s *HTTP) URL() string { return s.prefix + "families" }

// Fetch downloads and decodes the family list, retrying transient failures
func (s *HTTP) Fetch(ctx context.Context) ([]catalog.Family, error) {
	var body []byte
	err := withRetry(ctx, s.delays, s.logger, func(ctx context.Context) error {
		if err := s.limiter.Wait(ctx); err != nil {
			return permanent(err)
		}
		b, err := s.get(ctx)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return catalog.Decode(bytes.NewReader(body))
}

func (s *HTTP) get(ctx context.Context) ([]byte, error) {
	url := s.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, permanent(err)
	}

	return io.ReadAll(resp.Body)
}
