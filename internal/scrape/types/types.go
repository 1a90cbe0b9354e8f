package types

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jobradar/internal/domain"
	"jobradar/internal/scrape/util"
)

// ErrSourceUnavailable wraps every adapter failure: network errors,
// non-2xx statuses and payloads that cannot be decoded.
var ErrSourceUnavailable = errors.New("source unavailable")

// Adapter fetches the postings of one organization on one ATS family.
type Adapter interface {
	Name() string
	FetchCompany(ctx context.Context, co domain.Company) ([]domain.Job, error)
}

// Options are shared by every adapter.
type Options struct {
	BaseURL          string // overrides the public API host (tests)
	UserAgent        string
	Timeout          time.Duration
	DescriptionChars int
	Limiter          *util.HostLimiter
	Logger           *zap.Logger
}

const (
	DefaultUserAgent        = "job-radar/1.0"
	DefaultTimeout          = 30 * time.Second
	DefaultDescriptionChars = 6000
)

// WithDefaults fills zero fields.
func (o Options) WithDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.DescriptionChars <= 0 {
		o.DescriptionChars = DefaultDescriptionChars
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// HTTPClient builds the bounded-timeout client adapters use.
func (o Options) HTTPClient() *http.Client {
	return &http.Client{Timeout: o.Timeout}
}

// Unavailable wraps err as a SourceUnavailable failure.
func Unavailable(source string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, err)
}

// Get issues an anonymous GET, waiting on the host limiter first, and
// returns the response only for 2xx statuses. The caller closes the body.
func Get(ctx context.Context, hc *http.Client, o Options, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", o.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	if err := o.Limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return res, nil
}
