package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/validation"
)

const (
	defaultUserAgent = "homepage/1.0 (+https://github.com/pders01/homepage)"
	defaultTimeout   = 10 * time.Second
	maxBodyBytes     = 1 << 20
)

// Fetcher performs the GET requests behind every feed and every remote
// content source. URLs are checked against the endpoint policy before any
// request leaves the process.
type Fetcher struct {
	client    *http.Client
	userAgent string
	validator *validation.EndpointValidator
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := defaultTimeout
	userAgent := defaultUserAgent
	validator := validation.NewEndpointValidator()

	if cfg != nil {
		if cfg.Feeds.HTTPTimeout > 0 {
			timeout = cfg.Feeds.HTTPTimeout
		}
		if cfg.Feeds.UserAgent != "" {
			userAgent = cfg.Feeds.UserAgent
		}
		if cfg.Feeds.AllowPrivate {
			validator = validation.NewPermissiveEndpointValidator()
		}
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		validator: validator,
	}
}

// Fetch returns the body of url, up to 1 MiB, if the endpoint is allowed
// and the server answered 2xx. The body itself is not inspected.
func (f *Fetcher) Fetch(ctx context.Context, url, accept string) ([]byte, error) {
	target, err := f.validator.Validate(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEndpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrNetwork, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}
	return body, nil
}

// FetchJSON is Fetch for JSON APIs: the body must also be syntactically
// valid JSON.
func (f *Fetcher) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	body, err := f.Fetch(ctx, url, "application/json")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrMalformed)
	}
	return body, nil
}
