package ticker

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pders01/homepage/internal/feed"
	"github.com/pders01/homepage/internal/validation"
)

// LoadMessage reads the static ticker message from a local file or an
// http(s) URL and trims surrounding whitespace. A nil fetcher gets the
// default policy.
func LoadMessage(ctx context.Context, fetcher *feed.Fetcher, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("no message source configured")
	}

	if !validation.IsRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("reading message: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if fetcher == nil {
		fetcher = feed.NewFetcher(nil)
	}
	body, err := fetcher.Fetch(ctx, source, "text/plain")
	if err != nil {
		return "", fmt.Errorf("fetching message: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}
