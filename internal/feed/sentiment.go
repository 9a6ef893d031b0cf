package feed

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pders01/homepage/internal/clock"
	"github.com/pders01/homepage/internal/storage"
)

const (
	SentimentFeed        = "sentiment"
	SentimentTTL         = 24 * time.Hour
	SentimentPlaceholder = "— F&G ? —"
)

// SentimentKeys are the storage slots of the fear & greed feed.
var SentimentKeys = Keys{
	Value:     "fng_last_value",
	Label:     "fng_last_class",
	FetchedAt: "fng_last_fetch",
}

// Sentiment is one fear & greed index reading.
type Sentiment struct {
	Value          int
	Classification string
}

// DecodeSentiment reads the first entry of a fear & greed response. Both
// the {"data":[...]} envelope and a bare array are accepted.
func DecodeSentiment(body []byte) (Sentiment, error) {
	entry := gjson.GetBytes(body, "data.0")
	if !entry.Exists() {
		entry = gjson.GetBytes(body, "0")
	}
	if !entry.IsObject() {
		return Sentiment{}, fmt.Errorf("%w: no index entry", ErrMalformed)
	}

	value, err := parseIndex(entry.Get("value"))
	if err != nil {
		return Sentiment{}, fmt.Errorf("%w: value: %v", ErrMalformed, err)
	}

	class := entry.Get("value_classification")
	if class.Type != gjson.String || strings.TrimSpace(class.Str) == "" {
		return Sentiment{}, fmt.Errorf("%w: missing value_classification", ErrMalformed)
	}

	return Sentiment{Value: value, Classification: strings.TrimSpace(class.Str)}, nil
}

func FormatSentiment(s Sentiment) string {
	if s.Classification == "" {
		return fmt.Sprintf("— F&G %d —", s.Value)
	}
	return fmt.Sprintf("— F&G %d %s —", s.Value, s.Classification)
}

// NewSentimentCache builds the fear & greed cache reading from url.
func NewSentimentCache(url string, ttl time.Duration, fetcher *Fetcher, kv storage.KV, clk clock.Clock) *TTLCache[Sentiment] {
	if ttl <= 0 {
		ttl = SentimentTTL
	}
	return NewTTLCache(Source[Sentiment]{
		Name: SentimentFeed,
		Keys: SentimentKeys,
		TTL:  ttl,
		Fetch: func(ctx context.Context) (Sentiment, error) {
			body, err := fetcher.FetchJSON(ctx, url)
			if err != nil {
				return Sentiment{}, err
			}
			return DecodeSentiment(body)
		},
		Encode: func(s Sentiment) Payload {
			return Payload{Value: strconv.Itoa(s.Value), Label: s.Classification}
		},
		Decode: func(p Payload) (Sentiment, error) {
			v, err := strconv.Atoi(p.Value)
			if err != nil || v < 0 || v > 100 {
				return Sentiment{}, fmt.Errorf("bad stored index %q", p.Value)
			}
			return Sentiment{Value: v, Classification: p.Label}, nil
		},
		Format:      FormatSentiment,
		Placeholder: SentimentPlaceholder,
	}, kv, clk)
}

func parseIndex(field gjson.Result) (int, error) {
	if !field.Exists() {
		return 0, fmt.Errorf("missing")
	}
	n, err := parseNumber(field)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 100 || n != math.Trunc(n) {
		return 0, fmt.Errorf("out of range: %v", n)
	}
	return int(n), nil
}
