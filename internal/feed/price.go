package feed

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pders01/homepage/internal/clock"
	"github.com/pders01/homepage/internal/storage"
)

const (
	PriceFeed        = "price"
	PriceTTL         = 10 * time.Minute
	PricePlaceholder = "— BSV $? —"
)

// PriceKeys are the storage slots of the exchange-rate feed.
var PriceKeys = Keys{
	Value:     "bsv_last_price",
	FetchedAt: "bsv_last_fetch",
}

// Quote is one exchange-rate reading in USD.
type Quote struct {
	Rate float64
}

// DecodeQuote extracts the "rate" field from an exchange-rate response.
// The field may be a JSON number or a numeric string.
func DecodeQuote(body []byte) (Quote, error) {
	field := gjson.GetBytes(body, "rate")
	if !field.Exists() {
		return Quote{}, fmt.Errorf("%w: missing rate", ErrMalformed)
	}

	rate, err := parseNumber(field)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: rate: %v", ErrMalformed, err)
	}
	return Quote{Rate: rate}, nil
}

func FormatQuote(q Quote) string {
	return fmt.Sprintf("— BSV $%.2f —", q.Rate)
}

// NewPriceCache builds the exchange-rate cache reading from url.
func NewPriceCache(url string, ttl time.Duration, fetcher *Fetcher, kv storage.KV, clk clock.Clock) *TTLCache[Quote] {
	if ttl <= 0 {
		ttl = PriceTTL
	}
	return NewTTLCache(Source[Quote]{
		Name: PriceFeed,
		Keys: PriceKeys,
		TTL:  ttl,
		Fetch: func(ctx context.Context) (Quote, error) {
			body, err := fetcher.FetchJSON(ctx, url)
			if err != nil {
				return Quote{}, err
			}
			return DecodeQuote(body)
		},
		Encode: func(q Quote) Payload {
			return Payload{Value: strconv.FormatFloat(q.Rate, 'f', 2, 64)}
		},
		Decode: func(p Payload) (Quote, error) {
			rate, err := strconv.ParseFloat(p.Value, 64)
			if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) {
				return Quote{}, fmt.Errorf("bad stored price %q", p.Value)
			}
			return Quote{Rate: rate}, nil
		},
		Format:      FormatQuote,
		Placeholder: PricePlaceholder,
	}, kv, clk)
}

func parseNumber(field gjson.Result) (float64, error) {
	var (
		n   float64
		err error
	)
	switch field.Type {
	case gjson.Number:
		n = field.Num
	case gjson.String:
		n, err = strconv.ParseFloat(field.Str, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", field.Str)
		}
	default:
		return 0, fmt.Errorf("unexpected %s", field.Type)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not finite")
	}
	return n, nil
}
