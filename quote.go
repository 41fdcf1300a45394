package cryptofolio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Quoter returns the current unit price of a ticker.
type Quoter interface {
	Price(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// QuoterFunc adapts a function to the Quoter interface.
type QuoterFunc func(ctx context.Context, ticker string) (decimal.Decimal, error)

func (f QuoterFunc) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	return f(ctx, ticker)
}

// DefaultPricePath locates the price in the quote service response.
const DefaultPricePath = "$.price"

// QuoteService fetches prices from an IEX Cloud like HTTP API:
//
//	GET <URL>/<ticker>/price?token=<token>
//
// The price is read from the JSON response at PricePath. It can be either a
// JSON number or a string holding a number.
type QuoteService struct {
	URL       string
	Token     string
	PricePath string
	Client    *http.Client
}

// NewQuoteService creates a QuoteService with the default price path and client.
func NewQuoteService(baseURL, token string) *QuoteService {
	return &QuoteService{
		URL:       baseURL,
		Token:     token,
		PricePath: DefaultPricePath,
		Client:    http.DefaultClient,
	}
}

// ValidatePricePath checks that path is a valid JSONPath expression.
func ValidatePricePath(path string) error {
	if _, err := jsonpath.New(path); err != nil {
		return fmt.Errorf("invalid price path %q: %w", path, err)
	}
	return nil
}

func (s *QuoteService) addr(ticker string) string {
	base := strings.TrimRight(s.URL, "/")
	return fmt.Sprintf("%s/%s/price?token=%s", base, url.PathEscape(ticker), url.QueryEscape(s.Token))
}

// Price implements Quoter.
func (s *QuoteService) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if s.URL == "" {
		return decimal.Zero, fmt.Errorf("no quote service URL configured")
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	path := s.PricePath
	if path == "" {
		path = DefaultPricePath
	}

	var jobj any
	if err := jget(ctx, client, s.addr(ticker), &jobj); err != nil {
		return decimal.Zero, err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no price at %q in response: %w", path, err)
	}
	// jsonpath may return a list of one answer, keep the first one.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return parsePrice(jval)
}

// parsePrice converts a decoded JSON value into a decimal price.
func parsePrice(jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("price is an invalid string %q", v)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("price is not a number: %v", jval)
	}
}
