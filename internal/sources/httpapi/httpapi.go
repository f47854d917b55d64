// Package httpapi fetches resource records from the broker's REST API.
package httpapi

import (
	"context"
	"net/url"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/transport"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sources"
)

// DefaultMaxPages bounds how many pages of a paginated endpoint are followed.
const DefaultMaxPages = 10

// DefaultEndpoints maps the built-in resources to their API paths.
var DefaultEndpoints = map[string]string{
	entities.DividendsID:    "/api/v0/history/dividends",
	entities.OrdersID:       "/api/v0/equity/history/orders",
	entities.TransactionsID: "/api/v0/history/transactions",
	entities.PortfolioID:    "/api/v0/equity/portfolio",
	entities.PiesID:         "/api/v0/equity/pies",
	entities.InstrumentsID:  "/api/v0/equity/metadata/instruments",
	entities.AccountID:      "/api/v0/equity/account/cash",
}

// Source is a sources.Source backed by the broker API.
type Source struct {
	client    *transport.Client
	baseURL   string
	endpoints map[string]string
	maxPages  int
}

var _ sources.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithEndpoints overrides or adds resource endpoints.
func WithEndpoints(endpoints map[string]string) Option {
	return func(s *Source) {
		for id, path := range endpoints {
			if strings.TrimSpace(path) != "" {
				s.endpoints[id] = path
			}
		}
	}
}

// WithMaxPages sets how many pages are followed for paginated endpoints.
func WithMaxPages(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// New creates a source for the API at baseURL.
func New(baseURL string, client *transport.Client, opts ...Option) *Source {
	s := &Source{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		endpoints: make(map[string]string, len(DefaultEndpoints)),
		maxPages:  DefaultMaxPages,
	}
	for id, path := range DefaultEndpoints {
		s.endpoints[id] = path
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Endpoint returns the API path of resourceID.
func (s *Source) Endpoint(resourceID string) (string, bool) {
	path, ok := s.endpoints[resourceID]
	return path, ok
}

// Fetch implements sources.Source. Paginated responses ({"items": [...],
// "nextPagePath": ...}) are followed and concatenated.
func (s *Source) Fetch(ctx context.Context, resourceID string) (any, error) {
	endpoint, ok := s.endpoints[resourceID]
	if !ok {
		return nil, &errors.SourceError{
			Source:     "http",
			ResourceID: resourceID,
			Message:    "no endpoint configured",
			Err:        errors.NewNotFoundError("endpoint", resourceID),
		}
	}

	log := logging.Ctx(ctx).With().Str("resource", resourceID).Logger()

	var records []any
	next := endpoint
	for page := 0; next != "" && page < s.maxPages; page++ {
		body, err := s.get(ctx, resourceID, next)
		if err != nil {
			return nil, err
		}

		if list, ok := body.([]any); ok {
			records = append(records, list...)
			next = ""
			break
		}
		items, ok := sources.Unwrap(body).([]any)
		if !ok {
			log.Debug().Str("endpoint", next).Msg("Fetched single record")
			return body, nil
		}

		records = append(records, items...)
		next = nextPage(body)
		log.Debug().Str("endpoint", endpoint).Int("page", page+1).Int("records", len(items)).Msg("Fetched page")
	}
	if next != "" {
		log.Warn().
			Str("endpoint", endpoint).
			Str("next", next).
			Int("max_pages", s.maxPages).
			Int("records", len(records)).
			Msg("Page limit reached, records truncated")
	}
	return records, nil
}

func (s *Source) get(ctx context.Context, resourceID, path string) (any, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = s.baseURL + "/" + strings.TrimPrefix(path, "/")
	}
	if _, err := url.Parse(target); err != nil {
		return nil, errors.WrapSource("http", resourceID, err)
	}

	resp, err := s.client.Get(ctx, target)
	if err != nil {
		if errors.Is(err, errors.ErrSourceUnavailable) {
			return nil, err
		}
		return nil, errors.WrapSource("http", resourceID, err)
	}

	body, err := transport.DecodeOrdered(resp)
	if err != nil {
		var serr *errors.SourceError
		if errors.As(err, &serr) {
			serr.ResourceID = resourceID
			return nil, serr
		}
		return nil, errors.WrapSource("http", resourceID, err)
	}
	return body, nil
}

func nextPage(body any) string {
	page, ok := body.(yaml.MapSlice)
	if !ok {
		return ""
	}
	for _, item := range page {
		if item.Key == "nextPagePath" {
			if s, ok := item.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}
