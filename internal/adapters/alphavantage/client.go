package alphavantage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockwatch/internal/adapters/config"
	"stockwatch/internal/adapters/ratelimit"
	"stockwatch/internal/domain/quote"
	"stockwatch/internal/metrics"
	"stockwatch/pkg/errors"
)

const (
	functionMovers   = "TOP_GAINERS_LOSERS"
	functionOverview = "OVERVIEW"

	defaultHTTPTimeout = 10 * time.Second
)

// Client talks to the Alpha Vantage query endpoint. All functions share
// one GET route selected by the "function" parameter.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a new Alpha Vantage client
func NewClient(cfg config.AlphaVantageConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 5
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    ratelimit.NewLimiter("alphavantage", rpm),
	}
}

// moversResponse is the raw TOP_GAINERS_LOSERS payload. The upstream
// signals rate limiting through "Information"/"Note" instead of an
// HTTP status.
type moversResponse struct {
	Metadata           string        `json:"metadata"`
	LastUpdated        string        `json:"last_updated"`
	TopGainers         []quote.Quote `json:"top_gainers"`
	TopLosers          []quote.Quote `json:"top_losers"`
	MostActivelyTraded []quote.Quote `json:"most_actively_traded"`
	Information        string        `json:"Information"`
	Note               string        `json:"Note"`
}

// GetTopMovers fetches the current gainers/losers/most-active lists.
// A well-formed response carrying an informational message is reported
// as errors.ErrSoftAPIFailure so callers can distinguish it from
// transport failure.
func (c *Client) GetTopMovers(ctx context.Context) (*quote.MoversSnapshot, error) {
	var res moversResponse
	if err := c.get(ctx, functionMovers, nil, &res); err != nil {
		return nil, err
	}

	if res.Information != "" || res.Note != "" {
		metrics.UpstreamCalls.WithLabelValues(functionMovers, "soft_failure").Inc()
		return nil, errors.Wrapf(errors.ErrSoftAPIFailure, "%s", firstNonEmpty(res.Information, res.Note))
	}

	metrics.UpstreamCalls.WithLabelValues(functionMovers, "success").Inc()

	return &quote.MoversSnapshot{
		TopGainers:         res.TopGainers,
		TopLosers:          res.TopLosers,
		MostActivelyTraded: res.MostActivelyTraded,
		LastUpdated:        res.LastUpdated,
	}, nil
}

// GetCompanyOverview fetches fundamentals for one symbol. An empty or
// informational body is reported as errors.ErrSoftAPIFailure.
func (c *Client) GetCompanyOverview(ctx context.Context, symbol string) (*quote.CompanyOverview, error) {
	params := url.Values{"symbol": []string{strings.ToUpper(symbol)}}

	var overview quote.CompanyOverview
	if err := c.get(ctx, functionOverview, params, &overview); err != nil {
		return nil, err
	}

	if !overview.IsUsable() {
		metrics.UpstreamCalls.WithLabelValues(functionOverview, "soft_failure").Inc()
		return nil, errors.Wrapf(errors.ErrSoftAPIFailure, "overview for %s", symbol)
	}

	metrics.UpstreamCalls.WithLabelValues(functionOverview, "success").Inc()
	return &overview, nil
}

func (c *Client) get(ctx context.Context, function string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint, err := url.Parse(c.baseURL + "/query")
	if err != nil {
		return errors.Wrap(err, "invalid base url")
	}

	query := endpoint.Query()
	query.Set("function", function)
	query.Set("apikey", c.apiKey)
	for key, values := range params {
		for _, v := range values {
			query.Set(key, v)
		}
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamLatency.WithLabelValues(function).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCalls.WithLabelValues(function, "error").Inc()
		return errors.Wrap(errors.ErrUpstreamUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamCalls.WithLabelValues(function, "error").Inc()
		if resp.StatusCode == http.StatusTooManyRequests {
			return errors.Wrapf(errors.ErrRateLimitExceeded, "status %d", resp.StatusCode)
		}
		return errors.Wrapf(errors.ErrUpstreamUnavailable, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamCalls.WithLabelValues(function, "error").Inc()
		return errors.Wrap(errors.ErrUpstreamUnavailable, err.Error())
	}

	if err := json.Unmarshal(body, dest); err != nil {
		metrics.UpstreamCalls.WithLabelValues(function, "error").Inc()
		return errors.Wrap(errors.ErrUpstreamUnavailable, "decoding response: "+err.Error())
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
