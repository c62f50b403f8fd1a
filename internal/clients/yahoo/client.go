// Package yahoo provides a client for the Yahoo Finance chart and
// quoteSummary APIs.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://query2.finance.yahoo.com"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second

	userAgent = "folio/1.0"
)

// Client implements the QuoteClient interface against Yahoo Finance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// rawValue handles Yahoo's {"raw": n, "fmt": "..."} number wrapping.
type rawValue struct {
	Raw float64 `json:"raw"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				InstrumentType     string  `json:"instrumentType"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
				LongName           string  `json:"longName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Country  string `json:"country"`
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			Price struct {
				LongName  string   `json:"longName"`
				ShortName string   `json:"shortName"`
				QuoteType string   `json:"quoteType"`
				MarketCap rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetQuote retrieves a live quote with descriptive enrichment. A symbol
// Yahoo does not know returns (nil, nil).
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.StockInfo, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "1d")

	var chart chartResponse
	err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params, &chart)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if chart.Chart.Error != nil || len(chart.Chart.Result) == 0 {
		return nil, nil
	}

	meta := chart.Chart.Result[0].Meta
	info := &models.StockInfo{
		Symbol:       symbol,
		CompanyName:  meta.LongName,
		Currency:     meta.Currency,
		QuoteType:    meta.InstrumentType,
		CurrentPrice: meta.RegularMarketPrice,
		High52Week:   meta.FiftyTwoWeekHigh,
		Low52Week:    meta.FiftyTwoWeekLow,
		LastUpdated:  time.Now(),
	}

	// Profile enrichment is best effort. A quote with no sector or country
	// still values correctly, it just classifies as Unknown.
	summaryParams := url.Values{}
	summaryParams.Set("modules", "assetProfile,price,summaryDetail")

	var summary quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), summaryParams, &summary); err != nil {
		c.logger.Debug().Err(err).Str("symbol", symbol).Msg("Quote summary unavailable")
		return info, nil
	}
	if summary.QuoteSummary.Error != nil || len(summary.QuoteSummary.Result) == 0 {
		return info, nil
	}

	r := summary.QuoteSummary.Result[0]
	info.Country = r.AssetProfile.Country
	info.Sector = r.AssetProfile.Sector
	info.Industry = r.AssetProfile.Industry
	info.MarketCap = r.Price.MarketCap.Raw
	info.PERatio = r.SummaryDetail.TrailingPE.Raw
	info.DividendYield = r.SummaryDetail.DividendYield.Raw
	if r.Price.QuoteType != "" {
		info.QuoteType = r.Price.QuoteType
	}
	if info.CompanyName == "" {
		info.CompanyName = r.Price.LongName
	}
	if info.CompanyName == "" {
		info.CompanyName = r.Price.ShortName
	}

	return info, nil
}

// GetHistory retrieves daily price bars between from and to inclusive.
func (c *Client) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	params.Set("period2", fmt.Sprintf("%d", to.Add(24*time.Hour).Unix()))

	var chart chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    chart.Chart.Error.Description,
			Endpoint:   "/v8/finance/chart/" + symbol,
		}
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}

	r := chart.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := r.Indicators.Quote[0]

	bars := make([]models.PriceBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		bar := models.PriceBar{Date: time.Unix(ts, 0).UTC()}
		if i < len(quote.Open) {
			bar.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Close) {
			bar.Close = quote.Close[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		if bar.Close <= 0 {
			continue
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
