package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {
        "currency": "USD",
        "symbol": "AAPL",
        "instrumentType": "EQUITY",
        "regularMarketPrice": 232.5,
        "fiftyTwoWeekHigh": 260.1,
        "fiftyTwoWeekLow": 164.08,
        "longName": "Apple Inc."
      },
      "timestamp": [1704153600, 1704240000, 1704326400],
      "indicators": {
        "quote": [{
          "open":   [185.0, 184.2, 0],
          "high":   [186.4, 185.9, 0],
          "low":    [183.9, 183.4, 0],
          "close":  [185.64, 184.25, 0],
          "volume": [82488700, 58414500, 0]
        }]
      }
    }],
    "error": null
  }
}`

const summaryBody = `{
  "quoteSummary": {
    "result": [{
      "assetProfile": {
        "country": "United States",
        "sector": "Technology",
        "industry": "Consumer Electronics"
      },
      "price": {
        "longName": "Apple Inc.",
        "quoteType": "EQUITY",
        "marketCap": {"raw": 3500000000000, "fmt": "3.5T"}
      },
      "summaryDetail": {
        "trailingPE": {"raw": 35.2, "fmt": "35.20"},
        "dividendYield": {"raw": 0.0044, "fmt": "0.44%"}
      }
    }],
    "error": null
  }
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(WithBaseURL(server.URL), WithRateLimit(1000))
	return server, client
}

func TestGetQuoteMergesChartAndSummary(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "folio/1.0", r.Header.Get("User-Agent"))
		switch {
		case r.URL.Path == "/v8/finance/chart/AAPL":
			w.Write([]byte(chartBody))
		case r.URL.Path == "/v10/finance/quoteSummary/AAPL":
			assert.Equal(t, "assetProfile,price,summaryDetail", r.URL.Query().Get("modules"))
			w.Write([]byte(summaryBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	info, err := client.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "AAPL", info.Symbol)
	assert.Equal(t, "Apple Inc.", info.CompanyName)
	assert.Equal(t, "United States", info.Country)
	assert.Equal(t, "Technology", info.Sector)
	assert.Equal(t, "EQUITY", info.QuoteType)
	assert.Equal(t, "USD", info.Currency)
	assert.InDelta(t, 232.5, info.CurrentPrice, 0.001)
	assert.InDelta(t, 35.2, info.PERatio, 0.001)
	assert.InDelta(t, 3.5e12, info.MarketCap, 1)
	assert.False(t, info.LastUpdated.IsZero())
}

func TestGetQuoteSurvivesSummaryFailure(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v8/finance/chart/MSFT" {
			w.Write([]byte(chartBody))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	info, err := client.GetQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.InDelta(t, 232.5, info.CurrentPrice, 0.001)
	assert.Empty(t, info.Country, "profile fields stay empty when summary call fails")
}

func TestGetQuoteUnknownSymbolReturnsNil(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	info, err := client.GetQuote(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGetQuoteServerErrorIsAPIError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestGetHistoryDropsEmptyBars(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		assert.NotEmpty(t, r.URL.Query().Get("period2"))
		w.Write([]byte(chartBody))
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	bars, err := client.GetHistory(context.Background(), "AAPL", from, to)
	require.NoError(t, err)

	// Third bar has a zero close and must be filtered out.
	require.Len(t, bars, 2)
	assert.InDelta(t, 185.64, bars[0].Close, 0.001)
	assert.InDelta(t, 184.25, bars[1].Close, 0.001)
	assert.Equal(t, int64(82488700), bars[0].Volume)
}
