package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooAdapter reads daily bars from the Yahoo Finance chart API.
type YahooAdapter struct {
	baseURL    string
	rangeParam string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
}

type YahooOption func(*YahooAdapter)

func WithRetries(n int, backoff time.Duration) YahooOption {
	return func(y *YahooAdapter) {
		if n >= 0 {
			y.retries = n
		}
		y.backoff = backoff
	}
}

// Lookback window, e.g. "1mo". Indicators need more than the two bars the
// strength calculation uses.
func WithRange(r string) YahooOption {
	return func(y *YahooAdapter) {
		y.rangeParam = r
	}
}

func NewYahooAdapter(baseURL string, timeout time.Duration, opts ...YahooOption) *YahooAdapter {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	y := &YahooAdapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		rangeParam: "1mo",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries: 1,
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

func (y *YahooAdapter) Name() string {
	return "yahoo"
}

// Maps app tickers to Yahoo symbols.
func YahooSymbol(ticker string) string {
	switch ticker {
	case models.DollarIndex:
		return "DX-Y.NYB"
	case "XAUUSD":
		return "GC=F"
	default:
		return ticker + "=X"
	}
}

func (y *YahooAdapter) FetchBars(ctx context.Context, ticker string) ([]models.Bar, error) {
	var lastErr error

	for attempt := 0; attempt <= y.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("yahoo %s: %w", ticker, ctx.Err())
			case <-time.After(y.backoff * time.Duration(attempt)):
			}
		}

		bars, err := y.fetchChart(ctx, ticker)
		if err == nil {
			return bars, nil
		}
		// A missing symbol won't appear on retry.
		if isNotFound(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (y *YahooAdapter) fetchChart(ctx context.Context, ticker string) ([]models.Bar, error) {
	u := fmt.Sprintf(
		"%s/v8/finance/chart/%s?range=%s&interval=1d",
		y.baseURL,
		url.PathEscape(YahooSymbol(ticker)),
		url.QueryEscape(y.rangeParam),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: failed to build request: %w", ticker, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s request failed: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s: unexpected status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: failed to read response body: %w", ticker, err)
	}

	// Yahoo pads missing sessions with nulls, hence the pointers.
	var raw struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open  []*float64 `json:"open"`
						High  []*float64 `json:"high"`
						Low   []*float64 `json:"low"`
						Close []*float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("yahoo %s: failed to parse response: %w", ticker, err)
	}

	if raw.Chart.Error != nil {
		if strings.EqualFold(raw.Chart.Error.Code, "Not Found") {
			return nil, fmt.Errorf("yahoo %s: %w", ticker, ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("yahoo %s API error %s: %s", ticker, raw.Chart.Error.Code, raw.Chart.Error.Description)
	}

	if len(raw.Chart.Result) == 0 || len(raw.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: empty chart: %w", ticker, ErrSymbolNotFound)
	}

	result := raw.Chart.Result[0]
	q := result.Indicators.Quote[0]

	bars := make([]models.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, c := at(q.Open, i), at(q.High, i), at(q.Low, i), at(q.Close, i)
		if o == nil || c == nil {
			continue
		}
		bar := models.Bar{
			Time:  time.Unix(ts, 0).UTC(),
			Open:  *o,
			Close: *c,
			High:  max(*o, *c),
			Low:   min(*o, *c),
		}
		if h != nil {
			bar.High = *h
		}
		if l != nil {
			bar.Low = *l
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s returned no complete bars", ticker)
	}
	return bars, nil
}

func at(xs []*float64, i int) *float64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}
