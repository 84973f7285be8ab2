package market

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

// Fetcher pulls a fixed ticker set from a Source.
type Fetcher struct {
	source  Source
	tickers []string
	timeout time.Duration
	observe func(source string, ok bool, elapsed time.Duration)
}

// Partial results of one fetch cycle. A ticker is in exactly one of Bars or Errors.
type Result struct {
	Quotes map[string]models.Quote
	Bars   map[string][]models.Bar
	Errors map[string]error
}

// Holds either bars or an error for one ticker.
type tickerResult struct {
	ticker string
	bars   []models.Bar
	err    error
}

func NewFetcher(source Source, tickers []string, timeout time.Duration) *Fetcher {
	return &Fetcher{source: source, tickers: tickers, timeout: timeout}
}

// Called once per ticker with the outcome. Used for metrics.
func (f *Fetcher) OnResult(fn func(source string, ok bool, elapsed time.Duration)) {
	f.observe = fn
}

func (f *Fetcher) Tickers() []string {
	return f.tickers
}

// Fetches every ticker concurrently. Failures are recorded per ticker and never
// abort the rest; the whole cycle shares one timeout.
func (f *Fetcher) Fetch(ctx context.Context) Result {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	results := make(chan tickerResult, len(f.tickers))

	var wg sync.WaitGroup

	for _, ticker := range f.tickers {
		wg.Add(1)

		go func(ticker string) {
			defer wg.Done()

			start := time.Now()
			bars, err := f.source.FetchBars(ctx, ticker)
			if f.observe != nil {
				f.observe(f.source.Name(), err == nil, time.Since(start))
			}
			results <- tickerResult{ticker: ticker, bars: bars, err: err}
		}(ticker)
	}

	// Close the channel once all goroutines finish
	go func() {
		wg.Wait()
		close(results)
	}()

	out := Result{
		Quotes: make(map[string]models.Quote),
		Bars:   make(map[string][]models.Bar),
		Errors: make(map[string]error),
	}

	for r := range results {
		if r.err == nil && len(r.bars) == 0 {
			r.err = errors.New("no bars returned")
		}
		if r.err != nil {
			log.Warn().Err(r.err).Str("ticker", r.ticker).Str("source", f.source.Name()).Msg("quote fetch failed, skipping")
			out.Errors[r.ticker] = r.err
			continue
		}

		last := r.bars[len(r.bars)-1]
		out.Quotes[r.ticker] = models.Quote{Ticker: r.ticker, Open: last.Open, Close: last.Close}
		out.Bars[r.ticker] = r.bars
	}

	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrSymbolNotFound)
}
