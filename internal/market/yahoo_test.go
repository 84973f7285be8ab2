package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1709510400, 1709596800, 1709683200],
      "indicators": {"quote": [{
        "open":  [1.0820, null, 1.0800],
        "high":  [1.0850, 1.0840, 1.0810],
        "low":   [1.0790, 1.0780, 1.0740],
        "close": [1.0830, 1.0810, 1.0750]
      }]}
    }],
    "error": null
  }
}`

func TestYahooSymbol(t *testing.T) {
	assert.Equal(t, "DX-Y.NYB", YahooSymbol("DXY"))
	assert.Equal(t, "GC=F", YahooSymbol("XAUUSD"))
	assert.Equal(t, "EURUSD=X", YahooSymbol("EURUSD"))
}

func TestYahooFetchBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	y := NewYahooAdapter(srv.URL, time.Second)
	bars, err := y.FetchBars(context.Background(), "EURUSD")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/EURUSD=X", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "range=1mo")

	// The bar with a null open is dropped.
	require.Len(t, bars, 2)
	last := bars[len(bars)-1]
	assert.Equal(t, 1.0800, last.Open)
	assert.Equal(t, 1.0750, last.Close)
	assert.Equal(t, 1.0810, last.High)
	assert.Equal(t, 1.0740, last.Low)
	assert.True(t, bars[0].Time.Before(last.Time))
}

func TestYahooNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	y := NewYahooAdapter(srv.URL, time.Second, WithRetries(3, time.Millisecond))
	_, err := y.FetchBars(context.Background(), "XYZABC")

	assert.True(t, errors.Is(err, ErrSymbolNotFound))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestYahooRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	y := NewYahooAdapter(srv.URL, time.Second, WithRetries(1, time.Millisecond))
	bars, err := y.FetchBars(context.Background(), "EURUSD")

	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestYahooAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid range"}}}`)
	}))
	defer srv.Close()

	y := NewYahooAdapter(srv.URL, time.Second, WithRetries(0, 0), WithRange("bogus"))
	_, err := y.FetchBars(context.Background(), "EURUSD")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Invalid range"))
	assert.False(t, errors.Is(err, ErrSymbolNotFound))
}
