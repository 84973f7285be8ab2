// Package indicators holds the moving average, RSI and ATR formulas applied to
// daily bars. All functions return ok=false when the series is too short.
package indicators

import (
	"math"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

// Simple moving average of the last period closes.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period), true
}

// Wilder's relative strength index.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		up, down := 0.0, 0.0
		if d > 0 {
			up = d
		} else {
			down = -d
		}
		avgGain = (avgGain*float64(period-1) + up) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + down) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, true
		}
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// Wilder's average true range.
func ATR(bars []models.Bar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period+1 {
		return 0, false
	}

	tr := func(i int) float64 {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		return math.Max(hl, math.Max(hc, lc))
	}

	atr := 0.0
	for i := 1; i <= period; i++ {
		atr += tr(i)
	}
	atr /= float64(period)

	for i := period + 1; i < len(bars); i++ {
		atr = (atr*float64(period-1) + tr(i)) / float64(period)
	}
	return atr, true
}

func Closes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Computes SMA, RSI and ATR over bars. Returns nil if any of them lacks history.
func Compute(bars []models.Bar, smaPeriod, rsiPeriod, atrPeriod int) *models.Technicals {
	if len(bars) == 0 {
		return nil
	}
	closes := Closes(bars)

	sma, ok := SMA(closes, smaPeriod)
	if !ok {
		return nil
	}
	rsi, ok := RSI(closes, rsiPeriod)
	if !ok {
		return nil
	}
	atr, ok := ATR(bars, atrPeriod)
	if !ok {
		return nil
	}

	return &models.Technicals{
		SMA:   sma,
		RSI:   rsi,
		ATR:   atr,
		Close: closes[len(closes)-1],
	}
}
