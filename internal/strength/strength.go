package strength

import (
	"math"
	"sort"
	"time"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

// How a currency relates to its USD pair.
type leg struct {
	currency models.Currency
	pair     string
	usdBase  bool // USD/CCY pairs subtract the pair change
}

var legs = []leg{
	{models.EUR, "EURUSD", false},
	{models.GBP, "GBPUSD", false},
	{models.JPY, "USDJPY", true},
	{models.AUD, "AUDUSD", false},
	{models.CAD, "USDCAD", true},
}

// Pairs reported as percentage changes only; they never feed a score.
var DisplayPairs = []string{"USDCHF", "XAUUSD"}

const FallbackIndex = 104.50

// Neutral score set used when the dollar index itself is unavailable.
func Fallback() models.StrengthScore {
	return models.StrengthScore{
		models.USD: 0.1,
		models.EUR: -0.1,
		models.GBP: 0.2,
		models.JPY: -0.3,
		models.AUD: 0.1,
		models.CAD: 0.0,
	}
}

// Tickers a caller needs to fetch to compute a full score set.
func RequiredTickers() []string {
	tickers := []string{models.DollarIndex}
	for _, l := range legs {
		tickers = append(tickers, l.pair)
	}
	return tickers
}

// Percentage change from open to close. ok is false for unusable inputs.
func PercentChange(open, close float64) (float64, bool) {
	if open == 0 || !finite(open) || !finite(close) {
		return 0, false
	}
	return (close - open) / open * 100, true
}

// Computes per-currency strength from quotes keyed by ticker (DXY, EURUSD, ...).
// A missing pair scores 0 and is listed in Missing; a missing index returns the
// fallback set with Live=false.
func Compute(quotes map[string]models.Quote, now time.Time) models.Strength {
	idx, ok := quotes[models.DollarIndex]
	usd, valid := PercentChange(idx.Open, idx.Close)
	if !ok || !valid {
		return models.Strength{
			Scores:     Fallback(),
			Index:      FallbackIndex,
			Live:       false,
			Missing:    []string{models.DollarIndex},
			ComputedAt: now,
		}
	}

	scores := models.StrengthScore{models.USD: usd}
	var missing []string

	for _, l := range legs {
		q, ok := quotes[l.pair]
		change, valid := PercentChange(q.Open, q.Close)
		if !ok || !valid {
			scores[l.currency] = 0
			missing = append(missing, l.pair)
			continue
		}

		if l.usdBase {
			scores[l.currency] = usd - change
		} else {
			scores[l.currency] = usd + change
		}
	}

	return models.Strength{
		Scores:     scores,
		Index:      idx.Close,
		Live:       true,
		Missing:    missing,
		ComputedAt: now,
	}
}

// Sorts currencies by score, strongest first. Ties keep ScoredCurrencies order;
// currencies outside that list follow it alphabetically.
func Rank(scores models.StrengthScore) []models.RankedCurrency {
	priority := make(map[models.Currency]int, len(models.ScoredCurrencies))
	for i, c := range models.ScoredCurrencies {
		priority[c] = i
	}

	ranked := make([]models.RankedCurrency, 0, len(scores))
	for c, s := range scores {
		if math.IsNaN(s) {
			s = 0
		}
		ranked = append(ranked, models.RankedCurrency{Currency: c, Score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		pi, iok := priority[ranked[i].Currency]
		pj, jok := priority[ranked[j].Currency]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return ranked[i].Currency < ranked[j].Currency
		}
	})

	return ranked
}

// Percentage changes for every pair present in quotes, in the given order.
func PairChanges(quotes map[string]models.Quote, pairs []string) []models.PairChange {
	changes := make([]models.PairChange, 0, len(pairs))
	for _, p := range pairs {
		q, ok := quotes[p]
		if !ok {
			continue
		}
		change, valid := PercentChange(q.Open, q.Close)
		if !valid {
			continue
		}
		changes = append(changes, models.PairChange{
			Pair:      p,
			Open:      q.Open,
			Close:     q.Close,
			ChangePct: change,
		})
	}
	return changes
}

// BULLISH when the dollar gained on the session, BEARISH otherwise.
func Bias(scores models.StrengthScore) string {
	if scores[models.USD] > 0 {
		return "BULLISH"
	}
	return "BEARISH"
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
