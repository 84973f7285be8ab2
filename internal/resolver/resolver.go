package resolver

import (
	"fmt"
	"math"
	"strings"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/indicators"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/strength"
)

// What to do when neither the strongest nor the weakest currency is USD.
type CrossPolicy string

const (
	CrossWait       CrossPolicy = "wait"
	CrossConvention CrossPolicy = "convention"
	CrossSynthesize CrossPolicy = "synthesize"
)

func ParseCrossPolicy(s string) (CrossPolicy, error) {
	switch p := CrossPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case CrossWait, CrossConvention, CrossSynthesize:
		return p, nil
	case "":
		return CrossWait, nil
	default:
		return "", fmt.Errorf("unknown cross policy %q", s)
	}
}

type pairLegs struct {
	base, quote models.Currency
}

// Canonical quoted form of each USD major.
var majors = map[string]pairLegs{
	"EURUSD": {models.EUR, models.USD},
	"GBPUSD": {models.GBP, models.USD},
	"AUDUSD": {models.AUD, models.USD},
	"USDJPY": {models.USD, models.JPY},
	"USDCAD": {models.USD, models.CAD},
	"USDCHF": {models.USD, models.CHF},
}

// Market quoting priority; the higher-ranked currency is the base of a cross.
var quotingPriority = map[models.Currency]int{
	models.EUR: 0,
	models.GBP: 1,
	models.AUD: 2,
	models.USD: 3,
	models.CAD: 4,
	models.CHF: 5,
	models.JPY: 6,
}

type Config struct {
	CrossPolicy CrossPolicy
	MinSpread   float64 // strongest-weakest gap at or below this resolves to WAIT

	SMAPeriod     int
	RSIPeriod     int
	ATRPeriod     int
	RSIOverbought float64
	RSIOversold   float64
	StopATR       float64
	TargetATR     float64
}

func DefaultConfig() Config {
	return Config{
		CrossPolicy:   CrossWait,
		SMAPeriod:     20,
		RSIPeriod:     14,
		ATRPeriod:     14,
		RSIOverbought: 70,
		RSIOversold:   30,
		StopATR:       1.5,
		TargetATR:     2.0,
	}
}

type Resolver struct {
	cfg Config
}

func New(cfg Config) *Resolver {
	if cfg.CrossPolicy == "" {
		cfg.CrossPolicy = CrossWait
	}
	return &Resolver{cfg: cfg}
}

// Picks the strongest and weakest currency and maps them to a trade direction.
// bars is optional; when it holds a series for the resolved pair the signal
// carries technicals and may be downgraded to WAIT by the RSI filter.
func (r *Resolver) Resolve(scores models.StrengthScore, bars map[string][]models.Bar) models.Signal {
	ranked := strength.Rank(scores)
	if len(ranked) < 2 {
		return models.Signal{Action: models.ActionWait, Reason: "not enough currencies to compare"}
	}

	strong, weak := ranked[0], ranked[len(ranked)-1]
	sig := models.Signal{
		Strong: strong.Currency,
		Weak:   weak.Currency,
		Spread: strong.Score - weak.Score,
	}

	if name, legs, ok := majorFor(strong.Currency, weak.Currency); ok {
		sig.Pair = name
		sig.Action = direction(legs, strong.Currency)
	} else {
		r.resolveCross(&sig)
	}

	// Non-finite spreads come from infinite scores and count as no divergence.
	if math.IsNaN(sig.Spread) || math.IsInf(sig.Spread, 0) {
		sig.Spread = 0
	}
	if !(sig.Spread > r.cfg.MinSpread) {
		sig.Action = models.ActionWait
		sig.Reason = "no strength divergence"
		return sig
	}

	if sig.Action != models.ActionWait {
		r.confirm(&sig, bars[sig.Pair])
	}
	return sig
}

func (r *Resolver) resolveCross(sig *models.Signal) {
	switch r.cfg.CrossPolicy {
	case CrossSynthesize:
		sig.Pair = string(sig.Strong) + string(sig.Weak)
		sig.Action = models.ActionBuy
	case CrossConvention:
		legs := conventionalLegs(sig.Strong, sig.Weak)
		sig.Pair = string(legs.base) + string(legs.quote)
		sig.Action = direction(legs, sig.Strong)
	default:
		legs := conventionalLegs(sig.Strong, sig.Weak)
		sig.Pair = string(legs.base) + string(legs.quote)
		sig.Action = models.ActionWait
		sig.Reason = "cross pair without a USD leg"
	}
}

func (r *Resolver) confirm(sig *models.Signal, bars []models.Bar) {
	tech := indicators.Compute(bars, r.cfg.SMAPeriod, r.cfg.RSIPeriod, r.cfg.ATRPeriod)
	if tech == nil {
		return
	}
	sig.Technicals = tech

	switch {
	case sig.Action == models.ActionBuy && r.cfg.RSIOverbought > 0 && tech.RSI >= r.cfg.RSIOverbought:
		sig.Action = models.ActionWait
		sig.Reason = fmt.Sprintf("RSI %.1f overbought", tech.RSI)
		return
	case sig.Action == models.ActionSell && r.cfg.RSIOversold > 0 && tech.RSI <= r.cfg.RSIOversold:
		sig.Action = models.ActionWait
		sig.Reason = fmt.Sprintf("RSI %.1f oversold", tech.RSI)
		return
	}

	if tech.ATR <= 0 {
		return
	}
	stop := r.cfg.StopATR * tech.ATR
	target := r.cfg.TargetATR * tech.ATR
	levels := &models.Levels{Entry: tech.Close}
	if sig.Action == models.ActionBuy {
		levels.StopLoss = tech.Close - stop
		levels.TakeProfit = tech.Close + target
	} else {
		levels.StopLoss = tech.Close + stop
		levels.TakeProfit = tech.Close - target
	}
	sig.Levels = levels
}

func majorFor(a, b models.Currency) (string, pairLegs, bool) {
	for name, legs := range majors {
		if (legs.base == a && legs.quote == b) || (legs.base == b && legs.quote == a) {
			return name, legs, true
		}
	}
	return "", pairLegs{}, false
}

func conventionalLegs(a, b models.Currency) pairLegs {
	pa, aok := quotingPriority[a]
	pb, bok := quotingPriority[b]
	switch {
	case aok && bok && pa <= pb:
		return pairLegs{a, b}
	case aok && bok:
		return pairLegs{b, a}
	case aok:
		return pairLegs{a, b}
	case bok:
		return pairLegs{b, a}
	case a <= b:
		return pairLegs{a, b}
	default:
		return pairLegs{b, a}
	}
}

// Long the pair when the strong currency is its base, short otherwise.
func direction(legs pairLegs, strong models.Currency) models.Action {
	if legs.base == strong {
		return models.ActionBuy
	}
	return models.ActionSell
}
