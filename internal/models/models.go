package models

import "time"

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	AUD Currency = "AUD"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	XAU Currency = "XAU"
)

// Fixed priority order used wherever currencies need a deterministic order.
var ScoredCurrencies = []Currency{USD, EUR, GBP, JPY, AUD, CAD}

// Pairs the terminal lets a user pick for analysis.
var MajorPairs = []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD", "USDCHF", "XAUUSD"}

const DollarIndex = "DXY"

type Quote struct {
	Ticker string  `json:"ticker"`
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
}

// One OHLC bar, oldest first when returned as a series.
type Bar struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// Signed percentage strength per currency.
type StrengthScore map[Currency]float64

type Strength struct {
	Scores     StrengthScore `json:"scores"`
	Index      float64       `json:"index"`
	Live       bool          `json:"live"`
	Missing    []string      `json:"missing,omitempty"`
	ComputedAt time.Time     `json:"computed_at"`
}

type RankedCurrency struct {
	Currency Currency `json:"currency"`
	Score    float64  `json:"score"`
}

type PairChange struct {
	Pair      string  `json:"pair"`
	Open      float64 `json:"open"`
	Close     float64 `json:"close"`
	ChangePct float64 `json:"change_pct"`
}

type SessionWindow struct {
	Name         string `json:"name"`
	StartHourUTC int    `json:"start_hour_utc"`
	EndHourUTC   int    `json:"end_hour_utc"`
}

type SessionStatus struct {
	Active    []string  `json:"active"`
	Overlap   bool      `json:"overlap"`
	HourUTC   int       `json:"hour_utc"`
	LocalHour int       `json:"local_hour"`
	LocalTime time.Time `json:"local_time"`
	Timezone  string    `json:"timezone"`
}

type Action string

const (
	ActionStrongBuy  Action = "STRONG BUY"
	ActionBuy        Action = "BUY"
	ActionWait       Action = "WAIT"
	ActionSell       Action = "SELL"
	ActionStrongSell Action = "STRONG SELL"
)

type Technicals struct {
	SMA   float64 `json:"sma"`
	RSI   float64 `json:"rsi"`
	ATR   float64 `json:"atr"`
	Close float64 `json:"close"`
}

type Levels struct {
	Entry      float64 `json:"entry"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
}

type Signal struct {
	Strong     Currency    `json:"strong"`
	Weak       Currency    `json:"weak"`
	Pair       string      `json:"pair"`
	Action     Action      `json:"action"`
	Spread     float64     `json:"spread"`
	Reason     string      `json:"reason,omitempty"`
	Technicals *Technicals `json:"technicals,omitempty"`
	Levels     *Levels     `json:"levels,omitempty"`
}

type Advisory struct {
	ID         string    `json:"id"`
	Pair       string    `json:"pair"`
	Score      int       `json:"score"`
	Action     Action    `json:"action"`
	Reasoning  []string  `json:"reasoning"`
	TakeProfit float64   `json:"tp"`
	StopLoss   float64   `json:"sl"`
	CreatedAt  time.Time `json:"created_at"`
}

type NewsEvent struct {
	Time     string `json:"time"`
	Currency string `json:"currency"`
	Event    string `json:"event"`
	Impact   string `json:"impact"`
}

// Everything the dashboard shows, built in one pass so it renders consistently.
type Snapshot struct {
	Strength  Strength         `json:"strength"`
	Ranked    []RankedCurrency `json:"ranked"`
	Bias      string           `json:"bias"` // BULLISH or BEARISH, from the USD score
	Signal    Signal           `json:"signal"`
	Pairs     []PairChange     `json:"pairs"`
	News      []NewsEvent      `json:"news"`
	NewsLive  bool             `json:"news_live"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Application state that used to live in page-global variables.
type State struct {
	Snapshot     *Snapshot `json:"snapshot,omitempty"`
	SelectedPair string    `json:"selected_pair"`
	Advisory     *Advisory `json:"advisory,omitempty"`
}
