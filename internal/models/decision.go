package models

import "time"

// VolEdge is the result of comparing ATM implied volatility against
// realized volatility. Score is clipped to [-1, +1]; positive favors
// premium selling, negative favors premium buying.
type VolEdge struct {
	Score          float64
	Interpretation string
	ATMIV          float64
	RealizedVol    float64
	ATMStrike      float64
	RawEdge        float64
	Warning        string
	Err            string
}

// EVMetrics is the expected-value picture of a strategy.
type EVMetrics struct {
	ExpectedValue       float64
	PositiveProbability float64
	RiskReward          float64
	MaxProfit           float64
	MaxLoss             float64
	Interpretation      string
	Err                 string
}

// TradeScore is the composite 0-100 trade quality score.
type TradeScore struct {
	Score      int
	Confidence string // High, Medium, Low
	Components ScoreComponents
}

// ScoreComponents breaks the composite score into its weighted parts.
type ScoreComponents struct {
	VolEdge    float64
	Regime     float64
	RiskReward float64
	OISupport  float64
	Liquidity  float64
}

// Decision is the final structured trade decision.
type Decision struct {
	ID           string
	Timestamp    time.Time
	StrategyName string
	TradeAllowed bool
	Confidence   int
	RiskFlags    []string
	Reasoning    []string
	Summary      string
}

// MarketMetrics carries chain-level context into scoring.
type MarketMetrics struct {
	PCR     float64
	TotalOI int64
}

// LiquidityMetrics is an optional externally supplied liquidity score.
type LiquidityMetrics struct {
	Score float64
}

// SignalType is a directional signal classification.
type SignalType string

const (
	SignalCallBuy SignalType = "CALL_BUY"
	SignalPutBuy  SignalType = "PUT_BUY"
	SignalNone    SignalType = "NO_SIGNAL"
)

// DirectionalSignal is the output of the directional signal engine.
type DirectionalSignal struct {
	Signal     SignalType
	Confidence float64
	RSI        float64
	PCR        float64
	Reasons    []string
}

// StrategyCategory classifies the intended strategy for signal validation.
type StrategyCategory string

const (
	CategoryLongCall   StrategyCategory = "LONG_CALL"
	CategoryLongPut    StrategyCategory = "LONG_PUT"
	CategoryIronCondor StrategyCategory = "IRON_CONDOR"
	CategoryStrangle   StrategyCategory = "STRANGLE"
	CategoryButterfly  StrategyCategory = "BUTTERFLY"
)

// Directional reports whether the category needs a matching signal.
func (c StrategyCategory) Directional() bool {
	return c == CategoryLongCall || c == CategoryLongPut
}

// SignalValidation is the result of checking a strategy against a
// directional signal.
type SignalValidation struct {
	Allowed          bool
	Confidence       int
	Reasons          []string
	Warnings         []string
	Signal           SignalType
	SignalConfidence float64
}

// Regime is a quick market-regime classification from PCR.
type Regime struct {
	Regime       string
	Bias         string
	StrategyHint string
	PCR          float64
}
