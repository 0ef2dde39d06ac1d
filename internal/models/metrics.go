package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Payout is a max-profit or max-loss figure that may be unbounded.
// The zero value is a finite zero payout.
type Payout struct {
	Value     float64
	Unlimited bool
}

// FinitePayout returns a bounded payout.
func FinitePayout(v float64) Payout {
	return Payout{Value: v}
}

// UnlimitedPayout returns an unbounded payout.
func UnlimitedPayout() Payout {
	return Payout{Unlimited: true}
}

func (p Payout) String() string {
	if p.Unlimited {
		return "Unlimited"
	}
	return strconv.FormatFloat(p.Value, 'f', 2, 64)
}

// MarshalJSON renders "Unlimited" for unbounded payouts, a number otherwise.
func (p Payout) MarshalJSON() ([]byte, error) {
	if p.Unlimited {
		return json.Marshal("Unlimited")
	}
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return json.Marshal(0.0)
	}
	return json.Marshal(math.Round(p.Value*100) / 100)
}

// StrategyKind classifies a strategy by net premium sign.
type StrategyKind string

const (
	CreditStrategy StrategyKind = "CREDIT"
	DebitStrategy  StrategyKind = "DEBIT"
)

// StrategyMetrics is the full derived risk picture for a strategy.
// Recomputed on demand, never cached on the strategy itself.
type StrategyMetrics struct {
	MaxProfit       Payout
	MaxLoss         Payout
	Breakevens      []float64
	NetCredit       float64
	NetDebit        float64
	NetPremium      float64
	POP             float64
	RiskReward      float64
	NetGreeks       Greeks
	EstimatedMargin float64
	Kind            StrategyKind
	Warnings        []string
}
