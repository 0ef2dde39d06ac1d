package decision

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"options-lab/internal/models"
)

// Thresholds are the configurable gates a setup must clear.
type Thresholds struct {
	VolEdgeThreshold float64
	MinTradeScore    int
	MinRiskReward    float64
	MaxRiskOfRuin    float64
}

// DefaultThresholds returns the standard decision gates.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VolEdgeThreshold: 0.15,
		MinTradeScore:    60,
		MinRiskReward:    1.5,
		MaxRiskOfRuin:    0.20,
	}
}

// Engine turns scored setups into final allow/reject decisions.
type Engine struct {
	thresholds Thresholds
	log        zerolog.Logger
	now        func() time.Time
}

// NewEngine creates a decision engine with the given gates.
func NewEngine(thresholds Thresholds, log zerolog.Logger) *Engine {
	return &Engine{thresholds: thresholds, log: log, now: time.Now}
}

// Input is everything a decision is made from.
type Input struct {
	StrategyName string
	VolEdge      models.VolEdge
	EV           models.EVMetrics
	Score        models.TradeScore
	RiskOfRuin   float64
}

// Decide applies the decision gates. A negative expected value, a score
// below the minimum, or a risk of ruin above the ceiling each reject the
// trade outright; softer concerns accumulate as flags and three or more
// flags also reject.
func (e *Engine) Decide(in Input) models.Decision {
	var flags, reasoning []string
	allowed := true

	if in.EV.Err != "" {
		flags = append(flags, "expected value unavailable: "+in.EV.Err)
		allowed = false
	} else if in.EV.ExpectedValue <= 0 {
		flags = append(flags, fmt.Sprintf("negative expected value (%.2f)", in.EV.ExpectedValue))
		reasoning = append(reasoning, "Expected value is not positive, the setup loses money on average.")
		allowed = false
	} else {
		reasoning = append(reasoning, fmt.Sprintf("Expected value %.2f with %s win probability.", in.EV.ExpectedValue, pct(in.EV.PositiveProbability)))
	}

	edgeMag := in.VolEdge.Score
	if edgeMag < 0 {
		edgeMag = -edgeMag
	}
	if edgeMag <= e.thresholds.VolEdgeThreshold {
		flags = append(flags, fmt.Sprintf("volatility edge %.2f below threshold %.2f", in.VolEdge.Score, e.thresholds.VolEdgeThreshold))
	} else {
		reasoning = append(reasoning, in.VolEdge.Interpretation+".")
	}

	if in.EV.Err == "" && in.EV.RiskReward < e.thresholds.MinRiskReward {
		flags = append(flags, fmt.Sprintf("risk/reward %.2f below minimum %.2f", in.EV.RiskReward, e.thresholds.MinRiskReward))
	}

	if in.Score.Score < e.thresholds.MinTradeScore {
		flags = append(flags, fmt.Sprintf("trade score %d below minimum %d", in.Score.Score, e.thresholds.MinTradeScore))
		allowed = false
	} else {
		reasoning = append(reasoning, fmt.Sprintf("Composite score %d (%s confidence).", in.Score.Score, in.Score.Confidence))
	}

	if in.RiskOfRuin > e.thresholds.MaxRiskOfRuin {
		flags = append(flags, fmt.Sprintf("risk of ruin %s exceeds ceiling %s", pct(in.RiskOfRuin), pct(e.thresholds.MaxRiskOfRuin)))
		allowed = false
	}

	if len(flags) >= 3 {
		allowed = false
	}

	d := models.Decision{
		ID:           uuid.NewString(),
		Timestamp:    e.now(),
		StrategyName: in.StrategyName,
		TradeAllowed: allowed,
		Confidence:   in.Score.Score,
		RiskFlags:    flags,
		Reasoning:    reasoning,
	}
	d.Summary = summarize(d)

	e.log.Info().
		Str("decision_id", d.ID).
		Str("strategy", d.StrategyName).
		Bool("allowed", d.TradeAllowed).
		Int("score", in.Score.Score).
		Int("flags", len(flags)).
		Msg("decision generated")

	return d
}

func summarize(d models.Decision) string {
	verdict := "REJECT"
	if d.TradeAllowed {
		verdict = "ALLOW"
	}
	return fmt.Sprintf("%s %s (confidence %d, %d risk flags)", verdict, d.StrategyName, d.Confidence, len(d.RiskFlags))
}
