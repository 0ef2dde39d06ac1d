package decision

import (
	"fmt"

	"options-lab/internal/analysis"
	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// RSI/PCR confluence thresholds for directional signals.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
	pcrGreedy     = 0.7
	pcrFearful    = 1.3
)

// SignalEngine derives directional signals from RSI and put/call
// positioning confluence.
type SignalEngine struct{}

// NewSignalEngine returns a signal engine.
func NewSignalEngine() *SignalEngine {
	return &SignalEngine{}
}

// Generate produces a directional signal when RSI extremes and PCR
// extremes agree; anything less is NO_SIGNAL.
func (s *SignalEngine) Generate(closes []float64, pcr float64) (models.DirectionalSignal, error) {
	rsi, err := analysis.RSI(closes, analysis.DefaultRSIPeriod)
	if err != nil {
		return models.DirectionalSignal{}, errors.Wrap(err, "directional signal")
	}

	sig := models.DirectionalSignal{
		Signal: models.SignalNone,
		RSI:    rsi,
		PCR:    pcr,
	}

	switch {
	case rsi < rsiOversold && pcr < pcrGreedy:
		sig.Signal = models.SignalCallBuy
		sig.Confidence = confluenceConfidence(rsiOversold-rsi, pcrGreedy-pcr)
		sig.Reasons = append(sig.Reasons,
			fmt.Sprintf("RSI %.1f oversold", rsi),
			fmt.Sprintf("PCR %.2f shows call-heavy positioning", pcr))
	case rsi > rsiOverbought && pcr > pcrFearful:
		sig.Signal = models.SignalPutBuy
		sig.Confidence = confluenceConfidence(rsi-rsiOverbought, pcr-pcrFearful)
		sig.Reasons = append(sig.Reasons,
			fmt.Sprintf("RSI %.1f overbought", rsi),
			fmt.Sprintf("PCR %.2f shows put-heavy positioning", pcr))
	default:
		sig.Reasons = append(sig.Reasons, fmt.Sprintf("no RSI/PCR confluence (RSI %.1f, PCR %.2f)", rsi, pcr))
	}
	return sig, nil
}

// confluenceConfidence maps how deep both indicators are into their
// extreme zones onto [50, 95].
func confluenceConfidence(rsiDepth, pcrDepth float64) float64 {
	conf := 50 + rsiDepth*1.5 + pcrDepth*25
	return clamp(conf, 50, 95)
}

// ValidateWithSignal checks a strategy category against the directional
// signal. Directional strategies need a matching signal; neutral
// strategies tolerate any signal at reduced confidence.
func (e *Engine) ValidateWithSignal(category models.StrategyCategory, sig models.DirectionalSignal, volEdgeScore, riskOfRuin float64) models.SignalValidation {
	v := models.SignalValidation{
		Signal:           sig.Signal,
		SignalConfidence: sig.Confidence,
	}

	if category.Directional() {
		want := models.SignalCallBuy
		if category == models.CategoryLongPut {
			want = models.SignalPutBuy
		}
		if sig.Signal != want {
			v.Allowed = false
			v.Reasons = append(v.Reasons, fmt.Sprintf("%s requires a %s signal, got %s", category, want, sig.Signal))
			return v
		}
		v.Allowed = true
		v.Confidence = int(sig.Confidence)
		v.Reasons = append(v.Reasons, fmt.Sprintf("%s signal confirms %s", sig.Signal, category))
	} else {
		v.Allowed = true
		if sig.Signal == models.SignalNone {
			v.Confidence = 70
			v.Reasons = append(v.Reasons, "no directional signal, clean setup for a neutral strategy")
		} else {
			v.Confidence = int(minFloat(50, sig.Confidence))
			v.Warnings = append(v.Warnings, fmt.Sprintf("directional %s signal active against a neutral strategy", sig.Signal))
		}
	}

	switch {
	case volEdgeScore > 0.15:
		v.Confidence += 10
		if v.Confidence > 100 {
			v.Confidence = 100
		}
		v.Reasons = append(v.Reasons, "rich implied volatility supports the trade")
	case volEdgeScore < -0.15:
		v.Confidence -= 5
		if v.Confidence < 0 {
			v.Confidence = 0
		}
		v.Warnings = append(v.Warnings, "implied volatility is cheap relative to realized")
	}

	if riskOfRuin > e.thresholds.MaxRiskOfRuin {
		v.Allowed = false
		v.Reasons = append(v.Reasons, fmt.Sprintf("risk of ruin %s exceeds ceiling %s", pct(riskOfRuin), pct(e.thresholds.MaxRiskOfRuin)))
	} else if riskOfRuin > 0.10 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("elevated risk of ruin %s", pct(riskOfRuin)))
	}

	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
