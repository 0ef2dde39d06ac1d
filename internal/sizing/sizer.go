// Package sizing implements Kelly-based and fixed-fraction position sizing.
package sizing

import (
	"fmt"
	"math"

	"options-lab/internal/models"
)

const (
	// DefaultSafetyFactor scales full Kelly down to the tradable fraction.
	DefaultSafetyFactor = 0.25

	// MaxRiskPerTrade caps any sizing method at 10% of account equity.
	MaxRiskPerTrade = 0.10

	// BaselineVolatility anchors the volatility-adjusted method, in
	// annualized percent terms.
	BaselineVolatility = 15.0

	fullConfidenceTrades = 100
	lowSampleTrades      = 50
)

// Sizer computes position sizes against a fixed account.
type Sizer struct {
	accountSize  float64
	maxRisk      float64
	lotSize      int
	safetyFactor float64
}

// New creates a sizer with the default Kelly safety factor. maxRisk is the
// per-trade risk cap as a fraction of the account; values outside
// (0, MaxRiskPerTrade] fall back to the cap.
func New(accountSize float64, maxRisk float64, lotSize int) *Sizer {
	return NewWithSafetyFactor(accountSize, maxRisk, lotSize, DefaultSafetyFactor)
}

// NewWithSafetyFactor creates a sizer with an explicit Kelly safety factor.
// Factors outside (0, 1] fall back to the default.
func NewWithSafetyFactor(accountSize float64, maxRisk float64, lotSize int, safetyFactor float64) *Sizer {
	if maxRisk <= 0 || maxRisk > MaxRiskPerTrade {
		maxRisk = MaxRiskPerTrade
	}
	if lotSize <= 0 {
		lotSize = 1
	}
	if safetyFactor <= 0 || safetyFactor > 1 {
		safetyFactor = DefaultSafetyFactor
	}
	return &Sizer{accountSize: accountSize, maxRisk: maxRisk, lotSize: lotSize, safetyFactor: safetyFactor}
}

// AccountSize returns the account equity the sizer was built with.
func (s *Sizer) AccountSize() float64 { return s.accountSize }

// KellyFraction computes the Kelly-optimal fraction scaled by an
// uncertainty discount and the safety factor. Win rates are clamped to
// [0.01, 0.99] and negative-edge inputs size to zero.
func (s *Sizer) KellyFraction(winRate, avgRiskReward float64, numTrades int) models.KellyResult {
	var warnings []string

	p := clamp(winRate, 0.01, 0.99)
	b := avgRiskReward
	if b <= 0 {
		return models.KellyResult{Warnings: []string{"risk/reward must be positive, sizing to zero"}}
	}

	fullKelly := (p*b - (1 - p)) / b
	if fullKelly < 0 {
		fullKelly = 0
		warnings = append(warnings, "negative expectancy, Kelly sizes to zero")
	}

	uncertainty := math.Min(1.0, float64(numTrades)/fullConfidenceTrades)
	if numTrades < lowSampleTrades {
		uncertainty = float64(numTrades) / (2 * fullConfidenceTrades)
		warnings = append(warnings, fmt.Sprintf("only %d trades of history, halving size for estimation error", numTrades))
	}

	safeKelly := fullKelly * s.safetyFactor
	final := safeKelly * uncertainty
	if final > s.maxRisk {
		final = s.maxRisk
		warnings = append(warnings, fmt.Sprintf("Kelly fraction capped at %.1f%% risk limit", s.maxRisk*100))
	}

	return models.KellyResult{
		RecommendedFraction: final,
		CapitalAtRisk:       math.Round(s.accountSize*final*100) / 100,
		UncertaintyFactor:   uncertainty,
		FullKelly:           fullKelly,
		SafeKelly:           safeKelly,
		Warnings:            warnings,
	}
}

// FixedFraction risks a flat percentage of the account, capped at maxRisk.
func (s *Sizer) FixedFraction(riskPct float64) models.KellyResult {
	frac := math.Min(riskPct/100, s.maxRisk)
	if frac < 0 {
		frac = 0
	}
	return models.KellyResult{
		RecommendedFraction: frac,
		CapitalAtRisk:       math.Round(s.accountSize*frac*100) / 100,
		UncertaintyFactor:   1,
		FullKelly:           frac,
		SafeKelly:           frac,
	}
}

// VolatilityAdjusted scales a base fraction by the ratio of baseline to
// current volatility, clamped to [0.5, 1.5]. Elevated vol shrinks size.
func (s *Sizer) VolatilityAdjusted(baseRiskPct, currentVol float64) models.KellyResult {
	if currentVol <= 0 {
		currentVol = BaselineVolatility
	}
	ratio := clamp(BaselineVolatility/currentVol, 0.5, 1.5)
	frac := math.Min(baseRiskPct/100*ratio, s.maxRisk)
	if frac < 0 {
		frac = 0
	}
	return models.KellyResult{
		RecommendedFraction: frac,
		CapitalAtRisk:       math.Round(s.accountSize*frac*100) / 100,
		UncertaintyFactor:   ratio,
		FullKelly:           frac,
		SafeKelly:           frac,
	}
}

// CalculatePositionSize turns a risk fraction into whole lots against the
// per-lot max loss of a strategy. A zero max loss cannot be sized and
// returns a zero result with a warning.
func (s *Sizer) CalculatePositionSize(kelly models.KellyResult, maxLossPerLot float64) models.PositionSize {
	maxLossPerLot = math.Abs(maxLossPerLot)
	if maxLossPerLot == 0 {
		return models.PositionSize{
			Method:   "kelly",
			Warnings: []string{"max loss per lot is zero, cannot size position"},
			Kelly:    &kelly,
		}
	}

	warnings := append([]string(nil), kelly.Warnings...)

	capitalToRisk := s.accountSize * kelly.RecommendedFraction
	lots := int(capitalToRisk / maxLossPerLot)
	if lots < 1 {
		lots = 1
	}

	actualRisk := float64(lots) * maxLossPerLot
	if actualRisk/s.accountSize > s.maxRisk {
		lots = int(s.maxRisk * s.accountSize / maxLossPerLot)
		if lots < 1 {
			lots = 1
			warnings = append(warnings, "single lot already exceeds the risk cap")
		}
		actualRisk = float64(lots) * maxLossPerLot
	}
	if lots > 10 {
		warnings = append(warnings, fmt.Sprintf("%d lots is a concentrated position, consider scaling in", lots))
	}

	return models.PositionSize{
		RecommendedSize: float64(lots * s.lotSize),
		CapitalAtRisk:   math.Round(actualRisk*100) / 100,
		NumLots:         lots,
		RiskPct:         math.Round(actualRisk/s.accountSize*10000) / 100,
		Method:          "kelly",
		Warnings:        warnings,
		Kelly:           &kelly,
	}
}

// CompareMethods sizes the same trade with each method side by side.
func (s *Sizer) CompareMethods(winRate, avgRiskReward float64, numTrades int, currentVol, maxLossPerLot float64) map[string]models.PositionSize {
	kelly := s.CalculatePositionSize(s.KellyFraction(winRate, avgRiskReward, numTrades), maxLossPerLot)

	fixed := s.CalculatePositionSize(s.FixedFraction(2.0), maxLossPerLot)
	fixed.Method = "fixed_fraction"

	volAdj := s.CalculatePositionSize(s.VolatilityAdjusted(2.0, currentVol), maxLossPerLot)
	volAdj.Method = "volatility_adjusted"

	return map[string]models.PositionSize{
		"kelly":               kelly,
		"fixed_fraction":      fixed,
		"volatility_adjusted": volAdj,
	}
}

// RiskLadder shows how the Kelly size scales as trade history accumulates.
func (s *Sizer) RiskLadder(winRate, avgRiskReward float64) []models.KellyResult {
	samples := []int{10, 25, 50, 100, 250}
	ladder := make([]models.KellyResult, 0, len(samples))
	for _, n := range samples {
		ladder = append(ladder, s.KellyFraction(winRate, avgRiskReward, n))
	}
	return ladder
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
