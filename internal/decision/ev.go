package decision

import (
	"math"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// expectedMoveFraction scales the one-sigma expected move: 5% of spot per
// 30 calendar days, square-root scaled.
const expectedMoveFraction = 0.05

// ExpectedValue estimates the probability-weighted outcome of a strategy
// from its payoff envelope and breakevens. A zero max loss cannot be
// priced and yields an explicit error result instead of a silent zero.
func ExpectedValue(m models.StrategyMetrics, spot float64, daysToExpiry int) models.EVMetrics {
	maxProfit := m.MaxProfit.Value
	if m.MaxProfit.Unlimited {
		// cap unbounded upside at two expected moves for pricing
		maxProfit = spot * expectedMoveFraction * math.Sqrt(math.Max(float64(daysToExpiry), 1)/30) * 2
	}
	maxLoss := math.Abs(m.MaxLoss.Value)
	if m.MaxLoss.Unlimited {
		maxLoss = spot * expectedMoveFraction * math.Sqrt(math.Max(float64(daysToExpiry), 1)/30) * 2
	}
	if maxLoss == 0 {
		return models.EVMetrics{
			Err: errors.NewNumericError("max_loss", "zero max loss, expected value undefined").Error(),
		}
	}

	p := profitProbability(m.Breakevens, spot, daysToExpiry)
	p = clamp(p, 0.01, 0.99)

	ev := p*maxProfit - (1-p)*maxLoss
	rr := maxProfit / maxLoss

	return models.EVMetrics{
		ExpectedValue:       math.Round(ev*100) / 100,
		PositiveProbability: math.Round(p*10000) / 10000,
		RiskReward:          math.Round(rr*100) / 100,
		MaxProfit:           maxProfit,
		MaxLoss:             maxLoss,
		Interpretation:      interpretEV(ev),
	}
}

// profitProbability approximates P(profit) from the breakeven structure
// under a normal move model sized by time to expiry.
func profitProbability(breakevens []float64, spot float64, daysToExpiry int) float64 {
	sigma := spot * expectedMoveFraction * math.Sqrt(math.Max(float64(daysToExpiry), 1)/30)
	if sigma <= 0 {
		return 0.5
	}

	switch len(breakevens) {
	case 2:
		// profit zone between the breakevens (credit structures)
		zLower := (breakevens[0] - spot) / sigma
		zUpper := (breakevens[1] - spot) / sigma
		return normCDF(zUpper) - normCDF(zLower)
	case 1:
		be := breakevens[0]
		z := (be - spot) / sigma
		if be >= spot {
			// needs a move up through the breakeven
			return 1 - normCDF(z)
		}
		return normCDF(z)
	default:
		return 0.5
	}
}

func interpretEV(ev float64) string {
	switch {
	case ev > 0:
		return "Positive expected value"
	default:
		return "Negative expected value"
	}
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
