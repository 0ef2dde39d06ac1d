// Package greeks computes Black-Scholes option price sensitivities.
package greeks

import (
	"math"

	"options-lab/internal/models"
)

// DefaultRiskFreeRate is the annual risk-free rate used throughout
// (RBI repo-adjacent, 6.5%).
const DefaultRiskFreeRate = 0.065

// MinVolatility is the floor applied to non-positive volatility inputs.
const MinVolatility = 0.01

// Engine calculates Black-Scholes Greeks for a fixed risk-free rate.
type Engine struct {
	riskFreeRate float64
}

// NewEngine creates a Greeks engine with the default risk-free rate.
func NewEngine() *Engine {
	return &Engine{riskFreeRate: DefaultRiskFreeRate}
}

// NewEngineWithRate creates a Greeks engine with a custom risk-free rate.
func NewEngineWithRate(rate float64) *Engine {
	return &Engine{riskFreeRate: rate}
}

// Calculate returns all Greeks for a single option.
// timeToExpiry is in years; volatility is an annualized decimal and is
// floored at MinVolatility when non-positive. At timeToExpiry <= 0 the
// discrete expiry Greeks are returned, avoiding any division by zero.
func (e *Engine) Calculate(spot, strike, timeToExpiry, volatility float64, optType models.OptionType) models.Greeks {
	if timeToExpiry <= 0 {
		return expiryGreeks(spot, strike, optType)
	}
	if volatility <= 0 {
		volatility = MinVolatility
	}

	sqrtT := math.Sqrt(timeToExpiry)
	d1 := (math.Log(spot/strike) + (e.riskFreeRate+0.5*volatility*volatility)*timeToExpiry) / (volatility * sqrtT)
	d2 := d1 - volatility*sqrtT

	var delta float64
	if optType == models.Call {
		delta = normCDF(d1)
	} else {
		delta = normCDF(d1) - 1
	}

	gamma := normPDF(d1) / (spot * volatility * sqrtT)

	discount := math.Exp(-e.riskFreeRate * timeToExpiry)
	term1 := -(spot * normPDF(d1) * volatility) / (2 * sqrtT)
	var term2 float64
	if optType == models.Call {
		term2 = -e.riskFreeRate * strike * discount * normCDF(d2)
	} else {
		term2 = e.riskFreeRate * strike * discount * normCDF(-d2)
	}
	theta := (term1 + term2) / 365

	vega := spot * normPDF(d1) * sqrtT / 100

	var rho float64
	if optType == models.Call {
		rho = strike * timeToExpiry * discount * normCDF(d2) / 100
	} else {
		rho = -strike * timeToExpiry * discount * normCDF(-d2) / 100
	}

	return models.Greeks{
		Delta: delta,
		Gamma: gamma,
		Theta: theta,
		Vega:  vega,
		Rho:   rho,
	}
}

// CalculateLeg returns the Greeks of a single leg at the given spot.
func (e *Engine) CalculateLeg(leg models.OptionLeg, spot, timeToExpiry, volatility float64) models.Greeks {
	return e.Calculate(spot, leg.Strike, timeToExpiry, volatility, leg.Type)
}

// Aggregate sums leg Greeks across a position. Each leg contributes its
// Greeks scaled by signed quantity (negative for SELL) times lot size.
func (e *Engine) Aggregate(legs []models.OptionLeg, spot, timeToExpiry, volatility float64, lotSize int) models.Greeks {
	var net models.Greeks
	for _, leg := range legs {
		g := e.CalculateLeg(leg, spot, timeToExpiry, volatility)
		net.Add(g, float64(leg.SignedQuantity()*lotSize))
	}
	return net
}

// expiryGreeks returns the discrete Greeks at expiry: Delta collapses to
// 1/0 for calls (-1/0 for puts) by moneyness, everything else is zero.
func expiryGreeks(spot, strike float64, optType models.OptionType) models.Greeks {
	var delta float64
	if optType == models.Call {
		if spot > strike {
			delta = 1
		}
	} else {
		if spot < strike {
			delta = -1
		}
	}
	return models.Greeks{Delta: delta}
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
