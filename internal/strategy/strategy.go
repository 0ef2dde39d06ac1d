// Package strategy models multi-leg option strategies and their risk metrics.
package strategy

import (
	"math"
	"sort"
	"time"

	"options-lab/internal/errors"
	"options-lab/internal/greeks"
	"options-lab/internal/models"
)

const (
	// payoffSamples is the grid density used for breakeven and max P&L
	// scans over [0.5*spot, 1.5*spot].
	payoffSamples = 2000

	// unlimitedSlopeFraction: payoff growth at the sampled edge exceeding
	// this fraction of spot marks the side as unbounded.
	unlimitedSlopeFraction = 0.10

	// nakedMarginFraction approximates SPAN margin for an uncovered short
	// as a fraction of underlying value.
	nakedMarginFraction = 0.20
)

// Strategy is a named multi-leg option position on a single underlying.
type Strategy struct {
	Name      string
	SpotPrice float64
	LotSize   int
	Legs      []models.OptionLeg

	engine *greeks.Engine
}

// New creates a strategy. Spot and lot size are validated up front; legs
// are validated individually on construction via models.NewOptionLeg.
func New(name string, spotPrice float64, lotSize int) (*Strategy, error) {
	if spotPrice <= 0 {
		return nil, errors.NewValidationError("spot_price", spotPrice, "must be positive")
	}
	if lotSize <= 0 {
		return nil, errors.NewValidationError("lot_size", lotSize, "must be positive")
	}
	return &Strategy{
		Name:      name,
		SpotPrice: spotPrice,
		LotSize:   lotSize,
		engine:    greeks.NewEngine(),
	}, nil
}

// AddLeg appends a validated leg.
func (s *Strategy) AddLeg(leg models.OptionLeg) {
	s.Legs = append(s.Legs, leg)
}

// RemoveLeg removes the leg at index; out-of-range indexes are ignored.
func (s *Strategy) RemoveLeg(index int) {
	if index < 0 || index >= len(s.Legs) {
		return
	}
	s.Legs = append(s.Legs[:index], s.Legs[index+1:]...)
}

// NetPremium returns (totalDebit, totalCredit, net). Positive net means
// credit received, negative means debit paid.
func (s *Strategy) NetPremium() (debit, credit, net float64) {
	for _, leg := range s.Legs {
		premium := leg.EntryPrice * float64(leg.Quantity*s.LotSize)
		if leg.Position == models.Buy {
			debit += premium
		} else {
			credit += premium
		}
	}
	return debit, credit, credit - debit
}

// PayoffAt returns the strategy P&L at expiry for a single spot price.
func (s *Strategy) PayoffAt(spot float64) float64 {
	var total float64
	for _, leg := range s.Legs {
		intrinsic := leg.Intrinsic(spot)
		var legPnL float64
		if leg.Position == models.Buy {
			legPnL = intrinsic - leg.EntryPrice
		} else {
			legPnL = leg.EntryPrice - intrinsic
		}
		total += legPnL * float64(leg.Quantity*s.LotSize)
	}
	return total
}

// PayoffAtExpiry evaluates the expiry P&L over a slice of spot prices.
func (s *Strategy) PayoffAtExpiry(spots []float64) []float64 {
	payoff := make([]float64, len(spots))
	for i, spot := range spots {
		payoff[i] = s.PayoffAt(spot)
	}
	return payoff
}

// sampleRange returns n evenly spaced spots over [0.5, 1.5] x spot.
func (s *Strategy) sampleRange(n int) []float64 {
	lo := s.SpotPrice * 0.5
	hi := s.SpotPrice * 1.5
	spots := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range spots {
		spots[i] = lo + float64(i)*step
	}
	return spots
}

// Breakevens locates the spot prices where the expiry payoff crosses zero.
// Sign changes on a dense sample grid are refined with a bracketed root
// finder; if a bracket fails to converge the crossing falls back to linear
// interpolation between the bracketing samples. The result is sorted and
// deduplicated.
func (s *Strategy) Breakevens() []float64 {
	if len(s.Legs) == 0 {
		return nil
	}
	spots := s.sampleRange(payoffSamples)
	payoff := s.PayoffAtExpiry(spots)

	var breakevens []float64
	for i := 0; i < len(payoff)-1; i++ {
		if sign(payoff[i]) == sign(payoff[i+1]) {
			continue
		}
		be, ok := brentq(s.PayoffAt, spots[i], spots[i+1])
		if !ok {
			be = interpolateZero(spots[i], spots[i+1], payoff[i], payoff[i+1])
		}
		breakevens = append(breakevens, math.Round(be*100)/100)
	}

	sort.Float64s(breakevens)
	return dedupe(breakevens)
}

// MaxProfitLoss scans the sampled payoff for extremes and classifies each
// side as unlimited when the payoff keeps growing at the edge of the range.
// The sampled-slope heuristic is cross-checked against the leg composition:
// an uncovered long call forces unlimited profit, an uncovered short call
// forces unlimited loss, regardless of sampling density.
func (s *Strategy) MaxProfitLoss() (maxProfit, maxLoss models.Payout) {
	if len(s.Legs) == 0 {
		return models.FinitePayout(0), models.FinitePayout(0)
	}
	spots := s.sampleRange(payoffSamples)
	payoff := s.PayoffAtExpiry(spots)

	hi, lo := payoff[0], payoff[0]
	for _, p := range payoff[1:] {
		if p > hi {
			hi = p
		}
		if p < lo {
			lo = p
		}
	}
	maxProfit = models.FinitePayout(math.Round(hi*100) / 100)
	maxLoss = models.FinitePayout(math.Round(lo*100) / 100)

	n := len(payoff)
	inward := 100
	threshold := s.SpotPrice * unlimitedSlopeFraction

	upperGrowing := payoff[n-1] > payoff[n-1-inward] && payoff[n-1]-payoff[n-1-inward] > threshold
	lowerGrowing := payoff[0] < payoff[inward] && math.Abs(payoff[0]-payoff[inward]) > threshold

	profitUnlimited, lossUnlimited := s.unboundedSides()

	if upperGrowing || lowerGrowing || profitUnlimited || lossUnlimited {
		// Beyond the upper edge only call exposure matters; below the
		// lower edge only put exposure. Attribute each growing side.
		if upperGrowing && payoff[n-1] > 0 || profitUnlimited {
			maxProfit = models.UnlimitedPayout()
		}
		if lowerGrowing && payoff[0] < 0 || lossUnlimited {
			maxLoss = models.UnlimitedPayout()
		}
	}
	return maxProfit, maxLoss
}

// unboundedSides infers unbounded payoff sides from net call exposure:
// net long calls gain without bound above, net short calls lose without
// bound above. Put exposure is bounded by the zero floor and left to the
// sampled heuristic.
func (s *Strategy) unboundedSides() (profitUnlimited, lossUnlimited bool) {
	var netCalls int
	for _, leg := range s.Legs {
		if leg.Type == models.Call {
			netCalls += leg.SignedQuantity()
		}
	}
	return netCalls > 0, netCalls < 0
}

// POP estimates the probability of profit at expiry under a lognormal
// terminal-price model with zero drift beyond the variance correction.
// At dte 0 it collapses to whether the current intrinsic P&L is positive.
func (s *Strategy) POP(iv float64, dte int) float64 {
	if dte <= 0 {
		if s.PayoffAt(s.SpotPrice) > 0 {
			return 1.0
		}
		return 0.0
	}
	if iv <= 0 {
		iv = greeks.MinVolatility
	}

	t := float64(dte) / 365
	stdDev := s.SpotPrice * iv * math.Sqrt(t)

	lo := s.SpotPrice - 4*stdDev
	hi := s.SpotPrice + 4*stdDev
	if lo <= 0 {
		lo = s.SpotPrice * 0.01
	}

	const n = 1000
	mu := math.Log(s.SpotPrice) - 0.5*iv*iv*t
	sigma := iv * math.Sqrt(t)

	step := (hi - lo) / float64(n-1)
	density := make([]float64, n)
	var total float64
	for i := 0; i < n; i++ {
		spot := lo + float64(i)*step
		z := (math.Log(spot) - mu) / sigma
		density[i] = math.Exp(-0.5*z*z) / (math.Sqrt(2*math.Pi) * sigma * spot)
		total += density[i]
	}
	if total == 0 {
		return 0
	}

	var pop float64
	for i := 0; i < n; i++ {
		spot := lo + float64(i)*step
		if s.PayoffAt(spot) > 0 {
			pop += density[i] / total
		}
	}
	return math.Round(pop*10000) / 10000
}

// EstimateMargin approximates the margin requirement. Defined-risk
// structures require |max loss|; otherwise each uncovered short leg adds
// a naked-margin approximation of 20% of underlying value.
func (s *Strategy) EstimateMargin() float64 {
	_, maxLoss := s.MaxProfitLoss()
	if !maxLoss.Unlimited && maxLoss.Value < 0 {
		return math.Round(math.Abs(maxLoss.Value)*100) / 100
	}

	var margin float64
	for _, leg := range s.Legs {
		if leg.Position == models.Sell {
			margin += s.SpotPrice * nakedMarginFraction * float64(leg.Quantity*s.LotSize)
		}
	}
	return math.Round(margin*100) / 100
}

// AggregateGreeks sums per-leg Black-Scholes Greeks at the current spot,
// scaled by signed quantity and lot size.
func (s *Strategy) AggregateGreeks(iv float64, dte int) models.Greeks {
	t := math.Max(float64(dte)/365, 0.001)
	return s.engine.Aggregate(s.Legs, s.SpotPrice, t, iv, s.LotSize)
}

// MarkToMarket estimates the current P&L of the position by repricing each
// leg as intrinsic value plus a vega-based time value approximation.
func (s *Strategy) MarkToMarket(spot, iv float64, dte int) float64 {
	t := math.Max(float64(dte)/365, 0.001)
	var pnl float64
	for _, leg := range s.Legs {
		g := s.engine.CalculateLeg(leg, spot, t, iv)
		current := leg.Intrinsic(spot) + g.Vega*iv*100
		var legPnL float64
		if leg.Position == models.Buy {
			legPnL = current - leg.EntryPrice
		} else {
			legPnL = leg.EntryPrice - current
		}
		pnl += legPnL * float64(leg.Quantity*s.LotSize)
	}
	return pnl
}

// Metrics computes the full derived risk picture in one call.
func (s *Strategy) Metrics(iv float64, dte int) models.StrategyMetrics {
	var warnings []string
	if len(s.Legs) == 0 {
		warnings = append(warnings, errors.ErrNoLegs.Error())
	}

	maxProfit, maxLoss := s.MaxProfitLoss()
	breakevens := s.Breakevens()
	debit, credit, net := s.NetPremium()
	pop := s.POP(iv, dte)
	netGreeks := s.AggregateGreeks(iv, dte)
	margin := s.EstimateMargin()

	riskReward := 0.0
	switch {
	case maxProfit.Unlimited || maxLoss.Unlimited:
		// Unbounded on either side: ratio is not meaningful, reported as 0
		// with a warning rather than Inf.
		warnings = append(warnings, "risk/reward undefined for unbounded payoff")
	case maxLoss.Value == 0:
		warnings = append(warnings, errors.NewNumericError("max_loss", "zero max loss, risk/reward undefined").Error())
	default:
		riskReward = math.Round(math.Abs(maxProfit.Value/maxLoss.Value)*100) / 100
	}

	kind := models.DebitStrategy
	if net > 0 {
		kind = models.CreditStrategy
	}

	return models.StrategyMetrics{
		MaxProfit:       maxProfit,
		MaxLoss:         maxLoss,
		Breakevens:      breakevens,
		NetCredit:       credit,
		NetDebit:        debit,
		NetPremium:      net,
		POP:             pop,
		RiskReward:      riskReward,
		NetGreeks:       netGreeks,
		EstimatedMargin: margin,
		Kind:            kind,
		Warnings:        warnings,
	}
}

// DTE returns the calendar days until the earliest leg expiry, floored at 0.
func (s *Strategy) DTE(now time.Time) int {
	if len(s.Legs) == 0 {
		return 0
	}
	earliest := s.Legs[0].Expiry
	for _, leg := range s.Legs[1:] {
		if leg.Expiry.Before(earliest) {
			earliest = leg.Expiry
		}
	}
	days := int(earliest.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// interpolateZero returns the linear zero crossing between (x1,y1), (x2,y2).
func interpolateZero(x1, x2, y1, y2 float64) float64 {
	if y2 == y1 {
		return (x1 + x2) / 2
	}
	return x1 - y1*(x2-x1)/(y2-y1)
}

func dedupe(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
