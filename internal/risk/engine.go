// Package risk runs Monte Carlo equity simulations and trade assessments.
package risk

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

const (
	// DefaultRuinThreshold marks a path as ruined when equity drops below
	// this fraction of starting capital at any point.
	DefaultRuinThreshold = 0.50

	riskFreeAnnual = 0.065
	tradingDays    = 252
)

// Engine simulates trade sequences under a Bernoulli win/loss model.
type Engine struct {
	ruinThreshold float64
}

// NewEngine returns a simulation engine with the default ruin threshold.
func NewEngine() *Engine {
	return NewEngineWithRuinThreshold(DefaultRuinThreshold)
}

// NewEngineWithRuinThreshold returns an engine that marks paths ruined below
// the given fraction of starting capital. Values outside (0, 1) fall back to
// the default.
func NewEngineWithRuinThreshold(threshold float64) *Engine {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultRuinThreshold
	}
	return &Engine{ruinThreshold: threshold}
}

// sanitize clips parameters into their valid ranges so a bad input degrades
// instead of producing NaN equity curves.
func sanitize(p models.SimulationParams) models.SimulationParams {
	p.WinRate = clamp(p.WinRate, 0.01, 0.99)
	if p.AvgRR < 0.1 {
		p.AvgRR = 0.1
	}
	p.RiskPerTrade = clamp(p.RiskPerTrade, 0.001, 0.10)
	if p.NumSimulations <= 0 {
		p.NumSimulations = 1000
	}
	if p.NumTrades <= 0 {
		p.NumTrades = 200
	}
	if p.StartingCapital <= 0 {
		p.StartingCapital = 100000
	}
	return p
}

// Simulate runs the full Monte Carlo and summarizes the outcome
// distribution. The returned result carries the simulated paths so callers
// can derive further statistics without rerunning.
func (e *Engine) Simulate(params models.SimulationParams) (*models.SimulationResult, error) {
	p := sanitize(params)
	paths := e.generatePaths(p)

	finals := make([]float64, p.NumSimulations)
	var ruined int
	var ddSum float64
	worstDD := 0.0
	var profitable int

	for i := 0; i < p.NumSimulations; i++ {
		row := paths.Row(i)
		finals[i] = row[len(row)-1]

		pathRuined := false
		runMax := row[0]
		pathWorst := 0.0
		for _, eq := range row {
			if eq < p.StartingCapital*e.ruinThreshold {
				pathRuined = true
			}
			if eq > runMax {
				runMax = eq
			}
			dd := (eq - runMax) / runMax * 100
			if dd < pathWorst {
				pathWorst = dd
			}
		}
		if pathRuined {
			ruined++
		}
		ddSum += pathWorst
		if pathWorst < worstDD {
			worstDD = pathWorst
		}
		if finals[i] > p.StartingCapital {
			profitable++
		}
	}

	mean, err := stats.Mean(finals)
	if err != nil {
		return nil, errors.Wrap(err, "final equity mean")
	}
	median, err := stats.Median(finals)
	if err != nil {
		return nil, errors.Wrap(err, "final equity median")
	}
	p5, err := stats.Percentile(finals, 5)
	if err != nil {
		return nil, errors.Wrap(err, "final equity p5")
	}
	p95, err := stats.Percentile(finals, 95)
	if err != nil {
		return nil, errors.Wrap(err, "final equity p95")
	}

	n := float64(p.NumSimulations)
	return &models.SimulationResult{
		Params:              p,
		Paths:               paths,
		ExpectedEquity:      mean,
		MedianEquity:        median,
		Percentile5Equity:   p5,
		Percentile95Equity:  p95,
		RiskOfRuin:          float64(ruined) / n,
		AvgMaxDrawdownPct:   ddSum / n,
		WorstDrawdownPct:    worstDD,
		ProbabilityOfProfit: float64(profitable) / n,
		AvgReturnPct:        (mean - p.StartingCapital) / p.StartingCapital * 100,
	}, nil
}

// generatePaths builds the (sims, trades+1) equity matrix. Column 0 holds
// the starting capital for every path.
func (e *Engine) generatePaths(p models.SimulationParams) models.EquityPaths {
	rng := rand.New(rand.NewSource(p.Seed))
	steps := p.NumTrades + 1
	paths := models.EquityPaths{
		Data:  make([]float64, p.NumSimulations*steps),
		Paths: p.NumSimulations,
		Steps: steps,
	}
	for i := 0; i < p.NumSimulations; i++ {
		equity := p.StartingCapital
		paths.Data[i*steps] = equity
		for t := 1; t < steps; t++ {
			if rng.Float64() < p.WinRate {
				equity *= 1 + p.RiskPerTrade*p.AvgRR
			} else {
				equity *= 1 - p.RiskPerTrade
			}
			paths.Data[i*steps+t] = equity
		}
	}
	return paths
}

// PercentileBands computes per-step equity percentiles over an explicit set
// of paths. Pure over its inputs; pass result.Paths from Simulate.
func (e *Engine) PercentileBands(paths models.EquityPaths, percentiles []float64) (*models.PercentileBands, error) {
	if paths.Paths == 0 || paths.Steps == 0 {
		return nil, errors.ErrNoSimulation
	}
	if len(percentiles) == 0 {
		percentiles = []float64{5, 25, 50, 75, 95}
	}

	bands := make([][]float64, len(percentiles))
	for b := range bands {
		bands[b] = make([]float64, paths.Steps)
	}
	column := make([]float64, paths.Paths)
	for t := 0; t < paths.Steps; t++ {
		for i := 0; i < paths.Paths; i++ {
			column[i] = paths.At(i, t)
		}
		for b, pct := range percentiles {
			v, err := stats.Percentile(column, pct)
			if err != nil {
				return nil, errors.Wrapf(err, "percentile %v at step %d", pct, t)
			}
			bands[b][t] = v
		}
	}
	return &models.PercentileBands{Percentiles: percentiles, Bands: bands}, nil
}

// StressTest reruns the simulation under shocked win rates and reports the
// resulting risk profile per scenario.
func (e *Engine) StressTest(params models.SimulationParams) ([]models.StressScenario, error) {
	scenarios := []struct {
		name  string
		shock float64
	}{
		{"base", 0.0},
		{"pessimistic", -0.10},
		{"optimistic", 0.10},
		{"worst_case", -0.20},
	}

	p := sanitize(params)
	p.NumSimulations = 500
	p.NumTrades = 100

	out := make([]models.StressScenario, 0, len(scenarios))
	for i, sc := range scenarios {
		shocked := p
		shocked.WinRate = clamp(p.WinRate+sc.shock, 0.05, 0.95)
		shocked.Seed = p.Seed + int64(i)

		res, err := e.Simulate(shocked)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario %s", sc.name)
		}
		out = append(out, models.StressScenario{
			Name:           sc.name,
			WinRateDelta:   sc.shock,
			WinRate:        shocked.WinRate,
			ExpectedEquity: res.ExpectedEquity,
			RiskOfRuin:     res.RiskOfRuin,
			AvgReturnPct:   res.AvgReturnPct,
		})
	}
	return out, nil
}

// QuickAssessment gives a closed-form read on a trade setup without
// simulating: expectancy, Kelly fraction and a go/no-go recommendation.
func (e *Engine) QuickAssessment(winRate, avgRR, riskPerTrade float64) models.QuickAssessment {
	p := clamp(winRate, 0.01, 0.99)
	b := avgRR
	if b < 0.1 {
		b = 0.1
	}

	ev := p*b - (1 - p)
	kelly := math.Max(0, (p*b-(1-p))/b)

	var recommendation string
	switch {
	case ev > 0.30:
		recommendation = "Excellent edge"
	case ev > 0.15:
		recommendation = "Good edge"
	case ev > 0:
		recommendation = "Slight edge"
	default:
		recommendation = "Negative expectancy - DO NOT TRADE"
	}

	safeRisk := 0.01
	if ev > 0 {
		safeRisk = math.Min(riskPerTrade, kelly*0.25)
	}

	return models.QuickAssessment{
		EVPerTrade:      ev,
		KellyFraction:   kelly,
		RecommendedRisk: safeRisk,
		Recommendation:  recommendation,
		IsProfitable:    ev > 0,
	}
}

// RequiredWinRate returns the breakeven win rate for a payoff ratio and the
// win rate needed to hit a target expectancy per unit risked.
func (e *Engine) RequiredWinRate(avgRR, targetEV float64) (breakeven, target float64) {
	if avgRR < 0.1 {
		avgRR = 0.1
	}
	breakeven = 1 / (1 + avgRR)
	target = clamp((targetEV+1)/(avgRR+1), 0, 1)
	return breakeven, target
}

// SharpeRatio annualizes the mean excess per-trade return over its
// volatility, treating each trade as one trading day.
func (e *Engine) SharpeRatio(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, errors.NewDataError("returns", fmt.Sprintf("need at least 2 returns, got %d", len(returns)), nil)
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0, errors.Wrap(err, "returns mean")
	}
	sd, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, errors.Wrap(err, "returns stddev")
	}
	if sd == 0 {
		return 0, errors.NewNumericError("sharpe", "zero return volatility")
	}
	rfDaily := riskFreeAnnual / tradingDays
	return (mean - rfDaily) / sd * math.Sqrt(tradingDays), nil
}

// SortinoRatio is the Sharpe variant penalizing only downside deviation.
func (e *Engine) SortinoRatio(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, errors.NewDataError("returns", fmt.Sprintf("need at least 2 returns, got %d", len(returns)), nil)
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0, errors.Wrap(err, "returns mean")
	}

	rfDaily := riskFreeAnnual / tradingDays
	var downside []float64
	for _, r := range returns {
		if r < rfDaily {
			downside = append(downside, r-rfDaily)
		}
	}
	if len(downside) < 2 {
		return 0, errors.NewNumericError("sortino", "not enough downside observations")
	}
	var sumSq float64
	for _, d := range downside {
		sumSq += d * d
	}
	downDev := math.Sqrt(sumSq / float64(len(downside)))
	if downDev == 0 {
		return 0, errors.NewNumericError("sortino", "zero downside deviation")
	}
	return (mean - rfDaily) / downDev * math.Sqrt(tradingDays), nil
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
