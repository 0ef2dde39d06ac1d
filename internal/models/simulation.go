package models

// SimulationParams configures a Monte Carlo equity simulation.
type SimulationParams struct {
	WinRate         float64
	AvgRR           float64
	RiskPerTrade    float64
	NumSimulations  int
	NumTrades       int
	StartingCapital float64
	Seed            int64
}

// DefaultSimulationParams returns the standard simulation configuration.
func DefaultSimulationParams() SimulationParams {
	return SimulationParams{
		NumSimulations:  1000,
		NumTrades:       200,
		RiskPerTrade:    0.02,
		StartingCapital: 100000,
		Seed:            1,
	}
}

// EquityPaths is a dense matrix of simulated equity curves. Row i holds path
// i over NumTrades+1 steps; column 0 is always the starting capital.
type EquityPaths struct {
	Data  []float64
	Paths int
	Steps int // trades + 1
}

// At returns the equity of path i at step t.
func (e EquityPaths) At(i, t int) float64 {
	return e.Data[i*e.Steps+t]
}

// Row returns path i as a slice view.
func (e EquityPaths) Row(i int) []float64 {
	return e.Data[i*e.Steps : (i+1)*e.Steps]
}

// SimulationResult carries the equity paths and derived scalar risk metrics.
type SimulationResult struct {
	Params              SimulationParams
	Paths               EquityPaths
	ExpectedEquity      float64
	MedianEquity        float64
	Percentile5Equity   float64
	Percentile95Equity  float64
	RiskOfRuin          float64
	AvgMaxDrawdownPct   float64
	WorstDrawdownPct    float64
	ProbabilityOfProfit float64
	AvgReturnPct        float64
}

// StressScenario is one row of a stress table: the same simulation re-run
// with an adjusted win rate.
type StressScenario struct {
	Name           string
	WinRateDelta   float64
	WinRate        float64
	ExpectedEquity float64
	RiskOfRuin     float64
	AvgReturnPct   float64
}

// QuickAssessment is a cheap, non-simulated edge estimate.
type QuickAssessment struct {
	EVPerTrade      float64
	KellyFraction   float64
	RecommendedRisk float64
	Recommendation  string
	IsProfitable    bool
}

// PercentileBands holds per-step equity percentiles for banding.
type PercentileBands struct {
	Percentiles []float64
	// Bands[j][t] is the Percentiles[j] percentile of equity at step t.
	Bands [][]float64
}

// KellyResult is the output of a Kelly sizing calculation.
type KellyResult struct {
	RecommendedFraction float64
	CapitalAtRisk       float64
	UncertaintyFactor   float64
	FullKelly           float64
	SafeKelly           float64
	Warnings            []string
}

// PositionSize converts a risk fraction into whole lots.
type PositionSize struct {
	RecommendedSize float64
	CapitalAtRisk   float64
	NumLots         int
	RiskPct         float64
	Method          string
	Warnings        []string
	Kelly           *KellyResult
}
