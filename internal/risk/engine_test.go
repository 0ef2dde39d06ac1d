package risk

import (
	"math"
	"testing"

	"options-lab/internal/models"
)

func baseParams() models.SimulationParams {
	return models.SimulationParams{
		WinRate:         0.55,
		AvgRR:           1.5,
		RiskPerTrade:    0.02,
		NumSimulations:  500,
		NumTrades:       100,
		StartingCapital: 100000,
		Seed:            42,
	}
}

func TestSimulateShape(t *testing.T) {
	e := NewEngine()
	res, err := e.Simulate(baseParams())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if res.Paths.Paths != 500 {
		t.Errorf("paths = %d, want 500", res.Paths.Paths)
	}
	if res.Paths.Steps != 101 {
		t.Errorf("steps = %d, want trades+1 = 101", res.Paths.Steps)
	}
	for i := 0; i < res.Paths.Paths; i++ {
		if res.Paths.At(i, 0) != 100000 {
			t.Fatalf("path %d starts at %v, want starting capital", i, res.Paths.At(i, 0))
		}
	}
}

func TestSimulateDeterministicWithSeed(t *testing.T) {
	e := NewEngine()
	a, err := e.Simulate(baseParams())
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Simulate(baseParams())
	if err != nil {
		t.Fatal(err)
	}
	if a.ExpectedEquity != b.ExpectedEquity || a.RiskOfRuin != b.RiskOfRuin {
		t.Error("same seed should reproduce identical results")
	}
}

func TestRuinThresholdConfigurable(t *testing.T) {
	p := baseParams()
	p.WinRate = 0.50
	p.AvgRR = 1.0
	p.RiskPerTrade = 0.10
	p.NumTrades = 200

	strict, err := NewEngineWithRuinThreshold(0.90).Simulate(p)
	if err != nil {
		t.Fatal(err)
	}
	loose, err := NewEngineWithRuinThreshold(0.10).Simulate(p)
	if err != nil {
		t.Fatal(err)
	}

	// a breakeven coin-flip at 10% risk dips below 90% equity on nearly
	// every path but rarely loses 90% of the account
	if strict.RiskOfRuin <= loose.RiskOfRuin {
		t.Errorf("strict ruin %v should exceed loose ruin %v", strict.RiskOfRuin, loose.RiskOfRuin)
	}
	if strict.RiskOfRuin < 0.9 {
		t.Errorf("strict ruin = %v, want near 1 for a 0.90 threshold", strict.RiskOfRuin)
	}

	// out-of-range threshold falls back to the default
	fallback, err := NewEngineWithRuinThreshold(1.5).Simulate(baseParams())
	if err != nil {
		t.Fatal(err)
	}
	def, err := NewEngine().Simulate(baseParams())
	if err != nil {
		t.Fatal(err)
	}
	if fallback.RiskOfRuin != def.RiskOfRuin {
		t.Errorf("fallback ruin %v should match default %v", fallback.RiskOfRuin, def.RiskOfRuin)
	}
}

func TestSimulateStrongEdgeRarelyRuins(t *testing.T) {
	e := NewEngine()
	p := baseParams()
	p.WinRate = 0.99
	p.AvgRR = 5
	p.RiskPerTrade = 0.01

	res, err := e.Simulate(p)
	if err != nil {
		t.Fatal(err)
	}
	if res.RiskOfRuin > 0.001 {
		t.Errorf("risk of ruin = %v, want ~0 for a strong edge", res.RiskOfRuin)
	}
	if res.ProbabilityOfProfit < 0.99 {
		t.Errorf("prob of profit = %v, want near 1", res.ProbabilityOfProfit)
	}
	if res.ExpectedEquity <= 100000 {
		t.Errorf("expected equity = %v, want growth", res.ExpectedEquity)
	}
}

func TestSimulateNegativeEdgeRuins(t *testing.T) {
	e := NewEngine()
	p := baseParams()
	p.WinRate = 0.10
	p.AvgRR = 0.5
	p.RiskPerTrade = 0.10
	p.NumTrades = 200

	res, err := e.Simulate(p)
	if err != nil {
		t.Fatal(err)
	}
	if res.RiskOfRuin < 0.99 {
		t.Errorf("risk of ruin = %v, want ~1 for a badly negative edge", res.RiskOfRuin)
	}
}

func TestSimulateSanitizesInputs(t *testing.T) {
	e := NewEngine()
	res, err := e.Simulate(models.SimulationParams{
		WinRate:      2.0, // clamps to 0.99
		AvgRR:        -3,  // floors to 0.1
		RiskPerTrade: 0.5, // clamps to 0.10
		Seed:         7,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Params.WinRate != 0.99 {
		t.Errorf("win rate = %v, want 0.99", res.Params.WinRate)
	}
	if res.Params.AvgRR != 0.1 {
		t.Errorf("avg rr = %v, want 0.1", res.Params.AvgRR)
	}
	if res.Params.RiskPerTrade != 0.10 {
		t.Errorf("risk per trade = %v, want 0.10", res.Params.RiskPerTrade)
	}
	if res.Params.NumSimulations != 1000 || res.Params.NumTrades != 200 {
		t.Errorf("defaults not applied: %d sims %d trades", res.Params.NumSimulations, res.Params.NumTrades)
	}
}

func TestDrawdownMetrics(t *testing.T) {
	e := NewEngine()
	res, err := e.Simulate(baseParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.AvgMaxDrawdownPct > 0 {
		t.Errorf("avg max drawdown = %v, want <= 0", res.AvgMaxDrawdownPct)
	}
	if res.WorstDrawdownPct > res.AvgMaxDrawdownPct {
		t.Errorf("worst drawdown %v should not exceed average %v", res.WorstDrawdownPct, res.AvgMaxDrawdownPct)
	}
	if res.WorstDrawdownPct < -100 {
		t.Errorf("drawdown = %v, cannot lose more than 100%%", res.WorstDrawdownPct)
	}
}

func TestPercentileBands(t *testing.T) {
	e := NewEngine()
	res, err := e.Simulate(baseParams())
	if err != nil {
		t.Fatal(err)
	}

	bands, err := e.PercentileBands(res.Paths, nil)
	if err != nil {
		t.Fatalf("PercentileBands: %v", err)
	}
	if len(bands.Bands) != 5 {
		t.Fatalf("got %d bands, want 5 defaults", len(bands.Bands))
	}
	for _, band := range bands.Bands {
		if len(band) != res.Paths.Steps {
			t.Fatalf("band length = %d, want %d", len(band), res.Paths.Steps)
		}
	}
	// bands are ordered at every step
	for t0 := 0; t0 < res.Paths.Steps; t0++ {
		for b := 1; b < len(bands.Bands); b++ {
			if bands.Bands[b][t0] < bands.Bands[b-1][t0] {
				t.Fatalf("bands out of order at step %d", t0)
			}
		}
	}
	// all bands start at the capital
	for _, band := range bands.Bands {
		if band[0] != 100000 {
			t.Errorf("band starts at %v, want 100000", band[0])
		}
	}
}

func TestPercentileBandsEmptyPaths(t *testing.T) {
	e := NewEngine()
	if _, err := e.PercentileBands(models.EquityPaths{}, nil); err == nil {
		t.Error("empty paths should error")
	}
}

func TestStressTest(t *testing.T) {
	e := NewEngine()
	scenarios, err := e.StressTest(baseParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != 4 {
		t.Fatalf("got %d scenarios, want 4", len(scenarios))
	}

	byName := map[string]models.StressScenario{}
	for _, sc := range scenarios {
		byName[sc.Name] = sc
	}
	base, worst := byName["base"], byName["worst_case"]
	if math.Abs(worst.WinRate-(base.WinRate-0.20)) > 1e-9 {
		t.Errorf("worst case win rate = %v, want base-0.20", worst.WinRate)
	}
	if worst.ExpectedEquity >= base.ExpectedEquity {
		t.Errorf("worst case equity %v should trail base %v", worst.ExpectedEquity, base.ExpectedEquity)
	}
	if worst.RiskOfRuin < base.RiskOfRuin {
		t.Errorf("worst case ruin %v should not beat base %v", worst.RiskOfRuin, base.RiskOfRuin)
	}
}

func TestQuickAssessment(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		winRate, rr float64
		want        string
		profitable  bool
	}{
		{0.70, 1.5, "Excellent edge", true},  // ev = 0.75
		{0.55, 1.3, "Good edge", true},       // ev = 0.265
		{0.52, 1.0, "Slight edge", true},     // ev = 0.04
		{0.40, 1.0, "Negative expectancy - DO NOT TRADE", false},
	}
	for _, tc := range cases {
		got := e.QuickAssessment(tc.winRate, tc.rr, 0.02)
		if got.Recommendation != tc.want {
			t.Errorf("QuickAssessment(%v, %v) = %q, want %q", tc.winRate, tc.rr, got.Recommendation, tc.want)
		}
		if got.IsProfitable != tc.profitable {
			t.Errorf("QuickAssessment(%v, %v) profitable = %v, want %v", tc.winRate, tc.rr, got.IsProfitable, tc.profitable)
		}
	}

	neg := e.QuickAssessment(0.40, 1.0, 0.02)
	if neg.KellyFraction != 0 {
		t.Errorf("negative edge Kelly = %v, want 0", neg.KellyFraction)
	}
	if neg.RecommendedRisk != 0.01 {
		t.Errorf("negative edge recommended risk = %v, want 0.01 floor", neg.RecommendedRisk)
	}
}

func TestRequiredWinRate(t *testing.T) {
	e := NewEngine()

	breakeven, target := e.RequiredWinRate(1.0, 0.2)
	if math.Abs(breakeven-0.5) > 1e-9 {
		t.Errorf("breakeven win rate at 1:1 = %v, want 0.5", breakeven)
	}
	if math.Abs(target-0.6) > 1e-9 {
		t.Errorf("target win rate = %v, want 0.6", target)
	}

	breakeven, _ = e.RequiredWinRate(2.0, 0)
	if math.Abs(breakeven-1.0/3.0) > 1e-9 {
		t.Errorf("breakeven at 2:1 = %v, want 1/3", breakeven)
	}
}

func TestSharpeRatio(t *testing.T) {
	e := NewEngine()

	steady := []float64{0.01, 0.012, 0.008, 0.011, 0.009, 0.010, 0.013, 0.007}
	sharpe, err := e.SharpeRatio(steady)
	if err != nil {
		t.Fatalf("SharpeRatio: %v", err)
	}
	if sharpe <= 0 {
		t.Errorf("sharpe = %v, want positive for steady gains", sharpe)
	}

	if _, err := e.SharpeRatio([]float64{0.01}); err == nil {
		t.Error("single return should error")
	}
	if _, err := e.SharpeRatio([]float64{0.01, 0.01, 0.01}); err == nil {
		t.Error("zero-volatility returns should error")
	}
}

func TestSortinoRatio(t *testing.T) {
	e := NewEngine()

	mixed := []float64{0.02, -0.01, 0.03, -0.02, 0.01, -0.005, 0.015, -0.01}
	sortino, err := e.SortinoRatio(mixed)
	if err != nil {
		t.Fatalf("SortinoRatio: %v", err)
	}
	if sortino == 0 {
		t.Error("sortino should be nonzero for mixed returns")
	}

	if _, err := e.SortinoRatio([]float64{0.01, 0.02, 0.03}); err == nil {
		t.Error("all-upside returns should error on downside deviation")
	}
}

func BenchmarkSimulate(b *testing.B) {
	e := NewEngine()
	p := models.DefaultSimulationParams()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Simulate(p); err != nil {
			b.Fatal(err)
		}
	}
}
