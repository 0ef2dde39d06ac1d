package decision

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"options-lab/internal/models"
)

func testEngine() *Engine {
	return NewEngine(DefaultThresholds(), zerolog.Nop())
}

func goodInput() Input {
	return Input{
		StrategyName: "Iron Condor",
		VolEdge:      models.VolEdge{Score: 0.25, Interpretation: "Strong Premium Selling Edge"},
		EV:           models.EVMetrics{ExpectedValue: 450, PositiveProbability: 0.62, RiskReward: 1.8},
		Score:        models.TradeScore{Score: 78, Confidence: "High"},
		RiskOfRuin:   0.03,
	}
}

func TestDecideAllowsGoodSetup(t *testing.T) {
	d := testEngine().Decide(goodInput())
	if !d.TradeAllowed {
		t.Fatalf("good setup rejected: flags %v", d.RiskFlags)
	}
	if d.ID == "" {
		t.Error("decision should carry an ID")
	}
	if d.Confidence != 78 {
		t.Errorf("confidence = %d, want score 78", d.Confidence)
	}
	if !strings.HasPrefix(d.Summary, "ALLOW") {
		t.Errorf("summary = %q, want ALLOW prefix", d.Summary)
	}
}

func TestDecideRejectsNegativeEV(t *testing.T) {
	in := goodInput()
	in.EV.ExpectedValue = -120
	d := testEngine().Decide(in)
	if d.TradeAllowed {
		t.Error("negative expected value must always reject")
	}
}

func TestDecideRejectsEVError(t *testing.T) {
	in := goodInput()
	in.EV = models.EVMetrics{Err: "zero max loss"}
	d := testEngine().Decide(in)
	if d.TradeAllowed {
		t.Error("unavailable expected value must reject")
	}
}

func TestDecideRejectsLowScore(t *testing.T) {
	in := goodInput()
	in.Score.Score = 45
	d := testEngine().Decide(in)
	if d.TradeAllowed {
		t.Error("score below minimum must reject")
	}
}

func TestDecideRejectsHighRuin(t *testing.T) {
	in := goodInput()
	in.RiskOfRuin = 0.35
	d := testEngine().Decide(in)
	if d.TradeAllowed {
		t.Error("risk of ruin above the ceiling must reject")
	}
}

func TestDecideSoftFlagsAccumulate(t *testing.T) {
	in := goodInput()
	// thin edge, thin risk/reward, elevated ruin
	in.VolEdge.Score = 0.05
	in.EV.RiskReward = 1.1
	in.RiskOfRuin = 0.25
	d := testEngine().Decide(in)
	if d.TradeAllowed {
		t.Errorf("three flags should reject, got flags %v", d.RiskFlags)
	}
	if len(d.RiskFlags) < 3 {
		t.Errorf("got %d flags, want at least 3", len(d.RiskFlags))
	}
}

func TestDecideTwoSoftFlagsStillAllowed(t *testing.T) {
	in := goodInput()
	in.VolEdge.Score = 0.05
	in.EV.RiskReward = 1.1
	d := testEngine().Decide(in)
	if !d.TradeAllowed {
		t.Errorf("two soft flags alone should not reject: %v", d.RiskFlags)
	}
	if len(d.RiskFlags) != 2 {
		t.Errorf("got %d flags, want 2", len(d.RiskFlags))
	}
}

func TestDecideCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.MinTradeScore = 80
	e := NewEngine(th, zerolog.Nop())
	d := e.Decide(goodInput())
	if d.TradeAllowed {
		t.Error("score 78 should fail a minimum of 80")
	}
}
