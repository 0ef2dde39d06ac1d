package decision

import (
	"testing"

	"options-lab/internal/models"
)

func fallingCloses(n int) []float64 {
	closes := make([]float64, n)
	closes[0] = 26000
	for i := 1; i < n; i++ {
		closes[i] = closes[i-1] * 0.995
	}
	return closes
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	closes[0] = 26000
	for i := 1; i < n; i++ {
		closes[i] = closes[i-1] * 1.005
	}
	return closes
}

func TestGenerateCallBuySignal(t *testing.T) {
	s := NewSignalEngine()
	// oversold RSI plus greedy PCR is the contrarian call setup
	sig, err := s.Generate(fallingCloses(40), 0.55)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Signal != models.SignalCallBuy {
		t.Fatalf("signal = %s, want CALL_BUY (rsi %v)", sig.Signal, sig.RSI)
	}
	if sig.Confidence < 50 || sig.Confidence > 95 {
		t.Errorf("confidence = %v, want in [50, 95]", sig.Confidence)
	}
	if len(sig.Reasons) == 0 {
		t.Error("signal should carry reasons")
	}
}

func TestGeneratePutBuySignal(t *testing.T) {
	s := NewSignalEngine()
	sig, err := s.Generate(risingCloses(40), 1.45)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Signal != models.SignalPutBuy {
		t.Fatalf("signal = %s, want PUT_BUY (rsi %v)", sig.Signal, sig.RSI)
	}
}

func TestGenerateNoConfluence(t *testing.T) {
	s := NewSignalEngine()
	// oversold RSI but fearful PCR: indicators disagree
	sig, err := s.Generate(fallingCloses(40), 1.4)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Signal != models.SignalNone {
		t.Errorf("signal = %s, want NO_SIGNAL without confluence", sig.Signal)
	}
}

func TestGenerateShortHistory(t *testing.T) {
	s := NewSignalEngine()
	if _, err := s.Generate([]float64{100, 101}, 1.0); err == nil {
		t.Error("short history should error")
	}
}

func TestValidateDirectionalNeedsMatchingSignal(t *testing.T) {
	e := testEngine()

	callSig := models.DirectionalSignal{Signal: models.SignalCallBuy, Confidence: 80}
	v := e.ValidateWithSignal(models.CategoryLongCall, callSig, 0, 0.02)
	if !v.Allowed {
		t.Errorf("matching signal should allow: %v", v.Reasons)
	}
	if v.Confidence != 80 {
		t.Errorf("confidence = %d, want signal confidence 80", v.Confidence)
	}

	v = e.ValidateWithSignal(models.CategoryLongPut, callSig, 0, 0.02)
	if v.Allowed {
		t.Error("long put against a CALL_BUY signal should be rejected")
	}

	none := models.DirectionalSignal{Signal: models.SignalNone}
	v = e.ValidateWithSignal(models.CategoryLongCall, none, 0, 0.02)
	if v.Allowed {
		t.Error("directional strategy without a signal should be rejected")
	}
}

func TestValidateNeutralStrategies(t *testing.T) {
	e := testEngine()

	none := models.DirectionalSignal{Signal: models.SignalNone}
	v := e.ValidateWithSignal(models.CategoryIronCondor, none, 0, 0.02)
	if !v.Allowed {
		t.Fatalf("neutral strategy with no signal should be allowed: %v", v.Reasons)
	}
	if v.Confidence != 70 {
		t.Errorf("confidence = %d, want 70", v.Confidence)
	}

	putSig := models.DirectionalSignal{Signal: models.SignalPutBuy, Confidence: 85}
	v = e.ValidateWithSignal(models.CategoryStrangle, putSig, 0, 0.02)
	if !v.Allowed {
		t.Error("neutral strategy should tolerate a directional signal")
	}
	if v.Confidence != 50 {
		t.Errorf("confidence = %d, want capped at 50", v.Confidence)
	}
	if len(v.Warnings) == 0 {
		t.Error("conflicting signal should warn")
	}
}

func TestValidateVolEdgeAdjustment(t *testing.T) {
	e := testEngine()
	none := models.DirectionalSignal{Signal: models.SignalNone}

	rich := e.ValidateWithSignal(models.CategoryIronCondor, none, 0.25, 0.02)
	if rich.Confidence != 80 {
		t.Errorf("rich vol confidence = %d, want 70+10", rich.Confidence)
	}

	cheap := e.ValidateWithSignal(models.CategoryIronCondor, none, -0.25, 0.02)
	if cheap.Confidence != 65 {
		t.Errorf("cheap vol confidence = %d, want 70-5", cheap.Confidence)
	}
	if len(cheap.Warnings) == 0 {
		t.Error("cheap vol should warn")
	}
}

func TestValidateRuinGates(t *testing.T) {
	e := testEngine()
	none := models.DirectionalSignal{Signal: models.SignalNone}

	blocked := e.ValidateWithSignal(models.CategoryIronCondor, none, 0, 0.30)
	if blocked.Allowed {
		t.Error("ruin above the ceiling should disallow")
	}

	elevated := e.ValidateWithSignal(models.CategoryIronCondor, none, 0, 0.15)
	if !elevated.Allowed {
		t.Error("ruin below the ceiling should stay allowed")
	}
	if len(elevated.Warnings) == 0 {
		t.Error("ruin above 10% should warn")
	}
}

func TestAnalyzeRegimeBuckets(t *testing.T) {
	cases := []struct {
		pcr  float64
		want string
	}{
		{0.5, "Extreme Greed"},
		{0.8, "Moderate Greed"},
		{1.0, "Balanced"},
		{1.2, "Moderate Fear"},
		{1.6, "Extreme Fear"},
	}
	for _, tc := range cases {
		r := AnalyzeRegime(tc.pcr)
		if r.Regime != tc.want {
			t.Errorf("AnalyzeRegime(%v) = %q, want %q", tc.pcr, r.Regime, tc.want)
		}
		if r.Bias == "" || r.StrategyHint == "" {
			t.Errorf("AnalyzeRegime(%v) missing bias or hint", tc.pcr)
		}
	}
}
