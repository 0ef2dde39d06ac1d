package strategy

import (
	"math"
	"testing"
	"time"

	"options-lab/internal/models"
)

func testExpiry() time.Time {
	return time.Date(2026, 9, 30, 15, 30, 0, 0, time.UTC)
}

func referenceIronCondor(t *testing.T) *Strategy {
	t.Helper()
	s, err := IronCondor(26000, 50, IronCondorParams{
		LongPutStrike:   25700,
		LongPutPrice:    10,
		ShortPutStrike:  25800,
		ShortPutPrice:   40,
		ShortCallStrike: 26200,
		ShortCallPrice:  40,
		LongCallStrike:  26500,
		LongCallPrice:   10,
		Expiry:          testExpiry(),
		Quantity:        1,
	})
	if err != nil {
		t.Fatalf("build iron condor: %v", err)
	}
	return s
}

func TestIronCondorNetPremium(t *testing.T) {
	s := referenceIronCondor(t)

	debit, credit, net := s.NetPremium()
	if debit != 1000 {
		t.Errorf("debit = %v, want 1000", debit)
	}
	if credit != 4000 {
		t.Errorf("credit = %v, want 4000", credit)
	}
	if net != 3000 {
		t.Errorf("net premium = %v, want 3000 credit", net)
	}
}

func TestIronCondorPayoff(t *testing.T) {
	s := referenceIronCondor(t)

	cases := []struct {
		spot float64
		want float64
	}{
		{26000, 3000},   // between short strikes, full credit kept
		{25650, -2000},  // below long put: (100-wide put wing - 60 net credit) x 50
		{26550, -12000}, // above long call: the 300-wide call wing dominates
		{25740, 0},      // lower breakeven
		{26260, 0},      // upper breakeven
	}
	for _, tc := range cases {
		got := s.PayoffAt(tc.spot)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("PayoffAt(%v) = %v, want %v", tc.spot, got, tc.want)
		}
	}
}

func TestIronCondorBreakevens(t *testing.T) {
	s := referenceIronCondor(t)

	bes := s.Breakevens()
	if len(bes) != 2 {
		t.Fatalf("got %d breakevens %v, want 2", len(bes), bes)
	}
	if math.Abs(bes[0]-25740) > 0.5 {
		t.Errorf("lower breakeven = %v, want 25740", bes[0])
	}
	if math.Abs(bes[1]-26260) > 0.5 {
		t.Errorf("upper breakeven = %v, want 26260", bes[1])
	}
}

func TestIronCondorMaxProfitLoss(t *testing.T) {
	s := referenceIronCondor(t)

	maxProfit, maxLoss := s.MaxProfitLoss()
	if maxProfit.Unlimited {
		t.Fatal("iron condor max profit should be finite")
	}
	if maxLoss.Unlimited {
		t.Fatal("iron condor max loss should be finite")
	}
	if math.Abs(maxProfit.Value-3000) > 1 {
		t.Errorf("max profit = %v, want 3000", maxProfit.Value)
	}
	// loss is capped by the wider 300-point call wing: (300-60) x 50
	if math.Abs(maxLoss.Value-(-12000)) > 1 {
		t.Errorf("max loss = %v, want -12000", maxLoss.Value)
	}
}

func TestSymmetricCondorLossBothWings(t *testing.T) {
	s, err := IronCondor(26000, 50, IronCondorParams{
		LongPutStrike:   25700,
		LongPutPrice:    10,
		ShortPutStrike:  25800,
		ShortPutPrice:   40,
		ShortCallStrike: 26200,
		ShortCallPrice:  40,
		LongCallStrike:  26300,
		LongCallPrice:   10,
		Expiry:          testExpiry(),
		Quantity:        1,
	})
	if err != nil {
		t.Fatal(err)
	}

	// equal 100-point wings: loss saturates at (100-60) x 50 on either side
	for _, spot := range []float64{25650, 26350} {
		if got := s.PayoffAt(spot); math.Abs(got-(-2000)) > 1e-9 {
			t.Errorf("PayoffAt(%v) = %v, want -2000", spot, got)
		}
	}
	m := s.Metrics(0.15, 30)
	if math.Abs(m.RiskReward-1.5) > 0.01 {
		t.Errorf("risk/reward = %v, want 1.5", m.RiskReward)
	}
	if math.Abs(m.EstimatedMargin-2000) > 1 {
		t.Errorf("margin = %v, want 2000", m.EstimatedMargin)
	}
}

func TestIronCondorMetrics(t *testing.T) {
	s := referenceIronCondor(t)

	m := s.Metrics(0.15, 30)
	if m.Kind != models.CreditStrategy {
		t.Errorf("kind = %v, want credit", m.Kind)
	}
	if m.POP <= 0 || m.POP >= 1 {
		t.Errorf("POP = %v, want in (0,1)", m.POP)
	}
	if math.Abs(m.RiskReward-0.25) > 0.01 {
		t.Errorf("risk/reward = %v, want 0.25 (3000 profit vs 12000 loss)", m.RiskReward)
	}
	if math.Abs(m.EstimatedMargin-12000) > 1 {
		t.Errorf("margin = %v, want 12000 (defined risk)", m.EstimatedMargin)
	}
	// credit condor is short vega and long theta near the middle
	if m.NetGreeks.Vega >= 0 {
		t.Errorf("net vega = %v, want negative", m.NetGreeks.Vega)
	}
	if m.NetGreeks.Theta <= 0 {
		t.Errorf("net theta = %v, want positive", m.NetGreeks.Theta)
	}
}

func TestLongCallUnlimitedProfit(t *testing.T) {
	s, err := New("Long Call", 26000, 50)
	if err != nil {
		t.Fatal(err)
	}
	leg, err := models.NewOptionLeg(models.Call, models.Buy, 26000, testExpiry(), 150, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.AddLeg(leg)

	maxProfit, maxLoss := s.MaxProfitLoss()
	if !maxProfit.Unlimited {
		t.Error("long call max profit should be unlimited")
	}
	if maxLoss.Unlimited {
		t.Error("long call max loss should be finite")
	}
	if math.Abs(maxLoss.Value-(-7500)) > 1 {
		t.Errorf("max loss = %v, want -7500 (premium paid)", maxLoss.Value)
	}
}

func TestShortCallUnlimitedLoss(t *testing.T) {
	s, err := New("Short Call", 26000, 50)
	if err != nil {
		t.Fatal(err)
	}
	leg, err := models.NewOptionLeg(models.Call, models.Sell, 26200, testExpiry(), 120, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.AddLeg(leg)

	maxProfit, maxLoss := s.MaxProfitLoss()
	if maxProfit.Unlimited {
		t.Error("short call max profit should be finite")
	}
	if !maxLoss.Unlimited {
		t.Error("short call max loss should be unlimited")
	}
	if math.Abs(maxProfit.Value-6000) > 1 {
		t.Errorf("max profit = %v, want 6000 (premium received)", maxProfit.Value)
	}
}

func TestShortStrangleMargin(t *testing.T) {
	s, err := ShortStrangle(26000, 50, ShortStrangleParams{
		PutStrike:  25500,
		PutPrice:   60,
		CallStrike: 26500,
		CallPrice:  60,
		Expiry:     testExpiry(),
		Quantity:   1,
	})
	if err != nil {
		t.Fatal(err)
	}

	margin := s.EstimateMargin()
	// two uncovered shorts: 2 x 20% x 26000 x 50
	want := 2 * 0.20 * 26000 * 50.0
	if math.Abs(margin-want) > 1 {
		t.Errorf("margin = %v, want %v", margin, want)
	}
}

func TestPOPAtExpiry(t *testing.T) {
	s := referenceIronCondor(t)

	// spot 26000 sits between the short strikes, intrinsic P&L positive
	if got := s.POP(0.15, 0); got != 1.0 {
		t.Errorf("POP at expiry in profit zone = %v, want 1.0", got)
	}

	losing, err := New("Long Call", 26000, 50)
	if err != nil {
		t.Fatal(err)
	}
	leg, err := models.NewOptionLeg(models.Call, models.Buy, 26500, testExpiry(), 100, 1)
	if err != nil {
		t.Fatal(err)
	}
	losing.AddLeg(leg)
	if got := losing.POP(0.15, 0); got != 0.0 {
		t.Errorf("POP at expiry OTM = %v, want 0.0", got)
	}
}

func TestPOPDecreasesWithWiderLossZone(t *testing.T) {
	wide := referenceIronCondor(t)

	narrow, err := IronCondor(26000, 50, IronCondorParams{
		LongPutStrike:   25800,
		LongPutPrice:    20,
		ShortPutStrike:  25950,
		ShortPutPrice:   60,
		ShortCallStrike: 26050,
		ShortCallPrice:  60,
		LongCallStrike:  26200,
		LongCallPrice:   20,
		Expiry:          testExpiry(),
		Quantity:        1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if wp, np := wide.POP(0.15, 30), narrow.POP(0.15, 30); wp <= np {
		t.Errorf("wider condor POP %v should exceed narrow condor POP %v", wp, np)
	}
}

func TestMarkToMarket(t *testing.T) {
	s, err := New("Long Call", 26000, 50)
	if err != nil {
		t.Fatal(err)
	}
	leg, err := models.NewOptionLeg(models.Call, models.Buy, 26000, testExpiry(), 150, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.AddLeg(leg)

	// a strong move in the money should show a gain, a collapse a loss
	up := s.MarkToMarket(27000, 0.15, 15)
	down := s.MarkToMarket(24000, 0.15, 15)
	if up <= 0 {
		t.Errorf("mark-to-market after +1000 move = %v, want gain", up)
	}
	if down >= 0 {
		t.Errorf("mark-to-market after -1000 move = %v, want loss", down)
	}
}

func TestDTE(t *testing.T) {
	s := referenceIronCondor(t)
	now := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)
	if got := s.DTE(now); got != 10 {
		t.Errorf("DTE = %d, want 10", got)
	}
	after := time.Date(2026, 10, 5, 10, 0, 0, 0, time.UTC)
	if got := s.DTE(after); got != 0 {
		t.Errorf("DTE past expiry = %d, want 0", got)
	}
}

func TestRemoveLeg(t *testing.T) {
	s := referenceIronCondor(t)
	s.RemoveLeg(0)
	if len(s.Legs) != 3 {
		t.Fatalf("got %d legs after remove, want 3", len(s.Legs))
	}
	s.RemoveLeg(10) // out of range, ignored
	if len(s.Legs) != 3 {
		t.Fatalf("got %d legs after no-op remove, want 3", len(s.Legs))
	}
}

func TestEmptyStrategyMetrics(t *testing.T) {
	s, err := New("Empty", 26000, 50)
	if err != nil {
		t.Fatal(err)
	}
	m := s.Metrics(0.15, 30)
	if len(m.Warnings) == 0 {
		t.Error("empty strategy should carry a warning")
	}
	if len(m.Breakevens) != 0 {
		t.Errorf("empty strategy breakevens = %v, want none", m.Breakevens)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("Bad", 0, 50); err == nil {
		t.Error("zero spot should fail")
	}
	if _, err := New("Bad", 26000, 0); err == nil {
		t.Error("zero lot size should fail")
	}
	if _, err := IronCondor(26000, 50, IronCondorParams{
		LongPutStrike: 26000, ShortPutStrike: 25800, ShortCallStrike: 26200, LongCallStrike: 26500,
		Expiry: testExpiry(), Quantity: 1,
	}); err == nil {
		t.Error("misordered condor strikes should fail")
	}
}

func TestInterpolateZero(t *testing.T) {
	got := interpolateZero(10, 20, -5, 5)
	if math.Abs(got-15) > 1e-12 {
		t.Errorf("interpolateZero = %v, want 15", got)
	}
	// flat segment degenerates to midpoint
	got = interpolateZero(10, 20, 0, 0)
	if got != 15 {
		t.Errorf("flat interpolateZero = %v, want 15", got)
	}
}

func TestBrentq(t *testing.T) {
	root, ok := brentq(func(x float64) float64 { return x*x - 4 }, 0, 10)
	if !ok {
		t.Fatal("brentq failed to converge")
	}
	if math.Abs(root-2) > 1e-5 {
		t.Errorf("root = %v, want 2", root)
	}

	if _, ok := brentq(func(x float64) float64 { return x*x + 1 }, -1, 1); ok {
		t.Error("brentq should report failure without a sign change")
	}
}

func TestFromLegacy(t *testing.T) {
	legs := []LegacyLeg{
		{Type: "PE", Position: "BUY", Strike: 25700, Premium: 10, Quantity: 1},
		{Type: "put", Position: "sell", Strike: 25800, Premium: 40, Quantity: 1},
		{Type: "CALL", Position: "SHORT", Strike: 26200, Premium: 40, Quantity: 1},
		{Type: "C", Position: "LONG", Strike: 26500, Premium: 10, Quantity: 1},
	}
	s, err := FromLegacy("Migrated Condor", 26000, 50, legs, testExpiry())
	if err != nil {
		t.Fatalf("FromLegacy: %v", err)
	}
	_, _, net := s.NetPremium()
	if net != 3000 {
		t.Errorf("migrated net premium = %v, want 3000", net)
	}

	if _, err := FromLegacy("Bad", 26000, 50, []LegacyLeg{{Type: "XX", Position: "BUY", Strike: 100, Premium: 1}}, testExpiry()); err == nil {
		t.Error("unknown legacy option type should fail")
	}
}
