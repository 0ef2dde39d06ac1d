package decision

import "options-lab/internal/models"

// AnalyzeRegime maps the put/call ratio onto a sentiment regime with a
// contrarian bias and a strategy hint.
func AnalyzeRegime(pcr float64) models.Regime {
	r := models.Regime{PCR: pcr}
	switch {
	case pcr < 0.7:
		r.Regime = "Extreme Greed"
		r.Bias = "Contrarian bearish"
		r.StrategyHint = "Call writing, bear call spreads"
	case pcr < 0.9:
		r.Regime = "Moderate Greed"
		r.Bias = "Mildly bearish"
		r.StrategyHint = "Covered calls, tight iron condors"
	case pcr < 1.1:
		r.Regime = "Balanced"
		r.Bias = "Neutral"
		r.StrategyHint = "Iron condors, strangles"
	case pcr < 1.3:
		r.Regime = "Moderate Fear"
		r.Bias = "Mildly bullish"
		r.StrategyHint = "Put writing, bull put spreads"
	default:
		r.Regime = "Extreme Fear"
		r.Bias = "Contrarian bullish"
		r.StrategyHint = "Put writing, long calls on confirmation"
	}
	return r
}
