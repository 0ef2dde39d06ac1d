package decision

import (
	"options-lab/internal/models"
)

// Composite score weights. They sum to 1.
const (
	weightVolEdge    = 0.25
	weightRegime     = 0.25
	weightRiskReward = 0.20
	weightOISupport  = 0.15
	weightLiquidity  = 0.15

	defaultLiquidityScore = 75
)

// ScoreTrade combines the vol edge, market regime, payoff ratio, open
// interest depth and liquidity into a 0-100 composite.
func ScoreTrade(edge models.VolEdge, ev models.EVMetrics, market models.MarketMetrics, liquidity *models.LiquidityMetrics) models.TradeScore {
	components := models.ScoreComponents{
		VolEdge:    volEdgeComponent(edge),
		Regime:     regimeComponent(market.PCR),
		RiskReward: riskRewardComponent(ev.RiskReward),
		OISupport:  oiComponent(market.TotalOI),
		Liquidity:  liquidityComponent(liquidity),
	}

	raw := weightVolEdge*components.VolEdge +
		weightRegime*components.Regime +
		weightRiskReward*components.RiskReward +
		weightOISupport*components.OISupport +
		weightLiquidity*components.Liquidity

	score := int(clamp(raw, 0, 100))

	return models.TradeScore{
		Score:      score,
		Confidence: confidenceLabel(score),
		Components: components,
	}
}

// volEdgeComponent rewards edge magnitude in either direction: a strong
// selling edge and a strong buying edge both score, tradeability is about
// having an edge at all.
func volEdgeComponent(edge models.VolEdge) float64 {
	mag := edge.Score
	if mag < 0 {
		mag = -mag
	}
	return clamp(mag*100, 0, 100)
}

// regimeComponent favors extremes (contrarian setups score well) and the
// balanced middle, penalizing the indecisive zones in between.
func regimeComponent(pcr float64) float64 {
	switch {
	case pcr <= 0:
		return 50
	case pcr < 0.7 || pcr > 1.3:
		return 80
	case pcr >= 0.8 && pcr <= 1.2:
		return 50
	default:
		return 65
	}
}

func riskRewardComponent(rr float64) float64 {
	switch {
	case rr >= 2.0:
		return 100
	case rr >= 1.5:
		return 80
	case rr >= 1.0:
		return 60
	default:
		return 40
	}
}

func oiComponent(totalOI int64) float64 {
	switch {
	case totalOI > 5_000_000:
		return 90
	case totalOI > 2_000_000:
		return 70
	case totalOI > 1_000_000:
		return 50
	default:
		return 30
	}
}

func liquidityComponent(liquidity *models.LiquidityMetrics) float64 {
	if liquidity == nil {
		return defaultLiquidityScore
	}
	return clamp(liquidity.Score, 0, 100)
}

func confidenceLabel(score int) string {
	switch {
	case score >= 75:
		return "High"
	case score >= 60:
		return "Medium"
	default:
		return "Low"
	}
}
