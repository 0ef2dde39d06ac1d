// Package decision scores trade setups and produces structured go/no-go
// decisions with explicit reasoning.
package decision

import (
	"fmt"
	"math"

	"options-lab/internal/analysis"
	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// atmIV resolution works through the known chain layouts in priority
// order; the first layout that yields a value wins.
type ivExtractor struct {
	name    string
	extract func(rows []models.ChainRow, spot float64) (iv, strike float64, ok bool)
}

var ivExtractors = []ivExtractor{
	{"paired CE/PE columns", extractPairedCEPE},
	{"long format", extractLongFormat},
	{"paired Call/Put columns", extractPairedCallPut},
}

// VolatilityEdge compares ATM implied volatility against realized
// volatility from price history. Positive score favors selling premium.
func VolatilityEdge(rows []models.ChainRow, spot float64, closes []float64) models.VolEdge {
	if spot <= 0 {
		return models.VolEdge{Err: errors.ErrNoSpotPrice.Error()}
	}

	atmIV, atmStrike, _ := resolveATMIV(rows, spot)
	if atmIV <= 0 {
		return models.VolEdge{
			Warning: errors.ErrNoIVData.Error(),
		}
	}

	realized := analysis.RealizedVol(closes)
	iv := atmIV / 100

	rawEdge := (iv - realized) / realized
	score := clamp(rawEdge, -1, 1)

	return models.VolEdge{
		Score:          score,
		Interpretation: interpretVolEdge(score),
		ATMIV:          iv,
		RealizedVol:    realized,
		ATMStrike:      atmStrike,
		RawEdge:        rawEdge,
	}
}

// resolveATMIV tries each chain layout in order and returns the first hit.
func resolveATMIV(rows []models.ChainRow, spot float64) (iv, strike float64, extractor string) {
	for _, ex := range ivExtractors {
		if iv, strike, ok := ex.extract(rows, spot); ok {
			return iv, strike, ex.name
		}
	}
	return 0, 0, ""
}

// extractPairedCEPE reads IV_CE / IV_PE columns: pick the strike nearest
// spot and average whichever sides are populated.
func extractPairedCEPE(rows []models.ChainRow, spot float64) (float64, float64, bool) {
	return extractPaired(rows, spot, func(r models.ChainRow) (float64, float64) { return r.IVCE, r.IVPE })
}

// extractPairedCallPut reads the alternate IV_Call / IV_Put naming.
func extractPairedCallPut(rows []models.ChainRow, spot float64) (float64, float64, bool) {
	return extractPaired(rows, spot, func(r models.ChainRow) (float64, float64) { return r.IVCall, r.IVPut })
}

func extractPaired(rows []models.ChainRow, spot float64, sides func(models.ChainRow) (float64, float64)) (float64, float64, bool) {
	bestIdx := -1
	bestDist := math.Inf(1)
	for i, row := range rows {
		ce, pe := sides(row)
		if ce <= 0 && pe <= 0 {
			continue
		}
		if d := math.Abs(row.Strike - spot); d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	row := rows[bestIdx]
	ce, pe := sides(row)
	switch {
	case ce > 0 && pe > 0:
		return (ce + pe) / 2, row.Strike, true
	case ce > 0:
		return ce, row.Strike, true
	default:
		return pe, row.Strike, true
	}
}

// extractLongFormat reads per-row Option_Type + IV: nearest strike on each
// side, averaged when both sides are present.
func extractLongFormat(rows []models.ChainRow, spot float64) (float64, float64, bool) {
	var callIV, putIV, callStrike, putStrike float64
	callDist, putDist := math.Inf(1), math.Inf(1)
	for _, row := range rows {
		if row.IV <= 0 {
			continue
		}
		d := math.Abs(row.Strike - spot)
		switch row.OptionType {
		case models.Call:
			if d < callDist {
				callDist, callIV, callStrike = d, row.IV, row.Strike
			}
		case models.Put:
			if d < putDist {
				putDist, putIV, putStrike = d, row.IV, row.Strike
			}
		}
	}
	switch {
	case callIV > 0 && putIV > 0:
		return (callIV + putIV) / 2, callStrike, true
	case callIV > 0:
		return callIV, callStrike, true
	case putIV > 0:
		return putIV, putStrike, true
	default:
		return 0, 0, false
	}
}

func interpretVolEdge(score float64) string {
	switch {
	case score > 0.20:
		return "Strong Premium Selling Edge"
	case score > 0.10:
		return "Moderate Premium Selling Edge"
	case score > -0.10:
		return "Neutral Volatility"
	case score > -0.20:
		return "Moderate Long Vol Edge"
	default:
		return "Strong Long Vol Edge"
	}
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

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
