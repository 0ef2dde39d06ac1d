// Package analysis derives market-structure metrics from option chain
// snapshots and price history.
package analysis

import (
	"math"
	"sort"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// defaultTopStrikes is how many OI-ranked strikes to surface.
const defaultTopStrikes = 5

// ChainAnalyzer computes positioning metrics over a chain snapshot.
type ChainAnalyzer struct {
	rows []models.ChainRow
}

// NewChainAnalyzer wraps a chain snapshot. At least one row is required.
func NewChainAnalyzer(rows []models.ChainRow) (*ChainAnalyzer, error) {
	if len(rows) == 0 {
		return nil, errors.ErrNoChainData
	}
	return &ChainAnalyzer{rows: rows}, nil
}

// PCR returns the put/call open interest ratio. The call side carries a +1
// so an all-put chain yields a large finite ratio instead of dividing by
// zero.
func (a *ChainAnalyzer) PCR() float64 {
	callOI, putOI := a.sideOI()
	return float64(putOI) / float64(callOI+1)
}

func (a *ChainAnalyzer) sideOI() (callOI, putOI int64) {
	for _, row := range a.rows {
		switch row.OptionType {
		case models.Call:
			callOI += row.OI
		case models.Put:
			putOI += row.OI
		}
	}
	return callOI, putOI
}

// TopStrikes returns the n strikes with the highest open interest,
// descending. Ties keep snapshot order.
func (a *ChainAnalyzer) TopStrikes(n int) []models.StrikeOI {
	if n <= 0 {
		n = defaultTopStrikes
	}
	ranked := make([]models.StrikeOI, 0, len(a.rows))
	for _, row := range a.rows {
		ranked = append(ranked, models.StrikeOI{
			Strike:     row.Strike,
			OptionType: row.OptionType,
			OI:         row.OI,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].OI > ranked[j].OI })
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Concentration returns the share of total open interest held by the top n
// strikes. High concentration flags pinning risk around those strikes.
func (a *ChainAnalyzer) Concentration(n int) float64 {
	var total int64
	for _, row := range a.rows {
		total += row.OI
	}
	if total == 0 {
		return 0
	}
	var top int64
	for _, s := range a.TopStrikes(n) {
		top += s.OI
	}
	return float64(top) / float64(total)
}

// MaxPain returns the strike where option writers' aggregate payout at
// expiry is smallest.
func (a *ChainAnalyzer) MaxPain() float64 {
	strikes := a.uniqueStrikes()
	if len(strikes) == 0 {
		return 0
	}

	best := strikes[0]
	bestPain := math.Inf(1)
	for _, settle := range strikes {
		var pain float64
		for _, row := range a.rows {
			switch row.OptionType {
			case models.Call:
				if settle > row.Strike {
					pain += (settle - row.Strike) * float64(row.OI)
				}
			case models.Put:
				if row.Strike > settle {
					pain += (row.Strike - settle) * float64(row.OI)
				}
			}
		}
		if pain < bestPain {
			bestPain = pain
			best = settle
		}
	}
	return best
}

func (a *ChainAnalyzer) uniqueStrikes() []float64 {
	seen := make(map[float64]struct{}, len(a.rows))
	var strikes []float64
	for _, row := range a.rows {
		if _, ok := seen[row.Strike]; ok {
			continue
		}
		seen[row.Strike] = struct{}{}
		strikes = append(strikes, row.Strike)
	}
	sort.Float64s(strikes)
	return strikes
}

// Metrics bundles every chain metric into one snapshot summary.
func (a *ChainAnalyzer) Metrics() models.ChainMetrics {
	callOI, putOI := a.sideOI()
	return models.ChainMetrics{
		PCR:                math.Round(a.PCR()*100) / 100,
		TotalOI:            callOI + putOI,
		CallOI:             callOI,
		PutOI:              putOI,
		MaxPain:            a.MaxPain(),
		ConcentrationRatio: a.Concentration(defaultTopStrikes),
		TopStrikes:         a.TopStrikes(defaultTopStrikes),
	}
}

// SpotPrice returns the broadcast spot column if present, 0 otherwise.
func (a *ChainAnalyzer) SpotPrice() float64 {
	for _, row := range a.rows {
		if row.SpotPrice > 0 {
			return row.SpotPrice
		}
	}
	return 0
}
