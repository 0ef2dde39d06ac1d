package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"options-lab/internal/errors"
)

const (
	annualizationDays = 252

	// FallbackRealizedVol is used when price history is too short to
	// estimate volatility.
	FallbackRealizedVol = 0.18

	// DefaultRSIPeriod is the standard Wilder RSI lookback.
	DefaultRSIPeriod = 14
)

// PctReturns converts a closing price series into simple period returns.
func PctReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, errors.NewDataError("price_history", fmt.Sprintf("need at least 2 closes, got %d", len(closes)), nil)
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return nil, errors.NewNumericError("pct_returns", "zero close in price history")
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns, nil
}

// LogReturns converts a closing price series into log returns.
func LogReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, errors.NewDataError("price_history", fmt.Sprintf("need at least 2 closes, got %d", len(closes)), nil)
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			return nil, errors.NewNumericError("log_returns", "non-positive close in price history")
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	return returns, nil
}

// RealizedVol annualizes the standard deviation of daily percent returns.
// Series too short to estimate fall back to FallbackRealizedVol.
func RealizedVol(closes []float64) float64 {
	returns, err := PctReturns(closes)
	if err != nil || len(returns) < 2 {
		return FallbackRealizedVol
	}
	sd, err := stats.StandardDeviationSample(returns)
	if err != nil || sd == 0 {
		return FallbackRealizedVol
	}
	return sd * math.Sqrt(annualizationDays)
}

// RSI computes Wilder's relative strength index over the given period.
// The series must have at least period+1 closes.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		period = DefaultRSIPeriod
	}
	if len(closes) < period+1 {
		return 0, errors.NewDataError("price_history",
			fmt.Sprintf("RSI(%d) needs %d closes, got %d", period, period+1, len(closes)), nil)
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing over the remainder of the series.
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}
