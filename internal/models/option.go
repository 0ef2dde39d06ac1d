// Package models provides domain models for the options analytics engine.
package models

import (
	"time"

	"options-lab/internal/errors"
)

// OptionType represents the option contract type.
type OptionType string

const (
	Call OptionType = "CE"
	Put  OptionType = "PE"
)

// Position represents the side of an option leg.
type Position string

const (
	Buy  Position = "BUY"
	Sell Position = "SELL"
)

// OptionLeg is a single validated leg of a multi-leg strategy.
// Construct via NewOptionLeg; a leg is immutable once built.
type OptionLeg struct {
	Type       OptionType
	Position   Position
	Strike     float64
	Expiry     time.Time
	EntryPrice float64
	Quantity   int
}

// NewOptionLeg validates and constructs an option leg. Malformed fields fail
// with a ValidationError before any computation can see the leg.
func NewOptionLeg(optType OptionType, position Position, strike float64, expiry time.Time, entryPrice float64, quantity int) (OptionLeg, error) {
	if optType != Call && optType != Put {
		return OptionLeg{}, errors.NewValidationError("type", optType, "must be CE or PE")
	}
	if position != Buy && position != Sell {
		return OptionLeg{}, errors.NewValidationError("position", position, "must be BUY or SELL")
	}
	if strike <= 0 {
		return OptionLeg{}, errors.NewValidationError("strike", strike, "must be positive")
	}
	if entryPrice < 0 {
		return OptionLeg{}, errors.NewValidationError("entry_price", entryPrice, "must be non-negative")
	}
	if quantity <= 0 {
		return OptionLeg{}, errors.NewValidationError("quantity", quantity, "must be positive")
	}
	return OptionLeg{
		Type:       optType,
		Position:   position,
		Strike:     strike,
		Expiry:     expiry,
		EntryPrice: entryPrice,
		Quantity:   quantity,
	}, nil
}

// Intrinsic returns the leg's intrinsic value at the given spot.
func (l OptionLeg) Intrinsic(spot float64) float64 {
	if l.Type == Call {
		if spot > l.Strike {
			return spot - l.Strike
		}
		return 0
	}
	if l.Strike > spot {
		return l.Strike - spot
	}
	return 0
}

// SignedQuantity returns the quantity with sign (negative for SELL).
func (l OptionLeg) SignedQuantity() int {
	if l.Position == Sell {
		return -l.Quantity
	}
	return l.Quantity
}

// Greeks represents option price sensitivities.
// Theta is per calendar day, Vega per 1% volatility, Rho per 1% rate.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Add accumulates another set of Greeks scaled by the given multiplier.
func (g *Greeks) Add(other Greeks, multiplier float64) {
	g.Delta += other.Delta * multiplier
	g.Gamma += other.Gamma * multiplier
	g.Theta += other.Theta * multiplier
	g.Vega += other.Vega * multiplier
	g.Rho += other.Rho * multiplier
}

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}
