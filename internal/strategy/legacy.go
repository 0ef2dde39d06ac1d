package strategy

import (
	"strings"
	"time"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// LegacyLeg is the loosely typed leg shape accepted by the v1 builder,
// kept so saved v1 strategies remain loadable.
type LegacyLeg struct {
	Type     string  `json:"option_type"`
	Position string  `json:"position"`
	Strike   float64 `json:"strike"`
	Premium  float64 `json:"premium"`
	Quantity int     `json:"qty"`
	Expiry   string  `json:"expiry,omitempty"`
}

// FromLegacy converts v1 legs into a typed strategy. Legs missing an expiry
// inherit defaultExpiry; unknown option types or positions are rejected.
func FromLegacy(name string, spotPrice float64, lotSize int, legs []LegacyLeg, defaultExpiry time.Time) (*Strategy, error) {
	s, err := New(name, spotPrice, lotSize)
	if err != nil {
		return nil, err
	}
	for i, ll := range legs {
		optType, err := parseLegacyType(ll.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "leg %d", i)
		}
		pos, err := parseLegacyPosition(ll.Position)
		if err != nil {
			return nil, errors.Wrapf(err, "leg %d", i)
		}
		expiry := defaultExpiry
		if ll.Expiry != "" {
			expiry, err = time.Parse("2006-01-02", ll.Expiry)
			if err != nil {
				return nil, errors.Wrapf(err, "leg %d: bad expiry %q", i, ll.Expiry)
			}
		}
		qty := ll.Quantity
		if qty == 0 {
			qty = 1
		}
		leg, err := models.NewOptionLeg(optType, pos, ll.Strike, expiry, ll.Premium, qty)
		if err != nil {
			return nil, errors.Wrapf(err, "leg %d", i)
		}
		s.AddLeg(leg)
	}
	return s, nil
}

func parseLegacyType(raw string) (models.OptionType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CE", "CALL", "C":
		return models.Call, nil
	case "PE", "PUT", "P":
		return models.Put, nil
	default:
		return "", errors.NewValidationError("option_type", raw, "must be CE or PE")
	}
}

func parseLegacyPosition(raw string) (models.Position, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY", "B", "LONG":
		return models.Buy, nil
	case "SELL", "S", "SHORT":
		return models.Sell, nil
	default:
		return "", errors.NewValidationError("position", raw, "must be BUY or SELL")
	}
}
