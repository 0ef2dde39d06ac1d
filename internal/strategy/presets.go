package strategy

import (
	"time"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// IronCondorParams defines the four strikes and premiums of an iron condor.
// Strikes must be ordered LongPut < ShortPut < ShortCall < LongCall.
type IronCondorParams struct {
	LongPutStrike   float64
	LongPutPrice    float64
	ShortPutStrike  float64
	ShortPutPrice   float64
	ShortCallStrike float64
	ShortCallPrice  float64
	LongCallStrike  float64
	LongCallPrice   float64
	Expiry          time.Time
	Quantity        int
}

// IronCondor builds a four-leg iron condor preset.
func IronCondor(spotPrice float64, lotSize int, p IronCondorParams) (*Strategy, error) {
	if !(p.LongPutStrike < p.ShortPutStrike && p.ShortPutStrike < p.ShortCallStrike && p.ShortCallStrike < p.LongCallStrike) {
		return nil, errors.NewValidationError("strikes", p, "iron condor strikes must be ordered long put < short put < short call < long call")
	}
	s, err := New("Iron Condor", spotPrice, lotSize)
	if err != nil {
		return nil, err
	}
	legs := []struct {
		typ    models.OptionType
		pos    models.Position
		strike float64
		price  float64
	}{
		{models.Put, models.Buy, p.LongPutStrike, p.LongPutPrice},
		{models.Put, models.Sell, p.ShortPutStrike, p.ShortPutPrice},
		{models.Call, models.Sell, p.ShortCallStrike, p.ShortCallPrice},
		{models.Call, models.Buy, p.LongCallStrike, p.LongCallPrice},
	}
	for _, l := range legs {
		leg, err := models.NewOptionLeg(l.typ, l.pos, l.strike, p.Expiry, l.price, p.Quantity)
		if err != nil {
			return nil, err
		}
		s.AddLeg(leg)
	}
	return s, nil
}

// ShortStrangleParams defines a short strangle: sell an OTM put and an OTM call.
type ShortStrangleParams struct {
	PutStrike  float64
	PutPrice   float64
	CallStrike float64
	CallPrice  float64
	Expiry     time.Time
	Quantity   int
}

// ShortStrangle builds a two-leg short strangle preset.
func ShortStrangle(spotPrice float64, lotSize int, p ShortStrangleParams) (*Strategy, error) {
	if p.PutStrike >= p.CallStrike {
		return nil, errors.NewValidationError("strikes", p, "strangle put strike must be below call strike")
	}
	s, err := New("Short Strangle", spotPrice, lotSize)
	if err != nil {
		return nil, err
	}
	put, err := models.NewOptionLeg(models.Put, models.Sell, p.PutStrike, p.Expiry, p.PutPrice, p.Quantity)
	if err != nil {
		return nil, err
	}
	call, err := models.NewOptionLeg(models.Call, models.Sell, p.CallStrike, p.Expiry, p.CallPrice, p.Quantity)
	if err != nil {
		return nil, err
	}
	s.AddLeg(put)
	s.AddLeg(call)
	return s, nil
}
