package cli

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// LoadChainCSV reads an option chain snapshot from a CSV export. Column
// names follow the known layouts; unknown columns are ignored.
func LoadChainCSV(path string) ([]models.ChainRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening chain file %s", path)
	}
	defer f.Close()

	var rows []models.ChainRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.NewDataError("option_chain", "parsing chain CSV", err)
	}
	if len(rows) == 0 {
		return nil, errors.ErrNoChainData
	}
	return rows, nil
}

// closeRow is the minimal price-history CSV shape.
type closeRow struct {
	Date  string  `csv:"Date"`
	Close float64 `csv:"Close"`
}

// LoadClosesCSV reads a closing price series from a CSV with Date and
// Close columns, in file order.
func LoadClosesCSV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening history file %s", path)
	}
	defer f.Close()

	var rows []closeRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.NewDataError("price_history", "parsing history CSV", err)
	}
	if len(rows) == 0 {
		return nil, errors.ErrNoHistory
	}

	closes := make([]float64, 0, len(rows))
	for _, r := range rows {
		closes = append(closes, r.Close)
	}
	return closes, nil
}

// ParseLeg parses a leg flag of the form "BUY|SELL CE|PE <strike> <price> [qty]".
func ParseLeg(raw string, expiry time.Time) (models.OptionLeg, error) {
	fields := strings.Fields(raw)
	if len(fields) < 4 || len(fields) > 5 {
		return models.OptionLeg{}, errors.NewValidationError("leg", raw, "expected 'BUY|SELL CE|PE <strike> <price> [qty]'")
	}

	var position models.Position
	switch strings.ToUpper(fields[0]) {
	case "BUY":
		position = models.Buy
	case "SELL":
		position = models.Sell
	default:
		return models.OptionLeg{}, errors.NewValidationError("leg", raw, "side must be BUY or SELL")
	}

	var optType models.OptionType
	switch strings.ToUpper(fields[1]) {
	case "CE", "CALL":
		optType = models.Call
	case "PE", "PUT":
		optType = models.Put
	default:
		return models.OptionLeg{}, errors.NewValidationError("leg", raw, "type must be CE or PE")
	}

	strike, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return models.OptionLeg{}, errors.NewValidationError("leg", raw, "bad strike")
	}
	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return models.OptionLeg{}, errors.NewValidationError("leg", raw, "bad price")
	}

	qty := 1
	if len(fields) == 5 {
		qty, err = strconv.Atoi(fields[4])
		if err != nil {
			return models.OptionLeg{}, errors.NewValidationError("leg", raw, "bad quantity")
		}
	}

	return models.NewOptionLeg(optType, position, strike, expiry, price, qty)
}
