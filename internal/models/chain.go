package models

// ChainRow is one row of an option chain snapshot as delivered by an
// external collaborator. Snapshots arrive in one of three layouts and the
// engine resolves them in priority order: paired per-strike columns
// (IVCall/IVPut), long format (OptionType + IV per row), or alternate
// paired naming. Unused columns are simply left at their zero value.
type ChainRow struct {
	Strike     float64    `csv:"Strike"`
	OptionType OptionType `csv:"Option_Type"`
	Expiry     string     `csv:"Expiry"`
	OI         int64      `csv:"OI"`
	OIChange   int64      `csv:"OI_Change"`
	Volume     int64      `csv:"Volume"`
	LTP        float64    `csv:"LTP"`

	// Long-format IV, percent. Zero means absent.
	IV float64 `csv:"IV"`

	// Paired-format IVs, percent. Zero means absent.
	IVCE float64 `csv:"IV_CE"`
	IVPE float64 `csv:"IV_PE"`

	// Alternate paired naming seen in some exports.
	IVCall float64 `csv:"IV_Call"`
	IVPut  float64 `csv:"IV_Put"`

	// Optional broadcast constant; usually present on every row or none.
	SpotPrice float64 `csv:"Spot_Price"`
}

// ChainMetrics summarizes positioning across a chain snapshot.
type ChainMetrics struct {
	PCR                float64
	TotalOI            int64
	CallOI             int64
	PutOI              int64
	MaxPain            float64
	ConcentrationRatio float64
	TopStrikes         []StrikeOI
}

// StrikeOI is a strike ranked by open interest.
type StrikeOI struct {
	Strike     float64
	OptionType OptionType
	OI         int64
}
