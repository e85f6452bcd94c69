package domain

import "time"

// BenchmarkSymbol is the reserved ts_code for the market index. It is
// carried through the price feed but never traded.
const BenchmarkSymbol = "benchmark"

type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

type PriceBar struct {
	Date   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (b PriceBar) AssetPrice() AssetPrice {
	return AssetPrice{
		Symbol: b.Symbol,
		Price:  b.Close,
		Date:   b.Date,
	}
}

// CleanBar is a daily bar joined with valuation data, as produced by
// the cleaning step. It is the input of the factor calculator.
type CleanBar struct {
	PriceBar
	PeTtm *float64
}
