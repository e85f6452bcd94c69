package domain

import "time"

// EquityPoint is one day of the equity curve. BenchmarkEquity is the
// index close rescaled to start at the strategy's first value.
type EquityPoint struct {
	Date            time.Time
	StrategyEquity  float64
	BenchmarkEquity float64
}

type EquityCurve []EquityPoint

// NormalizedEquityPoint rescales both series to start at 100. Excess is
// the gap between them in points.
type NormalizedEquityPoint struct {
	Date      time.Time `json:"date"`
	Strategy  float64   `json:"strategy"`
	Benchmark float64   `json:"benchmark"`
	Excess    float64   `json:"excess"`
}
