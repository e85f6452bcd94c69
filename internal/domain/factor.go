package domain

import (
	"math"
	"time"
)

// names of the factor columns the upstream feed produces
const (
	FactorValue    = "value"
	FactorMomentum = "momentum"
	FactorLowVol   = "low_vol"
)

func DefaultFactorNames() []string {
	return []string{FactorValue, FactorMomentum, FactorLowVol}
}

// FactorRow is one (date, symbol) observation of raw factor values
type FactorRow struct {
	Date    time.Time
	Symbol  string
	Factors map[string]float64
}

// Get returns the factor value, or false if it is absent or NaN
func (r FactorRow) Get(name string) (float64, bool) {
	v, ok := r.Factors[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
