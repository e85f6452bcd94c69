package domain

import (
	"sort"
	"time"

	"github.com/lumina333/quant/internal/util"
)

// HoldingEntry is a single target weight on a rebalance date
type HoldingEntry struct {
	Date   time.Time
	Symbol string
	Weight float64
	// composite score that got the symbol selected. not persisted
	Score float64
}

// HoldingsTable is the sparse (date, symbol) -> weight mapping produced
// by portfolio construction, ordered by date then symbol
type HoldingsTable []HoldingEntry

func (h HoldingsTable) Sort() {
	sort.SliceStable(h, func(i, j int) bool {
		if !h[i].Date.Equal(h[j].Date) {
			return h[i].Date.Before(h[j].Date)
		}
		return h[i].Symbol < h[j].Symbol
	})
}

// Dates returns the distinct rebalance dates in ascending order
func (h HoldingsTable) Dates() []time.Time {
	seen := map[string]bool{}
	out := []time.Time{}
	for _, e := range h {
		key := util.DateKey(e.Date)
		if !seen[key] {
			seen[key] = true
			out = append(out, e.Date)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}

// ByDate indexes target weights by date key
func (h HoldingsTable) ByDate() map[string]map[string]float64 {
	out := map[string]map[string]float64{}
	for _, e := range h {
		key := util.DateKey(e.Date)
		if _, ok := out[key]; !ok {
			out[key] = map[string]float64{}
		}
		out[key][e.Symbol] = e.Weight
	}
	return out
}

// WeightSum totals the weights per date key
func (h HoldingsTable) WeightSum() map[string]float64 {
	out := map[string]float64{}
	for _, e := range h {
		out[util.DateKey(e.Date)] += e.Weight
	}
	return out
}
