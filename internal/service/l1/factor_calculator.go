package l1_service

import (
	"fmt"
	"math"
	"sort"

	"github.com/lumina333/quant/internal/domain"
	"github.com/montanaflynn/stats"
)

const (
	defaultMomentumLookback = 10
	defaultVolatilityWindow = 10
)

type CalculateFactorsInput struct {
	Bars []domain.CleanBar
	// trading days between the two closes of the momentum ratio
	MomentumLookback int
	// number of daily returns in the low volatility window
	VolatilityWindow int
}

// CalculateFactors derives the value, momentum and low volatility factors
// from cleaned daily bars. every factor is computed per symbol over that
// symbol's own history; rows without all three factors are dropped.
//
//	value    = 1 / pe_ttm, missing when pe_ttm <= 0
//	momentum = ln(close_t / close_{t-lookback})
//	low_vol  = -stdev(daily returns over the window)
func CalculateFactors(in CalculateFactorsInput) ([]domain.FactorRow, error) {
	lookback := in.MomentumLookback
	if lookback == 0 {
		lookback = defaultMomentumLookback
	}
	window := in.VolatilityWindow
	if window == 0 {
		window = defaultVolatilityWindow
	}
	if lookback < 1 || window < 2 {
		return nil, fmt.Errorf("invalid factor windows: lookback %d, volatility window %d", lookback, window)
	}

	barsBySymbol := map[string][]domain.CleanBar{}
	for _, bar := range in.Bars {
		barsBySymbol[bar.Symbol] = append(barsBySymbol[bar.Symbol], bar)
	}

	out := []domain.FactorRow{}
	for symbol, bars := range barsBySymbol {
		sort.Slice(bars, func(i, j int) bool {
			return bars[i].Date.Before(bars[j].Date)
		})

		returns := make([]float64, len(bars))
		for i := 1; i < len(bars); i++ {
			prev := bars[i-1].Close
			if prev == 0 {
				returns[i] = math.NaN()
				continue
			}
			returns[i] = bars[i].Close/prev - 1
		}

		for i, bar := range bars {
			if bar.PeTtm == nil || *bar.PeTtm <= 0 {
				continue
			}
			if i < lookback || i < window {
				continue
			}
			base := bars[i-lookback].Close
			if base <= 0 || bar.Close <= 0 {
				continue
			}

			windowReturns := returns[i-window+1 : i+1]
			if containsNaN(windowReturns) {
				continue
			}
			stdev, err := stats.StandardDeviationSample(windowReturns)
			if err != nil {
				return nil, fmt.Errorf("failed to calculate volatility for %s: %w", symbol, err)
			}

			out = append(out, domain.FactorRow{
				Date:   bar.Date,
				Symbol: symbol,
				Factors: map[string]float64{
					domain.FactorValue:    1 / *bar.PeTtm,
					domain.FactorMomentum: math.Log(bar.Close / base),
					domain.FactorLowVol:   -stdev,
				},
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Symbol < out[j].Symbol
	})

	return out, nil
}

func containsNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
