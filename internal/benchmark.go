package internal

import (
	"fmt"
	"sort"
	"time"

	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/repository"
	"github.com/lumina333/quant/internal/util"
	"github.com/shopspring/decimal"
)

type BenchmarkHandler struct {
	PriceRepository repository.PriceRepository
}

// GetIntraPeriodChange get historic closes for a symbol
// and converts them to % change from start
func (h BenchmarkHandler) GetIntraPeriodChange(
	symbol string,
	start,
	end time.Time,
	granularity time.Duration,
) (map[time.Time]float64, error) {
	if granularity < 24*time.Hour {
		return nil, fmt.Errorf("granularity must be at least one day, got %s", granularity)
	}

	bars, err := h.PriceRepository.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	prices := []domain.AssetPrice{}
	for _, bar := range bars {
		if bar.Symbol == symbol && util.DateLte(start, bar.Date) && util.DateLte(bar.Date, end) {
			prices = append(prices, bar.AssetPrice())
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no prices found for symbol %s between %s and %s", symbol, util.DateKey(start), util.DateKey(end))
	}
	if prices[0].Price <= 0 {
		return nil, &domain.InsufficientDataError{
			Date:   &prices[0].Date,
			Reason: fmt.Sprintf("%s has non-positive starting close", symbol),
		}
	}

	return intraPeriodChangeIterator(prices, end, granularity), nil
}

// samples the series every granularity, snapping forward to the next
// trading day when a target falls on a gap
func intraPeriodChangeIterator(
	prices []domain.AssetPrice,
	end time.Time,
	granularity time.Duration,
) map[time.Time]float64 {
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})

	startPrice := decimal.NewFromFloat(prices[0].Price)
	out := map[time.Time]float64{
		prices[0].Date: 0,
	}
	nextTarget := prices[0].Date.Add(granularity)
	for i := 1; i < len(prices) && util.DateLte(prices[i].Date, end); i++ {
		for util.DateKey(nextTarget) < util.DateKey(prices[i].Date) {
			nextTarget = nextTarget.Add(24 * time.Hour)
		}
		if util.DateKey(prices[i].Date) == util.DateKey(nextTarget) {
			price := decimal.NewFromFloat(prices[i].Price)
			out[nextTarget] = decimal.NewFromInt(100).Mul(price.Sub(startPrice)).Div(startPrice).InexactFloat64()
			nextTarget = nextTarget.Add(granularity)
		}
	}

	return out
}
