package l1_service

import (
	"sort"
	"time"

	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

type ComputeRebalanceDatesInput struct {
	Start        time.Time
	End          time.Time
	IntervalDays int
	// dates actually present in the factor feed, keyed by util.DateKey
	ValidDates map[string]bool
}

// ComputeRebalanceDates walks from Start to End (inclusive) in steps of
// IntervalDays calendar days and keeps the dates the feed has data for
func ComputeRebalanceDates(in ComputeRebalanceDatesInput) ([]time.Time, error) {
	start := util.TruncateDate(in.Start)
	end := util.TruncateDate(in.End)
	emptyErr := &domain.EmptyScheduleError{
		Start:        start,
		End:          end,
		IntervalDays: in.IntervalDays,
	}
	if in.IntervalDays < 1 || end.Before(start) {
		return nil, emptyErr
	}

	out := []time.Time{}
	for current := start; util.DateLte(current, end); current = current.AddDate(0, 0, in.IntervalDays) {
		if in.ValidDates[util.DateKey(current)] {
			out = append(out, current)
		}
	}

	if len(out) == 0 {
		return nil, emptyErr
	}
	return out, nil
}

// RebalanceDatesFromFactors derives the date range and valid set from the
// factor frame itself
func RebalanceDatesFromFactors(rows []domain.FactorRow, intervalDays int) ([]time.Time, error) {
	if len(rows) == 0 {
		return nil, &domain.EmptyScheduleError{IntervalDays: intervalDays}
	}

	validDates := map[string]bool{}
	dates := []time.Time{}
	for _, row := range rows {
		key := util.DateKey(row.Date)
		if !validDates[key] {
			validDates[key] = true
			dates = append(dates, util.TruncateDate(row.Date))
		}
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	return ComputeRebalanceDates(ComputeRebalanceDatesInput{
		Start:        dates[0],
		End:          dates[len(dates)-1],
		IntervalDays: intervalDays,
		ValidDates:   validDates,
	})
}
