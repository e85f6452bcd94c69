package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// EmptyScheduleError means no candidate rebalance date exists in the data
type EmptyScheduleError struct {
	Start        time.Time
	End          time.Time
	IntervalDays int
}

func (e *EmptyScheduleError) Error() string {
	return fmt.Sprintf(
		"no valid rebalance dates between %s and %s every %d day(s)",
		e.Start.Format(dateLayout),
		e.End.Format(dateLayout),
		e.IntervalDays,
	)
}

// InsufficientScoreError means fewer symbols had a score than the
// portfolio size asked for
type InsufficientScoreError struct {
	Date      time.Time
	Requested int
	Available int
}

func (e *InsufficientScoreError) Error() string {
	return fmt.Sprintf(
		"only %d scored symbol(s) on %s, wanted %d",
		e.Available,
		e.Date.Format(dateLayout),
		e.Requested,
	)
}

// MissingPriceError means a symbol had no close on a simulated day
type MissingPriceError struct {
	Date   time.Time
	Symbol string
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("missing price for %s on %s", e.Symbol, e.Date.Format(dateLayout))
}

// InsufficientCashError means a buy could not be fully funded
type InsufficientCashError struct {
	Date      time.Time
	Symbol    string
	Required  float64
	Available float64
}

func (e *InsufficientCashError) Error() string {
	return fmt.Sprintf(
		"insufficient cash to buy %s on %s: need %.2f, have %.2f",
		e.Symbol,
		e.Date.Format(dateLayout),
		e.Required,
		e.Available,
	)
}

// InsufficientDataError means returns cannot be computed from the curve
type InsufficientDataError struct {
	Date   *time.Time
	Reason string
}

func (e *InsufficientDataError) Error() string {
	if e.Date != nil {
		return fmt.Sprintf("insufficient data on %s: %s", e.Date.Format(dateLayout), e.Reason)
	}
	return fmt.Sprintf("insufficient data: %s", e.Reason)
}
