package calculator

import (
	"fmt"
	"math"

	"github.com/lumina333/quant/internal/domain"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

const tradingDaysPerYear = 252

// Summary holds percentage returns over the whole curve
type Summary struct {
	StrategyReturn  float64 `json:"strategyReturn"`
	BenchmarkReturn float64 `json:"benchmarkReturn"`
	ExcessReturn    float64 `json:"excessReturn"`
}

func nanSummary() Summary {
	return Summary{
		StrategyReturn:  math.NaN(),
		BenchmarkReturn: math.NaN(),
		ExcessReturn:    math.NaN(),
	}
}

// Summarize computes (last / first - 1) * 100 for both series. a curve
// that is too short or starts at zero yields NaN fields and an
// InsufficientDataError, which callers treat as a warning.
func Summarize(curve domain.EquityCurve) (Summary, error) {
	if len(curve) < 2 {
		return nanSummary(), &domain.InsufficientDataError{
			Reason: fmt.Sprintf("need at least 2 equity points, got %d", len(curve)),
		}
	}

	first := curve[0]
	last := curve[len(curve)-1]
	if first.StrategyEquity == 0 || first.BenchmarkEquity == 0 {
		return nanSummary(), &domain.InsufficientDataError{
			Date:   &first.Date,
			Reason: "curve starts at zero",
		}
	}

	strategyReturn := percentChange(first.StrategyEquity, last.StrategyEquity)
	benchmarkReturn := percentChange(first.BenchmarkEquity, last.BenchmarkEquity)

	return Summary{
		StrategyReturn:  strategyReturn.InexactFloat64(),
		BenchmarkReturn: benchmarkReturn.InexactFloat64(),
		ExcessReturn:    strategyReturn.Sub(benchmarkReturn).InexactFloat64(),
	}, nil
}

func percentChange(start, end float64) decimal.Decimal {
	s := decimal.NewFromFloat(start)
	e := decimal.NewFromFloat(end)
	return e.Sub(s).Div(s).Mul(decimal.NewFromInt(100))
}

type CalculateMetricsResult struct {
	AnnualizedStdev  float64 `json:"annualizedStdev"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	// largest peak to trough fall, as a positive fraction
	MaxDrawdown float64 `json:"maxDrawdown"`
}

// CalculateMetrics derives risk metrics from the strategy side of the
// curve. it assumes the curve covers enough days for annualization to
// mean something
func CalculateMetrics(curve domain.EquityCurve) (*CalculateMetricsResult, error) {
	returns, err := calculateReturns(curve)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate returns: %w", err)
	}

	stdev := 0.0
	if len(returns) > 1 {
		stdev, err = stats.StandardDeviationSample(returns)
		if err != nil {
			return nil, err
		}
	}
	annualizedStdev := stdev * math.Sqrt(tradingDaysPerYear)

	startValue := curve[0].StrategyEquity
	endValue := curve[len(curve)-1].StrategyEquity
	numHours := curve[len(curve)-1].Date.Sub(curve[0].Date).Hours()
	numYears := numHours / (365 * 24)
	if numYears <= 0 {
		return nil, &domain.InsufficientDataError{
			Date:   &curve[0].Date,
			Reason: "curve spans no time",
		}
	}
	annualizedReturn := math.Pow((endValue/startValue), 1/numYears) - 1

	sharpeRatio := 0.0
	if annualizedStdev > 0 {
		sharpeRatio = annualizedReturn / annualizedStdev
	}

	return &CalculateMetricsResult{
		AnnualizedStdev:  annualizedStdev,
		AnnualizedReturn: annualizedReturn,
		SharpeRatio:      sharpeRatio,
		MaxDrawdown:      maxDrawdown(curve),
	}, nil
}

func calculateReturns(curve domain.EquityCurve) ([]float64, error) {
	if len(curve) < 2 {
		return nil, &domain.InsufficientDataError{
			Reason: fmt.Sprintf("cannot calculate metrics on %d equity point(s)", len(curve)),
		}
	}

	returns := []float64{}
	for i := 1; i < len(curve); i++ {
		lastValue := curve[i-1].StrategyEquity
		if lastValue == 0 {
			return nil, &domain.InsufficientDataError{
				Date:   &curve[i-1].Date,
				Reason: "zero equity",
			}
		}
		returns = append(returns, (curve[i].StrategyEquity-lastValue)/lastValue)
	}

	return returns, nil
}

func maxDrawdown(curve domain.EquityCurve) float64 {
	peak := 0.0
	worst := 0.0
	for _, point := range curve {
		if point.StrategyEquity > peak {
			peak = point.StrategyEquity
		}
		if peak > 0 {
			worst = math.Max(worst, (peak-point.StrategyEquity)/peak)
		}
	}
	return worst
}

func NormalizeCurve(curve domain.EquityCurve) ([]domain.NormalizedEquityPoint, error) {
	if len(curve) == 0 {
		return []domain.NormalizedEquityPoint{}, nil
	}
	first := curve[0]
	if first.StrategyEquity == 0 || first.BenchmarkEquity == 0 {
		return nil, &domain.InsufficientDataError{
			Date:   &first.Date,
			Reason: "cannot normalize a curve starting at zero",
		}
	}

	out := make([]domain.NormalizedEquityPoint, 0, len(curve))
	for _, point := range curve {
		strategy := point.StrategyEquity * 100 / first.StrategyEquity
		benchmark := point.BenchmarkEquity * 100 / first.BenchmarkEquity
		out = append(out, domain.NormalizedEquityPoint{
			Date:      point.Date,
			Strategy:  strategy,
			Benchmark: benchmark,
			Excess:    strategy - benchmark,
		})
	}
	return out, nil
}
