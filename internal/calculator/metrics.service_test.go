package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("strategy beats benchmark", func(t *testing.T) {
		summary, err := Summarize(domain.EquityCurve{
			{Date: util.NewDate(2024, 1, 2), StrategyEquity: 100, BenchmarkEquity: 100},
			{Date: util.NewDate(2024, 1, 3), StrategyEquity: 110, BenchmarkEquity: 105},
		})
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(Summary{
			StrategyReturn:  10,
			BenchmarkReturn: 5,
			ExcessReturn:    5,
		}, summary))
	})

	t.Run("uses first and last points only", func(t *testing.T) {
		summary, err := Summarize(domain.EquityCurve{
			{Date: util.NewDate(2024, 1, 2), StrategyEquity: 200, BenchmarkEquity: 50},
			{Date: util.NewDate(2024, 1, 3), StrategyEquity: 10, BenchmarkEquity: 500},
			{Date: util.NewDate(2024, 1, 4), StrategyEquity: 150, BenchmarkEquity: 60},
		})
		require.NoError(t, err)
		require.Equal(t, float64(-25), summary.StrategyReturn)
		require.Equal(t, float64(20), summary.BenchmarkReturn)
		require.Equal(t, float64(-45), summary.ExcessReturn)
	})

	t.Run("single point", func(t *testing.T) {
		summary, err := Summarize(domain.EquityCurve{
			{Date: util.NewDate(2024, 1, 2), StrategyEquity: 100, BenchmarkEquity: 100},
		})
		insufficientDataErr := &domain.InsufficientDataError{}
		require.True(t, errors.As(err, &insufficientDataErr))
		require.True(t, math.IsNaN(summary.StrategyReturn))
		require.True(t, math.IsNaN(summary.BenchmarkReturn))
		require.True(t, math.IsNaN(summary.ExcessReturn))
	})

	t.Run("zero start", func(t *testing.T) {
		_, err := Summarize(domain.EquityCurve{
			{Date: util.NewDate(2024, 1, 2), StrategyEquity: 0, BenchmarkEquity: 100},
			{Date: util.NewDate(2024, 1, 3), StrategyEquity: 10, BenchmarkEquity: 100},
		})
		insufficientDataErr := &domain.InsufficientDataError{}
		require.True(t, errors.As(err, &insufficientDataErr))
		require.NotNil(t, insufficientDataErr.Date)
	})
}

func TestCalculateMetrics(t *testing.T) {
	t.Run("one year of growth", func(t *testing.T) {
		result, err := CalculateMetrics(domain.EquityCurve{
			{Date: util.NewDate(2023, 1, 1), StrategyEquity: 100},
			{Date: util.NewDate(2023, 7, 2), StrategyEquity: 80},
			{Date: util.NewDate(2024, 1, 1), StrategyEquity: 110},
		})
		require.NoError(t, err)
		require.InDelta(t, 0.1, result.AnnualizedReturn, 1e-9)
		require.InDelta(t, 0.2, result.MaxDrawdown, 1e-12)
		require.Greater(t, result.AnnualizedStdev, 0.0)
		require.InDelta(t, result.AnnualizedReturn/result.AnnualizedStdev, result.SharpeRatio, 1e-12)
	})

	t.Run("flat curve", func(t *testing.T) {
		result, err := CalculateMetrics(domain.EquityCurve{
			{Date: util.NewDate(2023, 1, 1), StrategyEquity: 100},
			{Date: util.NewDate(2023, 1, 2), StrategyEquity: 100},
			{Date: util.NewDate(2023, 1, 3), StrategyEquity: 100},
		})
		require.NoError(t, err)
		require.Equal(t, float64(0), result.AnnualizedStdev)
		require.Equal(t, float64(0), result.SharpeRatio)
		require.Equal(t, float64(0), result.MaxDrawdown)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := CalculateMetrics(domain.EquityCurve{
			{Date: util.NewDate(2023, 1, 1), StrategyEquity: 100},
		})
		insufficientDataErr := &domain.InsufficientDataError{}
		require.True(t, errors.As(err, &insufficientDataErr))
	})
}

func TestNormalizeCurve(t *testing.T) {
	d1 := util.NewDate(2024, 1, 2)
	d2 := util.NewDate(2024, 1, 3)

	out, err := NormalizeCurve(domain.EquityCurve{
		{Date: d1, StrategyEquity: 2000, BenchmarkEquity: 2000},
		{Date: d2, StrategyEquity: 2400, BenchmarkEquity: 2100},
	})
	require.NoError(t, err)
	require.Equal(t, "", cmp.Diff([]domain.NormalizedEquityPoint{
		{Date: d1, Strategy: 100, Benchmark: 100, Excess: 0},
		{Date: d2, Strategy: 120, Benchmark: 105, Excess: 15},
	}, out))

	_, err = NormalizeCurve(domain.EquityCurve{{Date: d1}})
	require.Error(t, err)
}
