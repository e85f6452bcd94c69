package l3_service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/logger"
	"github.com/lumina333/quant/internal/repository"
	l1_service "github.com/lumina333/quant/internal/service/l1"
	"github.com/lumina333/quant/internal/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func bar(date time.Time, symbol string, close float64) domain.PriceBar {
	return domain.PriceBar{
		Date:   date,
		Symbol: symbol,
		Open:   close,
		High:   close,
		Low:    close,
		Close:  close,
	}
}

func newHandler() BacktestService {
	return NewBacktestService(l1_service.NewTradeService())
}

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return logger.NewContext(context.Background(), zap.New(core).Sugar()), logs
}

func Test_backtestServiceHandler_Simulate(t *testing.T) {
	d1 := util.NewDate(2024, 1, 2)
	d2 := util.NewDate(2024, 1, 3)
	d3 := util.NewDate(2024, 1, 4)

	t.Run("buys whole shares net of commission", func(t *testing.T) {
		ctx, _ := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: []domain.PriceBar{
				bar(d1, "X", 100),
				bar(d1, domain.BenchmarkSymbol, 3000),
			},
			Holdings: domain.HoldingsTable{
				{Date: d1, Symbol: "X", Weight: 1},
			},
			InitialCapital: 10_000_000,
			CommissionRate: 0.0005,
		})
		require.NoError(t, err)
		require.NoError(t, result.Warnings)

		require.Len(t, result.Trades, 1)
		require.Equal(t, int64(99950), result.Trades[0].Quantity)
		require.Equal(t, domain.TradeSide_Buy, result.Trades[0].Side)
		require.Equal(t, "2.5", result.FinalAccount.Cash.String())
		require.Equal(t, int64(99950), result.FinalAccount.Quantity("X"))

		require.Equal(t, "", cmp.Diff(domain.EquityCurve{
			{Date: d1, StrategyEquity: 10_000_000, BenchmarkEquity: 10_000_000},
		}, result.Curve))
		require.Equal(t, 9_995_002.5, result.FinalEquity)
		require.Equal(t, float64(10_000_000), result.InitialCapital)
	})

	t.Run("dropped symbol is closed before the new one is opened", func(t *testing.T) {
		ctx, _ := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: []domain.PriceBar{
				bar(d1, "A", 10),
				bar(d1, "B", 10),
				bar(d1, domain.BenchmarkSymbol, 100),
				bar(d2, "A", 10),
				bar(d2, "B", 20),
				bar(d2, domain.BenchmarkSymbol, 110),
			},
			Holdings: domain.HoldingsTable{
				{Date: d1, Symbol: "A", Weight: 1},
				{Date: d2, Symbol: "B", Weight: 1},
			},
			InitialCapital: 1000,
		})
		require.NoError(t, err)

		type tradeSummary struct {
			Date     time.Time
			Symbol   string
			Side     domain.TradeSide
			Quantity int64
		}
		trades := []tradeSummary{}
		for _, trade := range result.Trades {
			trades = append(trades, tradeSummary{trade.Date, trade.Symbol, trade.Side, trade.Quantity})
		}
		require.Equal(t, "", cmp.Diff([]tradeSummary{
			{d1, "A", domain.TradeSide_Buy, 100},
			{d2, "A", domain.TradeSide_Sell, 100},
			{d2, "B", domain.TradeSide_Buy, 50},
		}, trades))

		require.Equal(t, []string{"B"}, result.FinalAccount.HeldSymbols())
		require.True(t, result.FinalAccount.Cash.IsZero())
		require.Equal(t, "", cmp.Diff(domain.EquityCurve{
			{Date: d1, StrategyEquity: 1000, BenchmarkEquity: 1000},
			{Date: d2, StrategyEquity: 1000, BenchmarkEquity: 1100},
		}, result.Curve))
	})

	t.Run("round trip at flat prices keeps capital", func(t *testing.T) {
		ctx, _ := observedContext()
		prices := []domain.PriceBar{}
		for _, d := range []time.Time{d1, d2, d3} {
			prices = append(prices,
				bar(d, "A", 10),
				bar(d, "B", 25),
				bar(d, domain.BenchmarkSymbol, 50),
			)
		}

		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: prices,
			Holdings: domain.HoldingsTable{
				{Date: d1, Symbol: "A", Weight: 0.5},
				{Date: d1, Symbol: "B", Weight: 0.5},
				{Date: d3, Symbol: "A", Weight: 1},
			},
			InitialCapital: 1000,
		})
		require.NoError(t, err)
		require.NoError(t, result.Warnings)

		for _, point := range result.Curve {
			require.Equal(t, float64(1000), point.StrategyEquity)
			require.Equal(t, float64(1000), point.BenchmarkEquity)
		}
		require.Equal(t, float64(1000), result.FinalEquity)
		require.Equal(t, int64(100), result.FinalAccount.Quantity("A"))
		require.Equal(t, int64(0), result.FinalAccount.Quantity("B"))
	})

	t.Run("mark to market is exact", func(t *testing.T) {
		ctx, _ := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: []domain.PriceBar{
				bar(d1, "A", 3),
				bar(d1, domain.BenchmarkSymbol, 1),
				bar(d2, "A", 3.3),
				bar(d2, domain.BenchmarkSymbol, 1),
			},
			Holdings: domain.HoldingsTable{
				{Date: d1, Symbol: "A", Weight: 1},
			},
			InitialCapital: 1000,
		})
		require.NoError(t, err)

		require.Len(t, result.Curve, 2)
		require.Equal(t, 1099.9, result.Curve[1].StrategyEquity)
		require.Equal(t, "1", result.FinalAccount.Cash.String())
	})

	t.Run("missing price for a held symbol is fatal", func(t *testing.T) {
		ctx, _ := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: []domain.PriceBar{
				bar(d1, "A", 10),
				bar(d1, domain.BenchmarkSymbol, 100),
				bar(d2, domain.BenchmarkSymbol, 100),
				bar(d3, "A", 10),
				bar(d3, domain.BenchmarkSymbol, 100),
			},
			Holdings: domain.HoldingsTable{
				{Date: d1, Symbol: "A", Weight: 1},
			},
			InitialCapital: 1000,
		})
		require.Error(t, err)

		missingPriceErr := &domain.MissingPriceError{}
		require.True(t, errors.As(err, &missingPriceErr))
		require.Equal(t, "A", missingPriceErr.Symbol)
		require.Equal(t, d2, missingPriceErr.Date)

		require.NotNil(t, result)
		require.Len(t, result.Curve, 1)
	})

	t.Run("missing benchmark on the first day is fatal", func(t *testing.T) {
		ctx, _ := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: []domain.PriceBar{
				bar(d1, "A", 10),
				bar(d2, domain.BenchmarkSymbol, 100),
			},
			InitialCapital: 1000,
		})
		missingPriceErr := &domain.MissingPriceError{}
		require.True(t, errors.As(err, &missingPriceErr))
		require.Equal(t, domain.BenchmarkSymbol, missingPriceErr.Symbol)
		require.Empty(t, result.Curve)
	})

	t.Run("missing benchmark carries forward", func(t *testing.T) {
		ctx, _ := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: []domain.PriceBar{
				bar(d1, domain.BenchmarkSymbol, 100),
				bar(d2, "A", 10),
				bar(d3, domain.BenchmarkSymbol, 120),
			},
			InitialCapital: 1000,
		})
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(domain.EquityCurve{
			{Date: d1, StrategyEquity: 1000, BenchmarkEquity: 1000},
			{Date: d2, StrategyEquity: 1000, BenchmarkEquity: 1000},
			{Date: d3, StrategyEquity: 1000, BenchmarkEquity: 1200},
		}, result.Curve))
	})

	t.Run("buy larger than cash is reduced", func(t *testing.T) {
		ctx, logs := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: []domain.PriceBar{
				bar(d1, "A", 300),
				bar(d1, "B", 1),
				bar(d1, domain.BenchmarkSymbol, 1),
				bar(d2, "A", 300),
				bar(d2, "B", 1),
				bar(d2, domain.BenchmarkSymbol, 1),
			},
			Holdings: domain.HoldingsTable{
				{Date: d1, Symbol: "A", Weight: 1},
				{Date: d2, Symbol: "A", Weight: 0.5},
				{Date: d2, Symbol: "B", Weight: 0.5},
			},
			InitialCapital: 1000,
		})
		require.NoError(t, err)

		// A can only shed one 300 share, leaving 400 to fund a 500 buy of B
		warnings := multierr.Errors(result.Warnings)
		require.Len(t, warnings, 1)
		cashErr := &domain.InsufficientCashError{}
		require.True(t, errors.As(warnings[0], &cashErr))
		require.Equal(t, "B", cashErr.Symbol)
		require.Equal(t, float64(500), cashErr.Required)
		require.Equal(t, float64(400), cashErr.Available)

		require.Equal(t, int64(2), result.FinalAccount.Quantity("A"))
		require.Equal(t, int64(400), result.FinalAccount.Quantity("B"))
		require.True(t, result.FinalAccount.Cash.IsZero())
		require.Equal(t, 1, logs.FilterField(zap.String("symbol", "B")).Len())
	})

	t.Run("unpriced targets and unknown dates are warnings", func(t *testing.T) {
		ctx, _ := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: []domain.PriceBar{
				bar(d1, "A", 10),
				bar(d1, domain.BenchmarkSymbol, 100),
			},
			Holdings: domain.HoldingsTable{
				{Date: d1, Symbol: "A", Weight: 0.5},
				{Date: d1, Symbol: "Z", Weight: 0.5},
				{Date: d3, Symbol: "A", Weight: 1},
			},
			InitialCapital: 1000,
		})
		require.NoError(t, err)

		warnings := multierr.Errors(result.Warnings)
		require.Len(t, warnings, 2)
		missingPriceErr := &domain.MissingPriceError{}
		require.True(t, errors.As(warnings[0], &missingPriceErr))
		require.Equal(t, "Z", missingPriceErr.Symbol)
		require.Contains(t, warnings[1].Error(), "2024-01-04")

		require.Equal(t, int64(50), result.FinalAccount.Quantity("A"))
		require.Equal(t, "500", result.FinalAccount.Cash.String())
	})

	t.Run("benchmark file under a configured symbol", func(t *testing.T) {
		dir := t.TempDir()
		pricePath := filepath.Join(dir, "prices.csv")
		require.NoError(t, os.WriteFile(pricePath, []byte(`trade_date,ts_code,open,high,low,close,volume
2024-01-02,A,10,10,10,10,100
2024-01-03,A,11,11,11,11,100
`), 0o644))
		benchmarkPath := filepath.Join(dir, "bench.csv")
		require.NoError(t, os.WriteFile(benchmarkPath, []byte(`date,open,high,low,close,volume
2024-01-02,3500,3500,3500,3500,1
2024-01-03,3850,3850,3850,3850,1
`), 0o644))

		prices, err := repository.NewPriceCsvRepository(pricePath, benchmarkPath, "000300.SH").List()
		require.NoError(t, err)

		ctx, _ := observedContext()
		result, err := newHandler().Simulate(ctx, SimulateInput{
			Prices: prices,
			Holdings: domain.HoldingsTable{
				{Date: d1, Symbol: "A", Weight: 1},
			},
			InitialCapital:  1000,
			BenchmarkSymbol: "000300.SH",
		})
		require.NoError(t, err)
		require.NoError(t, result.Warnings)
		require.Equal(t, "", cmp.Diff(domain.EquityCurve{
			{Date: d1, StrategyEquity: 1000, BenchmarkEquity: 1000},
			{Date: d2, StrategyEquity: 1100, BenchmarkEquity: 1100},
		}, result.Curve))
	})

	t.Run("invalid input", func(t *testing.T) {
		ctx := context.Background()
		_, err := newHandler().Simulate(ctx, SimulateInput{InitialCapital: 0})
		require.Error(t, err)

		_, err = newHandler().Simulate(ctx, SimulateInput{InitialCapital: 1, CommissionRate: 1})
		require.Error(t, err)

		_, err = newHandler().Simulate(ctx, SimulateInput{InitialCapital: 1})
		require.Error(t, err)

		_, err = newHandler().Simulate(ctx, SimulateInput{
			InitialCapital: 1,
			Prices: []domain.PriceBar{
				bar(d1, "A", 10),
				bar(d1, "A", 11),
			},
		})
		require.Error(t, err)
	})
}
