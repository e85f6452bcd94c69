package l2_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/logger"
	"github.com/lumina333/quant/internal/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func row(date time.Time, symbol string, value, momentum, lowVol float64) domain.FactorRow {
	return domain.FactorRow{
		Date:   date,
		Symbol: symbol,
		Factors: map[string]float64{
			domain.FactorValue:    value,
			domain.FactorMomentum: momentum,
			domain.FactorLowVol:   lowVol,
		},
	}
}

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return logger.NewContext(context.Background(), zap.New(core).Sugar()), logs
}

func Test_portfolioServiceHandler_BuildPortfolio(t *testing.T) {
	d1 := util.NewDate(2024, 1, 2)
	d2 := util.NewDate(2024, 1, 3)
	d3 := util.NewDate(2024, 1, 4)

	t.Run("tie broken by symbol", func(t *testing.T) {
		ctx, _ := observedContext()
		handler := NewPortfolioService()

		// A leads on every factor, B and C end up with the same score
		holdings, err := handler.BuildPortfolio(ctx, BuildPortfolioInput{
			FactorRows: []domain.FactorRow{
				row(d1, "C", 1, 2, 2),
				row(d1, "A", 3, 3, 3),
				row(d1, "B", 2, 1, 2),
			},
			RebalanceDates: []time.Time{d1},
			TopN:           2,
		})
		require.NoError(t, err)

		require.Len(t, holdings, 2)
		require.Equal(t, "A", holdings[0].Symbol)
		require.Equal(t, "B", holdings[1].Symbol)
		require.Equal(t, 0.5, holdings[0].Weight)
		require.Equal(t, 0.5, holdings[1].Weight)
		require.Equal(t, holdings[0].Date, d1)
	})

	t.Run("dates without rows are skipped", func(t *testing.T) {
		ctx, logs := observedContext()
		handler := NewPortfolioService()

		holdings, err := handler.BuildPortfolio(ctx, BuildPortfolioInput{
			FactorRows: []domain.FactorRow{
				row(d1, "A", 1, 1, 1),
				row(d1, "B", 2, 2, 2),
				row(d3, "A", 2, 2, 2),
				row(d3, "B", 1, 1, 1),
			},
			RebalanceDates: []time.Time{d3, d2, d1},
			TopN:           1,
		})
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(domain.HoldingsTable{
			{Date: d1, Symbol: "B", Weight: 1, Score: holdings[0].Score},
			{Date: d3, Symbol: "A", Weight: 1, Score: holdings[1].Score},
		}, holdings))

		skipped := logs.FilterMessage("no factor rows on rebalance date, skipping").All()
		require.Len(t, skipped, 1)
		require.Equal(t, "2024-01-03", skipped[0].ContextMap()["date"])
	})

	t.Run("shortfall holds every scored symbol", func(t *testing.T) {
		ctx, logs := observedContext()
		handler := NewPortfolioService()

		holdings, err := handler.BuildPortfolio(ctx, BuildPortfolioInput{
			FactorRows: []domain.FactorRow{
				row(d1, "A", 1, 1, 1),
				row(d1, "B", 2, 2, 2),
				row(d1, "C", 3, 3, 3),
			},
			RebalanceDates: []time.Time{d1},
			TopN:           10,
		})
		require.NoError(t, err)
		require.Len(t, holdings, 3)
		for _, h := range holdings {
			require.InDelta(t, 1.0/3.0, h.Weight, 1e-12)
		}
		require.InDelta(t, 1.0, holdings.WeightSum()["2024-01-02"], 1e-9)
		require.Equal(t, 1, logs.FilterMessage("fewer scored symbols than requested, holding all of them").Len())
	})

	t.Run("weights sum to one on every date", func(t *testing.T) {
		ctx, _ := observedContext()
		handler := NewPortfolioService()

		rows := []domain.FactorRow{}
		for i, symbol := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
			f := float64(i)
			rows = append(rows, row(d1, symbol, f, -f, f*f))
			rows = append(rows, row(d2, symbol, -f, f, 1))
		}

		holdings, err := handler.BuildPortfolio(ctx, BuildPortfolioInput{
			FactorRows:     rows,
			RebalanceDates: []time.Time{d1, d2},
			TopN:           3,
		})
		require.NoError(t, err)
		sums := holdings.WeightSum()
		require.Len(t, sums, 2)
		for date, sum := range sums {
			require.InDelta(t, 1.0, sum, 1e-9, date)
		}
	})

	t.Run("factor weights flip the ranking", func(t *testing.T) {
		ctx, _ := observedContext()
		handler := NewPortfolioService()

		holdings, err := handler.BuildPortfolio(ctx, BuildPortfolioInput{
			FactorRows: []domain.FactorRow{
				{Date: d1, Symbol: "A", Factors: map[string]float64{"value": 1}},
				{Date: d1, Symbol: "B", Factors: map[string]float64{"value": 2}},
			},
			RebalanceDates: []time.Time{d1},
			TopN:           1,
			FactorNames:    []string{"value"},
			FactorWeights:  map[string]float64{"value": -1},
		})
		require.NoError(t, err)
		require.Len(t, holdings, 1)
		require.Equal(t, "A", holdings[0].Symbol)
	})

	t.Run("expression", func(t *testing.T) {
		ctx, _ := observedContext()
		handler := NewPortfolioService()

		holdings, err := handler.BuildPortfolio(ctx, BuildPortfolioInput{
			FactorRows: []domain.FactorRow{
				row(d1, "A", 1, 3, 0),
				row(d1, "B", 2, 1, 0),
				row(d1, "C", 3, 2, 0),
			},
			RebalanceDates:  []time.Time{d1},
			TopN:            1,
			ScoreExpression: "momentum",
		})
		require.NoError(t, err)
		require.Len(t, holdings, 1)
		require.Equal(t, "A", holdings[0].Symbol)
	})

	t.Run("invalid options", func(t *testing.T) {
		handler := NewPortfolioService()
		ctx := context.Background()

		_, err := handler.BuildPortfolio(ctx, BuildPortfolioInput{TopN: 0})
		require.Error(t, err)

		_, err = handler.BuildPortfolio(ctx, BuildPortfolioInput{
			TopN:          1,
			FactorWeights: map[string]float64{"quality": 1},
		})
		require.Error(t, err)

		_, err = handler.BuildPortfolio(ctx, BuildPortfolioInput{
			TopN:            1,
			FactorWeights:   map[string]float64{"value": 1},
			ScoreExpression: "value",
		})
		require.Error(t, err)
	})

	t.Run("duplicate rows", func(t *testing.T) {
		handler := NewPortfolioService()
		_, err := handler.BuildPortfolio(context.Background(), BuildPortfolioInput{
			FactorRows: []domain.FactorRow{
				row(d1, "A", 1, 1, 1),
				row(d1, "A", 2, 2, 2),
			},
			RebalanceDates: []time.Time{d1},
			TopN:           1,
		})
		require.Error(t, err)
	})
}
