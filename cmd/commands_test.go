package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lumina333/quant/internal/app"
	"github.com/lumina333/quant/internal/calculator"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
	"github.com/stretchr/testify/require"
)

func Test_printReport(t *testing.T) {
	t.Run("text summary", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := printReport(buf, &app.RunResult{Report: &app.BacktestReport{
			InitialCapital: 10_000_000,
			FinalEquity:    10_500_000,
			Summary: calculator.Summary{
				StrategyReturn:  5,
				BenchmarkReturn: 2,
				ExcessReturn:    3,
			},
			Warnings: []error{errors.New("skipped 2024-01-03")},
		}})
		require.NoError(t, err)

		out := buf.String()
		require.Contains(t, out, "initial capital:   10000000.00")
		require.Contains(t, out, "final capital:     10500000.00")
		require.Contains(t, out, "excess return:     3.00%")
		require.Contains(t, out, "warning: skipped 2024-01-03")
		require.NotContains(t, out, "sharpe ratio")
	})

	t.Run("json with undefined returns", func(t *testing.T) {
		printJson = true
		defer func() { printJson = false }()

		curve := domain.EquityCurve{
			{Date: util.NewDate(2024, 1, 2), StrategyEquity: 1000, BenchmarkEquity: 1000},
		}
		summary, summaryErr := calculator.Summarize(curve)
		require.Error(t, summaryErr)

		buf := &bytes.Buffer{}
		err := printReport(buf, &app.RunResult{Report: &app.BacktestReport{
			Summary:        summary,
			Curve:          curve,
			InitialCapital: 1000,
			FinalEquity:    1000,
			Warnings:       []error{summaryErr},
		}})
		require.NoError(t, err)

		out := map[string]any{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		require.Nil(t, out["strategyReturn"])
		require.Nil(t, out["excessReturn"])
		require.Nil(t, out["metrics"])
		require.Equal(t, float64(1000), out["finalEquity"])
		require.Len(t, out["warnings"], 1)
	})
}

func Test_rootCmd(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"factors", "portfolio", "backtest", "run", "ingest", "serve"} {
		require.True(t, names[name], name)
	}
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("top-n"))
}
