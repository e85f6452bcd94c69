package l1_service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_newBacktestRunModel(t *testing.T) {
	t.Run("NaN returns become null", func(t *testing.T) {
		m := newBacktestRunModel(SaveRunInput{
			TopN:                  10,
			RebalanceIntervalDays: 30,
			FactorNames:           []string{"value", "momentum"},
			InitialCapital:        1000,
			StrategyReturn:        math.NaN(),
			BenchmarkReturn:       math.NaN(),
			ExcessReturn:          math.NaN(),
		})
		require.Equal(t, int32(10), m.TopN)
		require.Equal(t, "value,momentum", m.FactorNames)
		require.Nil(t, m.ScoreExpression)
		require.Nil(t, m.StrategyReturn)
		require.Nil(t, m.BenchmarkReturn)
		require.Nil(t, m.ExcessReturn)
	})

	t.Run("returns and expression kept", func(t *testing.T) {
		m := newBacktestRunModel(SaveRunInput{
			ScoreExpression: "value + momentum",
			StrategyReturn:  10,
			BenchmarkReturn: 5,
			ExcessReturn:    5,
		})
		require.Equal(t, "value + momentum", *m.ScoreExpression)
		require.Equal(t, float64(10), *m.StrategyReturn)
		require.Equal(t, float64(5), *m.ExcessReturn)
	})
}
