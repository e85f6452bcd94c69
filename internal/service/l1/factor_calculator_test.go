package l1_service

import (
	"math"
	"testing"

	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
	"github.com/stretchr/testify/require"
)

func newCleanBars(symbol string, pe *float64, closes ...float64) []domain.CleanBar {
	out := []domain.CleanBar{}
	for i, c := range closes {
		out = append(out, domain.CleanBar{
			PriceBar: domain.PriceBar{
				Date:   util.NewDate(2024, 1, 1).AddDate(0, 0, i),
				Symbol: symbol,
				Close:  c,
			},
			PeTtm: pe,
		})
	}
	return out
}

func TestCalculateFactors(t *testing.T) {
	t.Run("factors from a short history", func(t *testing.T) {
		bars := newCleanBars("AAA", util.FloatPointer(20), 100, 101, 99, 104, 103)

		rows, err := CalculateFactors(CalculateFactorsInput{
			Bars:             bars,
			MomentumLookback: 2,
			VolatilityWindow: 2,
		})
		require.NoError(t, err)
		// first row needs both two closes back and two returns
		require.Len(t, rows, 3)

		first := rows[0]
		require.Equal(t, util.NewDate(2024, 1, 3), first.Date)
		require.InDelta(t, 0.05, first.Factors[domain.FactorValue], 1e-12)
		require.InDelta(t, math.Log(99.0/100.0), first.Factors[domain.FactorMomentum], 1e-12)

		r1 := 101.0/100.0 - 1
		r2 := 99.0/101.0 - 1
		mean := (r1 + r2) / 2
		expectedStdev := math.Sqrt(((r1-mean)*(r1-mean) + (r2-mean)*(r2-mean)) / 1)
		require.InDelta(t, -expectedStdev, first.Factors[domain.FactorLowVol], 1e-12)
	})

	t.Run("non positive pe is dropped", func(t *testing.T) {
		bars := newCleanBars("AAA", util.FloatPointer(-3), 100, 101, 99, 104, 103)
		rows, err := CalculateFactors(CalculateFactorsInput{
			Bars:             bars,
			MomentumLookback: 2,
			VolatilityWindow: 2,
		})
		require.NoError(t, err)
		require.Empty(t, rows)
	})

	t.Run("histories are kept per symbol", func(t *testing.T) {
		bars := append(
			newCleanBars("BBB", util.FloatPointer(10), 50, 50, 50),
			newCleanBars("AAA", util.FloatPointer(10), 10, 11, 12)...,
		)
		rows, err := CalculateFactors(CalculateFactorsInput{
			Bars:             bars,
			MomentumLookback: 2,
			VolatilityWindow: 2,
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "AAA", rows[0].Symbol)
		require.Equal(t, "BBB", rows[1].Symbol)
		require.InDelta(t, math.Log(12.0/10.0), rows[0].Factors[domain.FactorMomentum], 1e-12)
		require.Equal(t, float64(0), rows[1].Factors[domain.FactorMomentum])
		require.Equal(t, float64(0), rows[1].Factors[domain.FactorLowVol])
	})

	t.Run("invalid windows", func(t *testing.T) {
		_, err := CalculateFactors(CalculateFactorsInput{VolatilityWindow: 1})
		require.Error(t, err)
	})
}
