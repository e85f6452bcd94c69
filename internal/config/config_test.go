package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lumina333/quant/internal/domain"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("top-n", 5, "")
	flags.Float64("commission", 0.0005, "")
	flags.String("source", "csv", "")
	return flags
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(LoadInput{})
		require.NoError(t, err)
		require.Equal(t, 5, cfg.Portfolio.TopN)
		require.Equal(t, 3, cfg.Portfolio.RebalanceIntervalDays)
		require.Equal(t, domain.DefaultFactorNames(), cfg.Portfolio.FactorNames)
		require.Equal(t, float64(10_000_000), cfg.Backtest.InitialCapital)
		require.Equal(t, 0.0005, cfg.Backtest.CommissionRate)
		require.Equal(t, domain.BenchmarkSymbol, cfg.Backtest.BenchmarkSymbol)
		require.Equal(t, "csv", cfg.Data.Source)
		require.Equal(t, "data/clean_data.csv", cfg.Data.PriceFile)
		require.False(t, cfg.UsesDb())
	})

	t.Run("file then flags", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "quant.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
portfolio:
  top_n: 20
  rebalance_interval_days: 7
  factor_weights:
    value: 2
backtest:
  commission_rate: 0.001
db:
  host: db.internal
  enable_ssl: true
`), 0o644))

		flags := newFlagSet()
		require.NoError(t, flags.Parse([]string{"--top-n=8"}))

		cfg, err := Load(LoadInput{Path: path, Flags: flags})
		require.NoError(t, err)
		require.Equal(t, 8, cfg.Portfolio.TopN)
		require.Equal(t, 7, cfg.Portfolio.RebalanceIntervalDays)
		require.Equal(t, map[string]float64{"value": 2}, cfg.Portfolio.FactorWeights)
		require.Equal(t, 0.001, cfg.Backtest.CommissionRate)
		require.Equal(t, "host=db.internal port=5432 user=postgres password= dbname=postgres sslmode=require", cfg.Db.ToConnectionStr())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(LoadInput{Path: filepath.Join(t.TempDir(), "nope.yaml")})
		require.Error(t, err)
	})

	t.Run("invalid flag values", func(t *testing.T) {
		flags := newFlagSet()
		require.NoError(t, flags.Parse([]string{"--top-n=0", "--commission=1", "--source=s3"}))

		_, err := Load(LoadInput{Flags: flags})
		require.Error(t, err)
		require.Len(t, multierr.Errors(errors.Unwrap(err)), 3)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Portfolio: Portfolio{
				TopN:                  5,
				RebalanceIntervalDays: 3,
				FactorNames:           domain.DefaultFactorNames(),
			},
			Factors: Factors{
				MomentumLookback: 10,
				VolatilityWindow: 10,
			},
			Backtest: Backtest{
				InitialCapital:  1000,
				CommissionRate:  0,
				BenchmarkSymbol: domain.BenchmarkSymbol,
			},
			Data: Data{Source: "postgres"},
			Api:  Api{Port: 3009},
		}
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
		require.True(t, cfg.UsesDb())
	})

	t.Run("negative capital", func(t *testing.T) {
		cfg := valid()
		cfg.Backtest.InitialCapital = -1
		err := cfg.Validate()
		errs := multierr.Errors(err)
		require.Len(t, errs, 1)

		var fieldErr validator.FieldError
		require.True(t, errors.As(errs[0], &fieldErr))
		require.Equal(t, "InitialCapital", fieldErr.Field())
	})

	t.Run("weights for unknown factor", func(t *testing.T) {
		cfg := valid()
		cfg.Portfolio.FactorWeights = map[string]float64{"quality": 1}
		require.Error(t, cfg.Validate())
	})

	t.Run("weights and expression together", func(t *testing.T) {
		cfg := valid()
		cfg.Portfolio.FactorWeights = map[string]float64{"value": 1}
		cfg.Portfolio.ScoreExpression = "value"
		require.Error(t, cfg.Validate())
	})
}
