package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lumina333/quant/internal/domain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

type Config struct {
	Portfolio Portfolio `mapstructure:"portfolio"`
	Factors   Factors   `mapstructure:"factors"`
	Backtest  Backtest  `mapstructure:"backtest"`
	Data      Data      `mapstructure:"data"`
	Db        Database  `mapstructure:"db"`
	Api       Api       `mapstructure:"api"`
}

type Portfolio struct {
	TopN                  int                `mapstructure:"top_n" validate:"gte=1"`
	RebalanceIntervalDays int                `mapstructure:"rebalance_interval_days" validate:"gte=1"`
	FactorNames           []string           `mapstructure:"factor_names" validate:"required,dive,required"`
	FactorWeights         map[string]float64 `mapstructure:"factor_weights"`
	ScoreExpression       string             `mapstructure:"score_expression"`
}

type Factors struct {
	MomentumLookback int `mapstructure:"momentum_lookback" validate:"gte=1"`
	VolatilityWindow int `mapstructure:"volatility_window" validate:"gte=2"`
}

type Backtest struct {
	InitialCapital  float64 `mapstructure:"initial_capital" validate:"gt=0"`
	CommissionRate  float64 `mapstructure:"commission_rate" validate:"gte=0,lt=1"`
	BenchmarkSymbol string  `mapstructure:"benchmark_symbol" validate:"required"`
}

type Data struct {
	Source        string `mapstructure:"source" validate:"oneof=csv postgres"`
	CleanDataFile string `mapstructure:"clean_data_file"`
	FactorFile    string `mapstructure:"factor_file"`
	PriceFile     string `mapstructure:"price_file"`
	BenchmarkFile string `mapstructure:"benchmark_file"`
	HoldingsFile  string `mapstructure:"holdings_file"`
	EquityFile    string `mapstructure:"equity_file"`
	// also write run results to postgres when the source is csv
	PersistRuns bool `mapstructure:"persist_runs"`
}

type Database struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	EnableSsl bool   `mapstructure:"enable_ssl"`
}

type Api struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

func (d Database) ToConnectionStr() string {
	sslMode := "disable"
	if d.EnableSsl {
		sslMode = "require"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Database,
		sslMode,
	)
}

// UsesDb is true when any step reads or writes postgres
func (c Config) UsesDb() bool {
	return c.Data.Source == "postgres" || c.Data.PersistRuns
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("portfolio.top_n", 5)
	v.SetDefault("portfolio.rebalance_interval_days", 3)
	v.SetDefault("portfolio.factor_names", domain.DefaultFactorNames())

	v.SetDefault("factors.momentum_lookback", 10)
	v.SetDefault("factors.volatility_window", 10)

	v.SetDefault("backtest.initial_capital", 10_000_000)
	v.SetDefault("backtest.commission_rate", 0.0005)
	v.SetDefault("backtest.benchmark_symbol", domain.BenchmarkSymbol)

	v.SetDefault("data.source", "csv")
	v.SetDefault("data.clean_data_file", "data/clean_data.csv")
	v.SetDefault("data.factor_file", "data/factor_data.csv")
	v.SetDefault("data.price_file", "data/clean_data.csv")
	v.SetDefault("data.benchmark_file", "data/benchmark.csv")
	v.SetDefault("data.holdings_file", "data/portfolio_holding.csv")
	v.SetDefault("data.equity_file", "data/equity_curve.csv")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.database", "postgres")

	v.SetDefault("api.port", 3009)
}

// flag name -> config key
var flagKeys = map[string]string{
	"top-n":            "portfolio.top_n",
	"rebalance-days":   "portfolio.rebalance_interval_days",
	"factors":          "portfolio.factor_names",
	"score-expression": "portfolio.score_expression",
	"initial-capital":  "backtest.initial_capital",
	"commission":       "backtest.commission_rate",
	"benchmark-symbol": "backtest.benchmark_symbol",
	"source":           "data.source",
	"clean-data-file":  "data.clean_data_file",
	"factor-file":      "data.factor_file",
	"price-file":       "data.price_file",
	"benchmark-file":   "data.benchmark_file",
	"holdings-file":    "data.holdings_file",
	"equity-file":      "data.equity_file",
	"persist-runs":     "data.persist_runs",
	"port":             "api.port",
}

type LoadInput struct {
	// optional yaml file
	Path  string
	Flags *pflag.FlagSet
}

// Load layers defaults, the optional yaml file and any flags that were
// set, then validates the result
func Load(in LoadInput) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if in.Path != "" {
		v.SetConfigFile(in.Path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", in.Path, err)
		}
	}

	if in.Flags != nil {
		for name, key := range flagKeys {
			flag := in.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c Config) Validate() error {
	var errs error

	err := validator.New().Struct(c)
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			errs = multierr.Append(errs, fieldErr)
		}
	} else if err != nil {
		errs = multierr.Append(errs, err)
	}

	known := map[string]bool{}
	for _, name := range c.Portfolio.FactorNames {
		known[name] = true
	}
	for name := range c.Portfolio.FactorWeights {
		if !known[name] {
			errs = multierr.Append(errs, fmt.Errorf("factor_weights has unknown factor %s", name))
		}
	}
	if len(c.Portfolio.FactorWeights) > 0 && c.Portfolio.ScoreExpression != "" {
		errs = multierr.Append(errs, fmt.Errorf("factor_weights and score_expression cannot both be set"))
	}

	return errs
}
