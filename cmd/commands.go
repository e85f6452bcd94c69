package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumina333/quant/api"
	"github.com/lumina333/quant/internal"
	"github.com/lumina333/quant/internal/app"
	"github.com/lumina333/quant/internal/config"
	"github.com/lumina333/quant/internal/logger"
	"github.com/lumina333/quant/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	configPath string
	printJson  bool
)

var rootCmd = &cobra.Command{
	Use:           "quant",
	Short:         "Factor portfolio construction and backtesting",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "optional yaml config file")
	flags.BoolVar(&printJson, "json", false, "print results as json")

	flags.Int("top-n", 0, "symbols held per rebalance (default 5)")
	flags.Int("rebalance-days", 0, "calendar days between rebalances (default 3)")
	flags.StringSlice("factors", nil, "factor columns to combine (default value,momentum,low_vol)")
	flags.String("score-expression", "", "expression over factor z-scores, replaces the weighted sum")
	flags.Float64("initial-capital", 0, "starting cash (default 10000000)")
	flags.Float64("commission", 0, "commission rate per trade (default 0.0005)")
	flags.String("benchmark-symbol", "", "index symbol in the price feed (default benchmark)")
	flags.String("source", "", "where frames are read from, csv or postgres (default csv)")
	flags.String("clean-data-file", "", "clean daily bars with pe_ttm")
	flags.String("factor-file", "", "factor frame csv")
	flags.String("price-file", "", "price frame csv")
	flags.String("benchmark-file", "", "separate benchmark csv keyed by date")
	flags.String("holdings-file", "", "holdings csv written by portfolio")
	flags.String("equity-file", "", "equity curve csv written by backtest")
	flags.Bool("persist-runs", false, "save finished runs to postgres")
	flags.Int("port", 0, "api port for serve (default 3009)")

	rootCmd.AddCommand(
		factorsCmd,
		portfolioCmd,
		backtestCmd,
		runCmd,
		ingestCmd,
		serveCmd,
	)
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, zap.S())
	defer zap.S().Sync()

	return rootCmd.ExecuteContext(ctx)
}

// withDependencies loads config from the command's flags and hands the
// wired dependencies to fn
func withDependencies(cmd *cobra.Command, fn func(ctx context.Context, deps *Dependencies) error) error {
	cfg, err := config.Load(config.LoadInput{
		Path:  configPath,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return err
	}

	deps, err := InitializeDependencies(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := CloseDependencies(deps); err != nil {
			logger.FromContext(cmd.Context()).Errorw("failed to close dependencies", "error", err.Error())
		}
	}()

	return fn(cmd.Context(), deps)
}

func portfolioOptions(cfg *config.Config) app.PortfolioOptions {
	return app.PortfolioOptions{
		TopN:                  cfg.Portfolio.TopN,
		RebalanceIntervalDays: cfg.Portfolio.RebalanceIntervalDays,
		FactorNames:           cfg.Portfolio.FactorNames,
		FactorWeights:         cfg.Portfolio.FactorWeights,
		ScoreExpression:       cfg.Portfolio.ScoreExpression,
	}
}

func backtestOptions(cfg *config.Config) app.BacktestOptions {
	return app.BacktestOptions{
		InitialCapital:  cfg.Backtest.InitialCapital,
		CommissionRate:  cfg.Backtest.CommissionRate,
		BenchmarkSymbol: cfg.Backtest.BenchmarkSymbol,
	}
}

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Calculate the factor frame from clean daily bars",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(ctx context.Context, deps *Dependencies) error {
			rows, err := deps.Pipeline.CalculateFactors(ctx, app.CalculateFactorsInput{
				MomentumLookback: deps.Config.Factors.MomentumLookback,
				VolatilityWindow: deps.Config.Factors.VolatilityWindow,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d factor rows to %s\n", len(rows), deps.Config.Data.FactorFile)
			return nil
		})
	},
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Build the holdings table from the factor frame",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(ctx context.Context, deps *Dependencies) error {
			result, err := deps.Pipeline.ConstructPortfolio(ctx, portfolioOptions(deps.Config))
			if err != nil {
				return err
			}
			if printJson {
				return util.Pprint(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(
				cmd.OutOrStdout(),
				"wrote %d holdings over %d rebalance dates to %s\n",
				len(result.Holdings),
				len(result.RebalanceDates),
				deps.Config.Data.HoldingsFile,
			)
			return nil
		})
	},
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Simulate the saved holdings table against the price feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(ctx context.Context, deps *Dependencies) error {
			report, err := deps.Pipeline.Backtest(ctx, backtestOptions(deps.Config), nil)
			if report != nil {
				if printErr := printReport(cmd.OutOrStdout(), &app.RunResult{Report: report}); printErr != nil {
					return multierr.Append(err, printErr)
				}
			}
			return err
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Construct the portfolio and backtest it in one go",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(ctx context.Context, deps *Dependencies) error {
			result, err := deps.Pipeline.Run(ctx, app.RunInput{
				Portfolio: portfolioOptions(deps.Config),
				Backtest:  backtestOptions(deps.Config),
			})
			if result != nil && result.Report != nil {
				if printErr := printReport(cmd.OutOrStdout(), result); printErr != nil {
					return multierr.Append(err, printErr)
				}
			}
			return err
		})
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Copy the csv price and factor frames into postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(ctx context.Context, deps *Dependencies) error {
			if deps.Db == nil {
				return fmt.Errorf("ingest needs a database, set --source=postgres or --persist-runs")
			}
			result, err := internal.IngestFrames(ctx, internal.IngestInput{
				PriceSource:       deps.CsvPriceRepository,
				PriceDestination:  deps.DbPriceRepository,
				FactorSource:      deps.CsvFactorRepository,
				FactorDestination: deps.DbFactorRepository,
			})
			if result != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "ingested %d price bars and %d factor rows\n", result.PriceBars, result.FactorRows)
			}
			return err
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio and backtest api",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(ctx context.Context, deps *Dependencies) error {
			logger.FromContext(ctx).Infow("starting api", "port", deps.Config.Api.Port)
			return deps.ApiHandler.StartApi(deps.Config.Api.Port)
		})
	},
}

func printReport(w io.Writer, result *app.RunResult) error {
	if printJson {
		return util.Pprint(w, api.NewBacktestResponse(result))
	}

	report := result.Report

	fmt.Fprintf(w, "initial capital:   %.2f\n", report.InitialCapital)
	fmt.Fprintf(w, "final capital:     %.2f\n", report.FinalEquity)
	fmt.Fprintf(w, "strategy return:   %.2f%%\n", report.Summary.StrategyReturn)
	fmt.Fprintf(w, "benchmark return:  %.2f%%\n", report.Summary.BenchmarkReturn)
	fmt.Fprintf(w, "excess return:     %.2f%%\n", report.Summary.ExcessReturn)
	if report.Metrics != nil {
		fmt.Fprintf(w, "annualized return: %.4f\n", report.Metrics.AnnualizedReturn)
		fmt.Fprintf(w, "sharpe ratio:      %.4f\n", report.Metrics.SharpeRatio)
		fmt.Fprintf(w, "max drawdown:      %.4f\n", report.Metrics.MaxDrawdown)
	}
	fmt.Fprintf(w, "trades:            %d\n", len(report.Trades))
	if report.BacktestRunID != nil {
		fmt.Fprintf(w, "run id:            %s\n", report.BacktestRunID.String())
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning.Error())
	}
	return nil
}
