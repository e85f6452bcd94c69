package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumina333/quant/internal/calculator"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/logger"
	"github.com/lumina333/quant/internal/repository"
	l1_service "github.com/lumina333/quant/internal/service/l1"
	l2_service "github.com/lumina333/quant/internal/service/l2"
	l3_service "github.com/lumina333/quant/internal/service/l3"
	"go.uber.org/multierr"
)

// PipelineHandler runs the research steps end to end: factors, portfolio
// construction, simulation and reporting. Repositories left nil are
// skipped on the write side.
type PipelineHandler struct {
	CleanBarRepository    repository.CleanBarRepository
	FactorRepository      repository.FactorFrameRepository
	PriceRepository       repository.PriceRepository
	HoldingsRepository    repository.HoldingsRepository
	EquityCurveRepository repository.EquityCurveRepository

	PortfolioService l2_service.PortfolioService
	BacktestService  l3_service.BacktestService
	// optional, saves finished runs to postgres
	RunService l1_service.RunService
}

type CalculateFactorsInput struct {
	MomentumLookback int
	VolatilityWindow int
}

// CalculateFactors derives the factor frame from cleaned bars and writes it
// through the factor repository
func (h PipelineHandler) CalculateFactors(ctx context.Context, in CalculateFactorsInput) ([]domain.FactorRow, error) {
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	_, endSpan := profile.StartNewSpan("loading clean bars")
	bars, err := h.CleanBarRepository.List()
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to load clean bars: %w", err)
	}

	_, endSpan = profile.StartNewSpan("calculating factors")
	rows, err := l1_service.CalculateFactors(l1_service.CalculateFactorsInput{
		Bars:             bars,
		MomentumLookback: in.MomentumLookback,
		VolatilityWindow: in.VolatilityWindow,
	})
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to calculate factors: %w", err)
	}

	err = h.FactorRepository.Add(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to save factor frame: %w", err)
	}

	logger.FromContext(ctx).Infow(
		"factors calculated",
		"bars", len(bars),
		"rows", len(rows),
	)

	return rows, nil
}

type PortfolioOptions struct {
	TopN                  int
	RebalanceIntervalDays int
	FactorNames           []string
	FactorWeights         map[string]float64
	ScoreExpression       string
}

type ConstructPortfolioResult struct {
	RebalanceDates []time.Time
	Holdings       domain.HoldingsTable
}

// ConstructPortfolio loads the factor frame, schedules rebalances over its
// date range and builds the holdings table
func (h PipelineHandler) ConstructPortfolio(ctx context.Context, in PortfolioOptions) (*ConstructPortfolioResult, error) {
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	_, endSpan := profile.StartNewSpan("loading factor frame")
	rows, err := h.FactorRepository.List()
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to load factor frame: %w", err)
	}

	dates, err := l1_service.RebalanceDatesFromFactors(rows, in.RebalanceIntervalDays)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rebalance dates: %w", err)
	}

	_, endSpan = profile.StartNewSpan("building portfolio")
	holdings, err := h.PortfolioService.BuildPortfolio(ctx, l2_service.BuildPortfolioInput{
		FactorRows:      rows,
		RebalanceDates:  dates,
		TopN:            in.TopN,
		FactorNames:     in.FactorNames,
		FactorWeights:   in.FactorWeights,
		ScoreExpression: in.ScoreExpression,
	})
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to build portfolio: %w", err)
	}

	if h.HoldingsRepository != nil {
		err = h.HoldingsRepository.Add(holdings)
		if err != nil {
			return nil, fmt.Errorf("failed to save holdings: %w", err)
		}
	}

	return &ConstructPortfolioResult{
		RebalanceDates: dates,
		Holdings:       holdings,
	}, nil
}

type BacktestOptions struct {
	InitialCapital  float64
	CommissionRate  float64
	BenchmarkSymbol string
}

type BacktestReport struct {
	BacktestRunID *uuid.UUID
	Summary       calculator.Summary
	// nil when the curve is too short to annualize
	Metrics        *calculator.CalculateMetricsResult
	Curve          domain.EquityCurve
	Normalized     []domain.NormalizedEquityPoint
	Trades         []domain.Trade
	FinalAccount   *domain.Account
	InitialCapital float64
	FinalEquity    float64
	Warnings       []error
}

// Backtest replays holdings against the price feed and reports. when
// holdings is nil they are read from the holdings repository. a fatal
// simulation error still returns the partial report.
func (h PipelineHandler) Backtest(ctx context.Context, in BacktestOptions, holdings domain.HoldingsTable) (*BacktestReport, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	if holdings == nil {
		if h.HoldingsRepository == nil {
			return nil, fmt.Errorf("no holdings given and no holdings repository configured")
		}
		var err error
		holdings, err = h.HoldingsRepository.List()
		if err != nil {
			return nil, fmt.Errorf("failed to load holdings: %w", err)
		}
	}

	_, endSpan := profile.StartNewSpan("loading prices")
	prices, err := h.PriceRepository.List()
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	_, endSpan = profile.StartNewSpan("simulating")
	result, simErr := h.BacktestService.Simulate(ctx, l3_service.SimulateInput{
		Prices:          prices,
		Holdings:        holdings,
		InitialCapital:  in.InitialCapital,
		CommissionRate:  in.CommissionRate,
		BenchmarkSymbol: in.BenchmarkSymbol,
	})
	endSpan()
	if result == nil {
		return nil, fmt.Errorf("failed to simulate: %w", simErr)
	}

	report := &BacktestReport{
		Curve:          result.Curve,
		Trades:         result.Trades,
		FinalAccount:   result.FinalAccount,
		InitialCapital: result.InitialCapital,
		FinalEquity:    result.FinalEquity,
		Warnings:       multierr.Errors(result.Warnings),
	}

	summary, err := calculator.Summarize(result.Curve)
	report.Summary = summary
	insufficientDataErr := &domain.InsufficientDataError{}
	if errors.As(err, &insufficientDataErr) {
		log.Warnw("returns not computed", "error", err.Error())
		report.Warnings = append(report.Warnings, err)
	} else if err != nil {
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}

	metrics, err := calculator.CalculateMetrics(result.Curve)
	if err == nil {
		report.Metrics = metrics
	} else if !errors.As(err, &insufficientDataErr) {
		return nil, fmt.Errorf("failed to calculate metrics: %w", err)
	}

	normalized, err := calculator.NormalizeCurve(result.Curve)
	if err != nil {
		log.Warnw("curve not normalized", "error", err.Error())
	} else {
		report.Normalized = normalized
		if h.EquityCurveRepository != nil {
			err = h.EquityCurveRepository.Add(result.Curve, normalized)
			if err != nil {
				return nil, fmt.Errorf("failed to save equity curve: %w", err)
			}
		}
	}

	if simErr != nil {
		return report, fmt.Errorf("failed to simulate: %w", simErr)
	}

	log.Infow(
		"backtest complete",
		"initialCapital", report.InitialCapital,
		"finalEquity", report.FinalEquity,
		"strategyReturn", summary.StrategyReturn,
		"benchmarkReturn", summary.BenchmarkReturn,
		"excessReturn", summary.ExcessReturn,
		"warnings", len(report.Warnings),
	)

	return report, nil
}

type RunInput struct {
	Portfolio PortfolioOptions
	Backtest  BacktestOptions
}

type RunResult struct {
	RebalanceDates []time.Time
	Holdings       domain.HoldingsTable
	Report         *BacktestReport
}

// Run constructs the portfolio, backtests it, and saves the run when a
// run service is configured
func (h PipelineHandler) Run(ctx context.Context, in RunInput) (*RunResult, error) {
	profile, endProfile := domain.NewProfile()
	ctx = domain.NewCtxWithProfile(ctx, profile)

	portfolio, err := h.ConstructPortfolio(ctx, in.Portfolio)
	if err != nil {
		return nil, err
	}

	report, err := h.Backtest(ctx, in.Backtest, portfolio.Holdings)
	out := &RunResult{
		RebalanceDates: portfolio.RebalanceDates,
		Holdings:       portfolio.Holdings,
		Report:         report,
	}
	if err != nil {
		return out, err
	}

	if h.RunService != nil {
		_, endSpan := profile.StartNewSpan("saving run")
		runID, err := h.RunService.Save(ctx, l1_service.SaveRunInput{
			TopN:                  in.Portfolio.TopN,
			RebalanceIntervalDays: in.Portfolio.RebalanceIntervalDays,
			FactorNames:           in.Portfolio.FactorNames,
			ScoreExpression:       in.Portfolio.ScoreExpression,
			InitialCapital:        in.Backtest.InitialCapital,
			CommissionRate:        in.Backtest.CommissionRate,
			BenchmarkSymbol:       in.Backtest.BenchmarkSymbol,
			FinalEquity:           report.FinalEquity,
			StrategyReturn:        report.Summary.StrategyReturn,
			BenchmarkReturn:       report.Summary.BenchmarkReturn,
			ExcessReturn:          report.Summary.ExcessReturn,
			Holdings:              portfolio.Holdings,
			Curve:                 report.Curve,
			Trades:                report.Trades,
		})
		endSpan()
		if err != nil {
			return out, fmt.Errorf("failed to save run: %w", err)
		}
		report.BacktestRunID = runID
	}

	endProfile()
	if profileBytes, err := profile.ToJsonBytes(); err == nil {
		logger.FromContext(ctx).Debugw("run profile", "profile", string(profileBytes))
	}

	return out, nil
}
