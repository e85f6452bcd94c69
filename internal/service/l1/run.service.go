package l1_service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/lumina333/quant/internal/db/models/postgres/public/model"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/logger"
	"github.com/lumina333/quant/internal/repository"
)

// RunService persists a finished backtest, its holdings, curve and trades
// in a single transaction
type RunService interface {
	Save(ctx context.Context, in SaveRunInput) (*uuid.UUID, error)
}

type runServiceHandler struct {
	Db                         *sql.DB
	BacktestRunRepository      repository.BacktestRunRepository
	PortfolioHoldingRepository repository.PortfolioHoldingRepository
	EquityPointRepository      repository.EquityPointRepository
	BacktestTradeRepository    repository.BacktestTradeRepository
}

func NewRunService(
	db *sql.DB,
	backtestRunRepository repository.BacktestRunRepository,
	portfolioHoldingRepository repository.PortfolioHoldingRepository,
	equityPointRepository repository.EquityPointRepository,
	backtestTradeRepository repository.BacktestTradeRepository,
) RunService {
	return runServiceHandler{
		Db:                         db,
		BacktestRunRepository:      backtestRunRepository,
		PortfolioHoldingRepository: portfolioHoldingRepository,
		EquityPointRepository:      equityPointRepository,
		BacktestTradeRepository:    backtestTradeRepository,
	}
}

type SaveRunInput struct {
	TopN                  int
	RebalanceIntervalDays int
	FactorNames           []string
	ScoreExpression       string
	InitialCapital        float64
	CommissionRate        float64
	BenchmarkSymbol       string
	FinalEquity           float64

	// NaN when the curve was too short
	StrategyReturn  float64
	BenchmarkReturn float64
	ExcessReturn    float64

	Holdings domain.HoldingsTable
	Curve    domain.EquityCurve
	Trades   []domain.Trade
}

func nullableFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func newBacktestRunModel(in SaveRunInput) model.BacktestRun {
	var scoreExpression *string
	if in.ScoreExpression != "" {
		scoreExpression = &in.ScoreExpression
	}
	return model.BacktestRun{
		TopN:                  int32(in.TopN),
		RebalanceIntervalDays: int32(in.RebalanceIntervalDays),
		FactorNames:           strings.Join(in.FactorNames, ","),
		ScoreExpression:       scoreExpression,
		InitialCapital:        in.InitialCapital,
		CommissionRate:        in.CommissionRate,
		BenchmarkSymbol:       in.BenchmarkSymbol,
		FinalEquity:           in.FinalEquity,
		StrategyReturn:        nullableFloat(in.StrategyReturn),
		BenchmarkReturn:       nullableFloat(in.BenchmarkReturn),
		ExcessReturn:          nullableFloat(in.ExcessReturn),
	}
}

func (h runServiceHandler) Save(ctx context.Context, in SaveRunInput) (*uuid.UUID, error) {
	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	run, err := h.BacktestRunRepository.Add(tx, newBacktestRunModel(in))
	if err != nil {
		return nil, err
	}

	err = h.PortfolioHoldingRepository.AddMany(tx, run.BacktestRunID, in.Holdings)
	if err != nil {
		return nil, err
	}

	err = h.EquityPointRepository.AddMany(tx, run.BacktestRunID, in.Curve)
	if err != nil {
		return nil, err
	}

	err = h.BacktestTradeRepository.AddMany(tx, run.BacktestRunID, in.Trades)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit backtest run: %w", err)
	}

	logger.FromContext(ctx).Infow(
		"saved backtest run",
		"backtestRunID", run.BacktestRunID.String(),
		"holdings", len(in.Holdings),
		"equityPoints", len(in.Curve),
		"trades", len(in.Trades),
	)

	return &run.BacktestRunID, nil
}
