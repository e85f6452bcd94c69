package cmd

import (
	"database/sql"
	"fmt"

	"github.com/lumina333/quant/api"
	"github.com/lumina333/quant/internal"
	"github.com/lumina333/quant/internal/app"
	"github.com/lumina333/quant/internal/config"
	"github.com/lumina333/quant/internal/repository"
	l1_service "github.com/lumina333/quant/internal/service/l1"
	l2_service "github.com/lumina333/quant/internal/service/l2"
	l3_service "github.com/lumina333/quant/internal/service/l3"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

type Dependencies struct {
	Config   *config.Config
	Db       *sql.DB
	Pipeline app.PipelineHandler

	// csv frames, the source side of ingest
	CsvPriceRepository  repository.PriceRepository
	CsvFactorRepository repository.FactorFrameRepository
	// nil without a database
	DbPriceRepository  repository.PriceRepository
	DbFactorRepository repository.FactorFrameRepository

	ApiHandler *api.ApiHandler
}

func CloseDependencies(deps *Dependencies) error {
	if deps.Db == nil {
		return nil
	}
	if err := deps.Db.Close(); err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	return nil
}

func InitializeDependencies(cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Config:              cfg,
		CsvPriceRepository:  repository.NewPriceCsvRepository(cfg.Data.PriceFile, cfg.Data.BenchmarkFile, cfg.Backtest.BenchmarkSymbol),
		CsvFactorRepository: repository.NewFactorFrameCsvRepository(cfg.Data.FactorFile),
	}

	var (
		runService            l1_service.RunService
		backtestRunRepository repository.BacktestRunRepository
		equityPointRepository repository.EquityPointRepository
	)
	if cfg.UsesDb() {
		dbConn, err := sql.Open("postgres", cfg.Db.ToConnectionStr())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		deps.Db = dbConn
		deps.DbPriceRepository = repository.NewPriceDbRepository(dbConn)
		deps.DbFactorRepository = repository.NewFactorFrameDbRepository(dbConn)

		backtestRunRepository = repository.NewBacktestRunRepository(dbConn)
		equityPointRepository = repository.NewEquityPointRepository(dbConn)
		runService = l1_service.NewRunService(
			dbConn,
			backtestRunRepository,
			repository.NewPortfolioHoldingRepository(dbConn),
			equityPointRepository,
			repository.NewBacktestTradeRepository(dbConn),
		)
	}

	priceRepository := deps.CsvPriceRepository
	factorRepository := deps.CsvFactorRepository
	if cfg.Data.Source == "postgres" {
		priceRepository = deps.DbPriceRepository
		factorRepository = deps.DbFactorRepository
	}

	deps.Pipeline = app.PipelineHandler{
		CleanBarRepository:    repository.NewCleanBarCsvRepository(cfg.Data.CleanDataFile),
		FactorRepository:      factorRepository,
		PriceRepository:       priceRepository,
		HoldingsRepository:    repository.NewHoldingsCsvRepository(cfg.Data.HoldingsFile),
		EquityCurveRepository: repository.NewEquityCurveCsvRepository(cfg.Data.EquityFile),
		PortfolioService:      l2_service.NewPortfolioService(),
		BacktestService:       l3_service.NewBacktestService(l1_service.NewTradeService()),
		RunService:            runService,
	}

	deps.ApiHandler = &api.ApiHandler{
		Pipeline: deps.Pipeline,
		BenchmarkHandler: internal.BenchmarkHandler{
			PriceRepository: priceRepository,
		},
		Defaults:              *cfg,
		BacktestRunRepository: backtestRunRepository,
		EquityPointRepository: equityPointRepository,
		Logger:                zap.S(),
	}

	return deps, nil
}
