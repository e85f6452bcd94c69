package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"github.com/lumina333/quant/internal/db/models/postgres/public/model"
	"github.com/lumina333/quant/internal/db/models/postgres/public/table"
)

type BacktestRunRepository interface {
	Add(tx *sql.Tx, run model.BacktestRun) (*model.BacktestRun, error)
	Get(backtestRunID uuid.UUID) (*model.BacktestRun, error)
	List(limit int64) ([]model.BacktestRun, error)
}

type backtestRunRepositoryHandler struct {
	Db *sql.DB
}

func NewBacktestRunRepository(db *sql.DB) BacktestRunRepository {
	return backtestRunRepositoryHandler{Db: db}
}

func (h backtestRunRepositoryHandler) Add(tx *sql.Tx, run model.BacktestRun) (*model.BacktestRun, error) {
	if run.BacktestRunID == uuid.Nil {
		run.BacktestRunID = uuid.New()
	}
	run.CreatedAt = time.Now().UTC()

	query := table.BacktestRun.
		INSERT(table.BacktestRun.AllColumns).
		MODEL(run).
		RETURNING(table.BacktestRun.AllColumns)

	out := model.BacktestRun{}
	err := query.Query(tx, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert backtest run: %w", err)
	}

	return &out, nil
}

func (h backtestRunRepositoryHandler) Get(backtestRunID uuid.UUID) (*model.BacktestRun, error) {
	query := table.BacktestRun.SELECT(table.BacktestRun.AllColumns).
		WHERE(table.BacktestRun.BacktestRunID.EQ(postgres.UUID(backtestRunID)))

	out := model.BacktestRun{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to get backtest run %s: %w", backtestRunID.String(), err)
	}

	return &out, nil
}

func (h backtestRunRepositoryHandler) List(limit int64) ([]model.BacktestRun, error) {
	query := table.BacktestRun.SELECT(table.BacktestRun.AllColumns).
		ORDER_BY(table.BacktestRun.CreatedAt.DESC()).
		LIMIT(limit)

	out := []model.BacktestRun{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list backtest runs: %w", err)
	}

	return out, nil
}
