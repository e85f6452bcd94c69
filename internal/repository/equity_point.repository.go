package repository

import (
	"database/sql"
	"fmt"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"github.com/lumina333/quant/internal/db/models/postgres/public/model"
	"github.com/lumina333/quant/internal/db/models/postgres/public/table"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

type EquityPointRepository interface {
	AddMany(tx *sql.Tx, backtestRunID uuid.UUID, curve domain.EquityCurve) error
	List(backtestRunID uuid.UUID) (domain.EquityCurve, error)
}

type equityPointRepositoryHandler struct {
	Db *sql.DB
}

func NewEquityPointRepository(db *sql.DB) EquityPointRepository {
	return equityPointRepositoryHandler{Db: db}
}

func (h equityPointRepositoryHandler) AddMany(tx *sql.Tx, backtestRunID uuid.UUID, curve domain.EquityCurve) error {
	if len(curve) == 0 {
		return nil
	}

	models := []model.EquityPoint{}
	for _, point := range curve {
		models = append(models, model.EquityPoint{
			BacktestRunID:   backtestRunID,
			Date:            util.TruncateDate(point.Date),
			StrategyEquity:  point.StrategyEquity,
			BenchmarkEquity: point.BenchmarkEquity,
		})
	}

	for _, batch := range batches(models, insertBatchSize) {
		query := table.EquityPoint.
			INSERT(table.EquityPoint.AllColumns).
			MODELS(batch)

		_, err := query.Exec(tx)
		if err != nil {
			return fmt.Errorf("failed to add equity points to db: %w", err)
		}
	}

	return nil
}

func (h equityPointRepositoryHandler) List(backtestRunID uuid.UUID) (domain.EquityCurve, error) {
	query := table.EquityPoint.SELECT(table.EquityPoint.AllColumns).
		WHERE(table.EquityPoint.BacktestRunID.EQ(postgres.UUID(backtestRunID))).
		ORDER_BY(table.EquityPoint.Date.ASC())

	result := []model.EquityPoint{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list equity points: %w", err)
	}

	out := domain.EquityCurve{}
	for _, m := range result {
		out = append(out, domain.EquityPoint{
			Date:            util.TruncateDate(m.Date),
			StrategyEquity:  m.StrategyEquity,
			BenchmarkEquity: m.BenchmarkEquity,
		})
	}

	return out, nil
}
