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

type PortfolioHoldingRepository interface {
	AddMany(tx *sql.Tx, backtestRunID uuid.UUID, holdings domain.HoldingsTable) error
	List(backtestRunID uuid.UUID) (domain.HoldingsTable, error)
}

type portfolioHoldingRepositoryHandler struct {
	Db *sql.DB
}

func NewPortfolioHoldingRepository(db *sql.DB) PortfolioHoldingRepository {
	return portfolioHoldingRepositoryHandler{Db: db}
}

func (h portfolioHoldingRepositoryHandler) AddMany(tx *sql.Tx, backtestRunID uuid.UUID, holdings domain.HoldingsTable) error {
	if len(holdings) == 0 {
		return nil
	}

	models := []model.PortfolioHolding{}
	for _, e := range holdings {
		models = append(models, model.PortfolioHolding{
			BacktestRunID: backtestRunID,
			Date:          util.TruncateDate(e.Date),
			Symbol:        e.Symbol,
			Weight:        e.Weight,
			Score:         e.Score,
		})
	}

	for _, batch := range batches(models, insertBatchSize) {
		query := table.PortfolioHolding.
			INSERT(table.PortfolioHolding.AllColumns).
			MODELS(batch)

		_, err := query.Exec(tx)
		if err != nil {
			return fmt.Errorf("failed to add portfolio holdings to db: %w", err)
		}
	}

	return nil
}

func (h portfolioHoldingRepositoryHandler) List(backtestRunID uuid.UUID) (domain.HoldingsTable, error) {
	query := table.PortfolioHolding.SELECT(table.PortfolioHolding.AllColumns).
		WHERE(table.PortfolioHolding.BacktestRunID.EQ(postgres.UUID(backtestRunID))).
		ORDER_BY(
			table.PortfolioHolding.Date.ASC(),
			table.PortfolioHolding.Symbol.ASC(),
		)

	result := []model.PortfolioHolding{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio holdings: %w", err)
	}

	out := domain.HoldingsTable{}
	for _, m := range result {
		out = append(out, domain.HoldingEntry{
			Date:   util.TruncateDate(m.Date),
			Symbol: m.Symbol,
			Weight: m.Weight,
			Score:  m.Score,
		})
	}

	return out, nil
}
