package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lumina333/quant/internal/db/models/postgres/public/model"
	"github.com/lumina333/quant/internal/db/models/postgres/public/table"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

type BacktestTradeRepository interface {
	AddMany(tx *sql.Tx, backtestRunID uuid.UUID, trades []domain.Trade) error
}

type backtestTradeRepositoryHandler struct {
	Db *sql.DB
}

func NewBacktestTradeRepository(db *sql.DB) BacktestTradeRepository {
	return backtestTradeRepositoryHandler{Db: db}
}

func backtestTradeModels(backtestRunID uuid.UUID, trades []domain.Trade) []model.BacktestTrade {
	models := []model.BacktestTrade{}
	for i, t := range trades {
		side := model.TradeSide_Buy
		if t.Side == domain.TradeSide_Sell {
			side = model.TradeSide_Sell
		}
		models = append(models, model.BacktestTrade{
			BacktestRunID: backtestRunID,
			Ordinal:       int32(i),
			Date:          util.TruncateDate(t.Date),
			Symbol:        t.Symbol,
			Side:          side,
			Quantity:      t.Quantity,
			Price:         t.Price.InexactFloat64(),
			Commission:    t.Commission.InexactFloat64(),
		})
	}
	return models
}

func (h backtestTradeRepositoryHandler) AddMany(tx *sql.Tx, backtestRunID uuid.UUID, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	for _, batch := range batches(backtestTradeModels(backtestRunID, trades), insertBatchSize) {
		query := table.BacktestTrade.
			INSERT(table.BacktestTrade.AllColumns).
			MODELS(batch)

		_, err := query.Exec(tx)
		if err != nil {
			return fmt.Errorf("failed to add backtest trades to db: %w", err)
		}
	}

	return nil
}
