package repository

import (
	"fmt"

	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

// HoldingsRepository persists the target holdings table between the
// portfolio and backtest steps
type HoldingsRepository interface {
	List() (domain.HoldingsTable, error)
	Add(domain.HoldingsTable) error
}

type holdingsCsvRow struct {
	TsCode    string  `csv:"ts_code"`
	TradeDate string  `csv:"trade_date"`
	Weight    float64 `csv:"weight"`
}

type holdingsCsvRepositoryHandler struct {
	Path string
}

func NewHoldingsCsvRepository(path string) HoldingsRepository {
	return holdingsCsvRepositoryHandler{Path: path}
}

func (h holdingsCsvRepositoryHandler) List() (domain.HoldingsTable, error) {
	rows := []holdingsCsvRow{}
	if err := readCsvFile(h.Path, &rows); err != nil {
		return nil, err
	}

	out := domain.HoldingsTable{}
	for i, row := range rows {
		date, err := util.ParseDate(row.TradeDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse trade_date on row %d: %w", i+1, err)
		}
		if row.Weight <= 0 || row.Weight > 1 {
			return nil, fmt.Errorf("invalid weight %f for %s on row %d", row.Weight, row.TsCode, i+1)
		}
		out = append(out, domain.HoldingEntry{
			Date:   date,
			Symbol: row.TsCode,
			Weight: row.Weight,
		})
	}
	out.Sort()

	return out, nil
}

func (h holdingsCsvRepositoryHandler) Add(holdings domain.HoldingsTable) error {
	rows := []holdingsCsvRow{}
	for _, e := range holdings {
		rows = append(rows, holdingsCsvRow{
			TsCode:    e.Symbol,
			TradeDate: util.DateKey(e.Date),
			Weight:    e.Weight,
		})
	}
	return writeCsvFile(h.Path, &rows)
}
