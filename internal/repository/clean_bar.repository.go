package repository

import (
	"fmt"

	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

// CleanBarRepository reads the cleaned daily bars joined with valuation
// data that the factor calculator consumes
type CleanBarRepository interface {
	List() ([]domain.CleanBar, error)
}

type cleanBarCsvRow struct {
	TradeDate string  `csv:"trade_date"`
	TsCode    string  `csv:"ts_code"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
	PeTtm     string  `csv:"pe_ttm"`
}

type cleanBarCsvRepositoryHandler struct {
	Path string
}

func NewCleanBarCsvRepository(path string) CleanBarRepository {
	return cleanBarCsvRepositoryHandler{Path: path}
}

func (h cleanBarCsvRepositoryHandler) List() ([]domain.CleanBar, error) {
	rows := []cleanBarCsvRow{}
	if err := readCsvFile(h.Path, &rows); err != nil {
		return nil, err
	}

	out := []domain.CleanBar{}
	for i, row := range rows {
		date, err := util.ParseDate(row.TradeDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse trade_date on row %d: %w", i+1, err)
		}
		peTtm, err := parseOptionalFloat(row.PeTtm)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pe_ttm on row %d: %w", i+1, err)
		}
		out = append(out, domain.CleanBar{
			PriceBar: domain.PriceBar{
				Date:   date,
				Symbol: row.TsCode,
				Open:   row.Open,
				High:   row.High,
				Low:    row.Low,
				Close:  row.Close,
				Volume: row.Volume,
			},
			PeTtm: peTtm,
		})
	}

	return out, nil
}
