package repository

import (
	"fmt"

	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

// EquityCurveRepository exports the simulated curve next to its
// normalized (start = 100) form
type EquityCurveRepository interface {
	Add(curve domain.EquityCurve, normalized []domain.NormalizedEquityPoint) error
	List() (domain.EquityCurve, error)
}

type equityCurveCsvRow struct {
	TradeDate           string  `csv:"trade_date"`
	StrategyValue       float64 `csv:"strategy_value"`
	BenchmarkValue      float64 `csv:"benchmark_value"`
	StrategyNormalized  float64 `csv:"strategy_normalized"`
	BenchmarkNormalized float64 `csv:"benchmark_normalized"`
	Excess              float64 `csv:"excess"`
}

type equityCurveCsvRepositoryHandler struct {
	Path string
}

func NewEquityCurveCsvRepository(path string) EquityCurveRepository {
	return equityCurveCsvRepositoryHandler{Path: path}
}

func (h equityCurveCsvRepositoryHandler) Add(curve domain.EquityCurve, normalized []domain.NormalizedEquityPoint) error {
	if len(curve) != len(normalized) {
		return fmt.Errorf("curve has %d points but normalized curve has %d", len(curve), len(normalized))
	}

	rows := []equityCurveCsvRow{}
	for i, point := range curve {
		rows = append(rows, equityCurveCsvRow{
			TradeDate:           util.DateKey(point.Date),
			StrategyValue:       point.StrategyEquity,
			BenchmarkValue:      point.BenchmarkEquity,
			StrategyNormalized:  normalized[i].Strategy,
			BenchmarkNormalized: normalized[i].Benchmark,
			Excess:              normalized[i].Excess,
		})
	}
	return writeCsvFile(h.Path, &rows)
}

func (h equityCurveCsvRepositoryHandler) List() (domain.EquityCurve, error) {
	rows := []equityCurveCsvRow{}
	if err := readCsvFile(h.Path, &rows); err != nil {
		return nil, err
	}

	out := domain.EquityCurve{}
	for i, row := range rows {
		date, err := util.ParseDate(row.TradeDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse trade_date on row %d: %w", i+1, err)
		}
		out = append(out, domain.EquityPoint{
			Date:            date,
			StrategyEquity:  row.StrategyValue,
			BenchmarkEquity: row.BenchmarkValue,
		})
	}

	return out, nil
}
