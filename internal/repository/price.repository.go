package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/lumina333/quant/internal/db/models/postgres/public/model"
	"github.com/lumina333/quant/internal/db/models/postgres/public/table"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

// PriceRepository is the daily bar feed the simulator steps through. The
// benchmark index is part of the feed under its configured symbol.
type PriceRepository interface {
	List() ([]domain.PriceBar, error)
	Add([]domain.PriceBar) error
}

type priceFrameCsvRow struct {
	TradeDate string  `csv:"trade_date"`
	TsCode    string  `csv:"ts_code"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

type benchmarkCsvRow struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

type priceCsvRepositoryHandler struct {
	Path string
	// optional index file keyed by a "date" column
	BenchmarkPath string
	// ts_code the index file is merged under
	BenchmarkSymbol string
}

// NewPriceCsvRepository reads the price frame, merging the optional
// benchmark file under benchmarkSymbol (domain.BenchmarkSymbol if empty)
func NewPriceCsvRepository(path, benchmarkPath, benchmarkSymbol string) PriceRepository {
	if benchmarkSymbol == "" {
		benchmarkSymbol = domain.BenchmarkSymbol
	}
	return priceCsvRepositoryHandler{
		Path:            path,
		BenchmarkPath:   benchmarkPath,
		BenchmarkSymbol: benchmarkSymbol,
	}
}

func (h priceCsvRepositoryHandler) List() ([]domain.PriceBar, error) {
	rows := []priceFrameCsvRow{}
	if err := readCsvFile(h.Path, &rows); err != nil {
		return nil, err
	}

	out := []domain.PriceBar{}
	benchmarkDates := map[string]bool{}
	for i, row := range rows {
		date, err := util.ParseDate(row.TradeDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse trade_date on row %d: %w", i+1, err)
		}
		if row.TsCode == h.BenchmarkSymbol {
			benchmarkDates[util.DateKey(date)] = true
		}
		out = append(out, domain.PriceBar{
			Date:   date,
			Symbol: row.TsCode,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	if h.BenchmarkPath == "" {
		return out, nil
	}

	benchmarkRows := []benchmarkCsvRow{}
	if err := readCsvFile(h.BenchmarkPath, &benchmarkRows); err != nil {
		return nil, err
	}
	for i, row := range benchmarkRows {
		date, err := util.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse benchmark date on row %d: %w", i+1, err)
		}
		if benchmarkDates[util.DateKey(date)] {
			return nil, fmt.Errorf("benchmark given twice for %s", util.DateKey(date))
		}
		out = append(out, domain.PriceBar{
			Date:   date,
			Symbol: h.BenchmarkSymbol,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	return out, nil
}

// Add writes a single price frame, benchmark rows included
func (h priceCsvRepositoryHandler) Add(bars []domain.PriceBar) error {
	rows := []priceFrameCsvRow{}
	for _, bar := range bars {
		rows = append(rows, priceFrameCsvRow{
			TradeDate: util.DateKey(bar.Date),
			TsCode:    bar.Symbol,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
		})
	}
	return writeCsvFile(h.Path, &rows)
}

type priceDbRepositoryHandler struct {
	Db *sql.DB
}

func NewPriceDbRepository(db *sql.DB) PriceRepository {
	return priceDbRepositoryHandler{Db: db}
}

func (h priceDbRepositoryHandler) List() ([]domain.PriceBar, error) {
	query := table.PriceBar.SELECT(table.PriceBar.AllColumns).
		ORDER_BY(
			table.PriceBar.Date.ASC(),
			table.PriceBar.Symbol.ASC(),
		)

	result := []model.PriceBar{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list price bars: %w", err)
	}

	out := []domain.PriceBar{}
	for _, m := range result {
		out = append(out, domain.PriceBar{
			Date:   util.TruncateDate(m.Date),
			Symbol: m.Symbol,
			Open:   m.Open,
			High:   m.High,
			Low:    m.Low,
			Close:  m.Close,
			Volume: m.Volume,
		})
	}

	return out, nil
}

func (h priceDbRepositoryHandler) Add(bars []domain.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := []model.PriceBar{}
	for _, bar := range bars {
		models = append(models, model.PriceBar{
			Date:      util.TruncateDate(bar.Date),
			Symbol:    bar.Symbol,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
			CreatedAt: now,
		})
	}

	for _, batch := range batches(models, insertBatchSize) {
		query := table.PriceBar.
			INSERT(table.PriceBar.AllColumns).
			MODELS(batch).
			ON_CONFLICT(
				table.PriceBar.Date, table.PriceBar.Symbol,
			).DO_UPDATE(
			postgres.SET(
				table.PriceBar.Open.SET(table.PriceBar.EXCLUDED.Open),
				table.PriceBar.High.SET(table.PriceBar.EXCLUDED.High),
				table.PriceBar.Low.SET(table.PriceBar.EXCLUDED.Low),
				table.PriceBar.Close.SET(table.PriceBar.EXCLUDED.Close),
				table.PriceBar.Volume.SET(table.PriceBar.EXCLUDED.Volume),
			),
		)

		_, err := query.Exec(h.Db)
		if err != nil {
			return fmt.Errorf("failed to add price bars to db: %w", err)
		}
	}

	return nil
}
