package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/lumina333/quant/internal/db/models/postgres/public/model"
	"github.com/lumina333/quant/internal/db/models/postgres/public/table"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

// FactorFrameRepository loads and stores per-date factor values, one row
// per (trade date, symbol)
type FactorFrameRepository interface {
	List() ([]domain.FactorRow, error)
	Add([]domain.FactorRow) error
}

type factorFrameCsvRow struct {
	TradeDate string `csv:"trade_date"`
	TsCode    string `csv:"ts_code"`
	Value     string `csv:"value"`
	Momentum  string `csv:"momentum"`
	LowVol    string `csv:"low_vol"`
}

type factorFrameCsvRepositoryHandler struct {
	Path string
}

func NewFactorFrameCsvRepository(path string) FactorFrameRepository {
	return factorFrameCsvRepositoryHandler{Path: path}
}

func (h factorFrameCsvRepositoryHandler) List() ([]domain.FactorRow, error) {
	rows := []factorFrameCsvRow{}
	if err := readCsvFile(h.Path, &rows); err != nil {
		return nil, err
	}

	out := []domain.FactorRow{}
	for i, row := range rows {
		date, err := util.ParseDate(row.TradeDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse trade_date on row %d: %w", i+1, err)
		}
		factors := map[string]float64{}
		for name, raw := range map[string]string{
			domain.FactorValue:    row.Value,
			domain.FactorMomentum: row.Momentum,
			domain.FactorLowVol:   row.LowVol,
		} {
			v, err := parseOptionalFloat(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s on row %d: %w", name, i+1, err)
			}
			if v != nil {
				factors[name] = *v
			}
		}
		out = append(out, domain.FactorRow{
			Date:    date,
			Symbol:  row.TsCode,
			Factors: factors,
		})
	}

	return out, nil
}

func (h factorFrameCsvRepositoryHandler) Add(rows []domain.FactorRow) error {
	out := []factorFrameCsvRow{}
	for _, row := range rows {
		value, valueOk := row.Get(domain.FactorValue)
		momentum, momentumOk := row.Get(domain.FactorMomentum)
		lowVol, lowVolOk := row.Get(domain.FactorLowVol)
		out = append(out, factorFrameCsvRow{
			TradeDate: util.DateKey(row.Date),
			TsCode:    row.Symbol,
			Value:     formatOptionalFloat(value, valueOk),
			Momentum:  formatOptionalFloat(momentum, momentumOk),
			LowVol:    formatOptionalFloat(lowVol, lowVolOk),
		})
	}
	return writeCsvFile(h.Path, &out)
}

type factorFrameDbRepositoryHandler struct {
	Db *sql.DB
}

// NewFactorFrameDbRepository stores factors in long form, one row per
// (date, symbol, factor)
func NewFactorFrameDbRepository(db *sql.DB) FactorFrameRepository {
	return factorFrameDbRepositoryHandler{Db: db}
}

func (h factorFrameDbRepositoryHandler) List() ([]domain.FactorRow, error) {
	query := table.FactorValue.SELECT(table.FactorValue.AllColumns).
		ORDER_BY(
			table.FactorValue.Date.ASC(),
			table.FactorValue.Symbol.ASC(),
		)

	result := []model.FactorValue{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list factor values: %w", err)
	}

	return factorRowsFromModels(result), nil
}

func factorRowsFromModels(models []model.FactorValue) []domain.FactorRow {
	type key struct {
		date   string
		symbol string
	}
	index := map[key]int{}
	out := []domain.FactorRow{}
	for _, m := range models {
		k := key{util.DateKey(m.Date), m.Symbol}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, domain.FactorRow{
				Date:    util.TruncateDate(m.Date),
				Symbol:  m.Symbol,
				Factors: map[string]float64{},
			})
		}
		out[i].Factors[m.FactorName] = m.Value
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func factorModelsFromRows(rows []domain.FactorRow, now time.Time) []model.FactorValue {
	models := []model.FactorValue{}
	for _, row := range rows {
		names := make([]string, 0, len(row.Factors))
		for name := range row.Factors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v, ok := row.Get(name)
			if !ok {
				continue
			}
			models = append(models, model.FactorValue{
				Date:       util.TruncateDate(row.Date),
				Symbol:     row.Symbol,
				FactorName: name,
				Value:      v,
				CreatedAt:  now,
			})
		}
	}
	return models
}

func (h factorFrameDbRepositoryHandler) Add(rows []domain.FactorRow) error {
	models := factorModelsFromRows(rows, time.Now().UTC())
	if len(models) == 0 {
		return nil
	}

	for _, batch := range batches(models, insertBatchSize) {
		query := table.FactorValue.
			INSERT(table.FactorValue.AllColumns).
			MODELS(batch).
			ON_CONFLICT(
				table.FactorValue.Date,
				table.FactorValue.Symbol,
				table.FactorValue.FactorName,
			).
			DO_UPDATE(
				postgres.SET(
					table.FactorValue.Value.SET(table.FactorValue.EXCLUDED.Value),
				),
			)

		_, err := query.Exec(h.Db)
		if err != nil {
			return fmt.Errorf("failed to add factor values to db: %w", err)
		}
	}

	return nil
}
