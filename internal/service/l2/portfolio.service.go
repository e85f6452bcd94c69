package l2_service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lumina333/quant/internal"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/logger"
	"github.com/lumina333/quant/internal/util"
)

type PortfolioService interface {
	BuildPortfolio(ctx context.Context, in BuildPortfolioInput) (domain.HoldingsTable, error)
}

type portfolioServiceHandler struct{}

func NewPortfolioService() PortfolioService {
	return portfolioServiceHandler{}
}

type BuildPortfolioInput struct {
	FactorRows     []domain.FactorRow
	RebalanceDates []time.Time
	TopN           int
	// defaults to value, momentum, low_vol
	FactorNames []string
	// optional per-factor weights, applied identically on every date
	FactorWeights map[string]float64
	// optional goval formula over factor z-scores
	ScoreExpression string
}

type portfolioOptions struct {
	factorNames   []string
	factorWeights map[string]float64
	expression    *internal.ScoreExpression
}

func (in BuildPortfolioInput) options() (*portfolioOptions, error) {
	if in.TopN < 1 {
		return nil, fmt.Errorf("top n must be at least 1, got %d", in.TopN)
	}

	factorNames := in.FactorNames
	if len(factorNames) == 0 {
		factorNames = domain.DefaultFactorNames()
	}
	known := map[string]bool{}
	for _, f := range factorNames {
		if known[f] {
			return nil, fmt.Errorf("duplicate factor %s", f)
		}
		known[f] = true
	}

	for f, w := range in.FactorWeights {
		if !known[f] {
			return nil, fmt.Errorf("weight given for unknown factor %s", f)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("invalid weight %f for factor %s", w, f)
		}
	}

	opts := &portfolioOptions{
		factorNames:   factorNames,
		factorWeights: in.FactorWeights,
	}
	if in.ScoreExpression != "" {
		if len(in.FactorWeights) > 0 {
			return nil, fmt.Errorf("factor weights and a score expression cannot be combined")
		}
		expr, err := internal.NewScoreExpression(in.ScoreExpression, factorNames)
		if err != nil {
			return nil, err
		}
		opts.expression = expr
	}

	return opts, nil
}

// BuildPortfolio scores every rebalance date's cross-section on its own
// and emits equal-weight top N holdings, ordered by date then symbol.
// dates without factor rows are skipped.
func (h portfolioServiceHandler) BuildPortfolio(ctx context.Context, in BuildPortfolioInput) (domain.HoldingsTable, error) {
	log := logger.FromContext(ctx)

	opts, err := in.options()
	if err != nil {
		return nil, fmt.Errorf("invalid portfolio options: %w", err)
	}

	rowsByDate := map[string][]domain.FactorRow{}
	seen := map[string]bool{}
	for _, row := range in.FactorRows {
		key := util.DateKey(row.Date)
		if seen[key+"|"+row.Symbol] {
			return nil, fmt.Errorf("duplicate factor row for %s on %s", row.Symbol, key)
		}
		seen[key+"|"+row.Symbol] = true
		rowsByDate[key] = append(rowsByDate[key], row)
	}

	dates := append([]time.Time{}, in.RebalanceDates...)
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	out := domain.HoldingsTable{}
	for _, date := range dates {
		date = util.TruncateDate(date)
		key := util.DateKey(date)
		rows, ok := rowsByDate[key]
		if !ok {
			log.Warnw("no factor rows on rebalance date, skipping", "date", key)
			continue
		}

		scores, err := internal.CompositeScores(internal.CompositeScoresInput{
			Rows:          rows,
			FactorNames:   opts.factorNames,
			FactorWeights: opts.factorWeights,
			Expression:    opts.expression,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to score factors on %s: %w", key, err)
		}

		targets, err := internal.CalculateTargetAssetWeights(internal.CalculateTargetAssetWeightsInput{
			Date:                 date,
			FactorScoresBySymbol: scores,
			NumTickers:           in.TopN,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to calculate target asset weights on %s: %w", key, err)
		}
		if targets.Shortfall != nil {
			log.Warnw(
				"fewer scored symbols than requested, holding all of them",
				"date", key,
				"requested", targets.Shortfall.Requested,
				"available", targets.Shortfall.Available,
			)
		}
		if len(targets.Selected) == 0 {
			log.Warnw("no valid factor scores on rebalance date, skipping", "date", key)
			continue
		}

		entries := domain.HoldingsTable{}
		for _, s := range targets.Selected {
			entries = append(entries, domain.HoldingEntry{
				Date:   date,
				Symbol: s.Symbol,
				Weight: targets.Weights[s.Symbol],
				Score:  s.Score,
			})
		}
		entries.Sort()
		out = append(out, entries...)
	}

	log.Infow(
		"portfolio constructed",
		"rebalanceDates", len(dates),
		"holdings", len(out),
	)

	return out, nil
}
