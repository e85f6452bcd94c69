package internal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lumina333/quant/internal/domain"
	"github.com/montanaflynn/stats"
)

// Figure out how to weight the portfolio on a rebalance date given the
// raw factor values of every symbol in the cross-section

// weights must sum to 1 within this tolerance
const weightSumTolerance = 1e-9

// zScoreBySymbol standardizes one factor across the cross-section using
// the sample stdev. fewer than two observations, or zero dispersion,
// leaves every symbol at 0 instead of producing NaN.
func zScoreBySymbol(factorScoreBySymbol map[string]float64) (map[string]float64, error) {
	// iterate in symbol order so that the float sums are reproducible
	symbols := sortedKeys(factorScoreBySymbol)

	zScores := map[string]float64{}
	if len(symbols) < 2 {
		for _, symbol := range symbols {
			zScores[symbol] = 0
		}
		return zScores, nil
	}

	dataset := make([]float64, 0, len(symbols))
	for _, symbol := range symbols {
		dataset = append(dataset, factorScoreBySymbol[symbol])
	}
	mean, err := stats.Mean(dataset)
	if err != nil {
		return nil, err
	}
	stdev, err := stats.StandardDeviationSample(dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate stdev: %w", err)
	}

	for _, symbol := range symbols {
		if stdev == 0 || math.IsNaN(stdev) {
			zScores[symbol] = 0
			continue
		}
		zScores[symbol] = (factorScoreBySymbol[symbol] - mean) / stdev
	}

	return zScores, nil
}

type CompositeScoresInput struct {
	Rows        []domain.FactorRow
	FactorNames []string
	// optional, factors not listed keep a weight of 1
	FactorWeights map[string]float64
	// optional, replaces the weighted sum
	Expression *ScoreExpression
}

// CompositeScores standardizes each factor over the given cross-section
// and combines them into one score per symbol. symbols missing any factor
// get a nil score.
func CompositeScores(in CompositeScoresInput) (map[string]*float64, error) {
	if len(in.FactorNames) == 0 {
		return nil, fmt.Errorf("cannot compute composite score with 0 factors")
	}

	complete := map[string]bool{}
	for _, row := range in.Rows {
		complete[row.Symbol] = true
	}

	zScoresByFactor := map[string]map[string]float64{}
	for _, factor := range in.FactorNames {
		raw := map[string]float64{}
		for _, row := range in.Rows {
			v, ok := row.Get(factor)
			if !ok {
				complete[row.Symbol] = false
				continue
			}
			raw[row.Symbol] = v
		}
		z, err := zScoreBySymbol(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to standardize %s: %w", factor, err)
		}
		zScoresByFactor[factor] = z
	}

	out := map[string]*float64{}
	for _, symbol := range sortedKeys(complete) {
		if !complete[symbol] {
			out[symbol] = nil
			continue
		}

		zBySymbol := map[string]float64{}
		for _, factor := range in.FactorNames {
			zBySymbol[factor] = zScoresByFactor[factor][symbol]
		}

		var score float64
		if in.Expression != nil {
			result, err := in.Expression.Evaluate(zBySymbol)
			if err != nil {
				return nil, fmt.Errorf("failed to score %s: %w", symbol, err)
			}
			score = result
		} else {
			for _, factor := range in.FactorNames {
				w := 1.0
				if fw, ok := in.FactorWeights[factor]; ok {
					w = fw
				}
				score += w * zBySymbol[factor]
			}
		}
		out[symbol] = &score
	}

	return out, nil
}

type ScoredSymbol struct {
	Symbol string
	Score  float64
}

// rankSymbols orders scored symbols by score descending, breaking ties
// by symbol ascending. nil scores are dropped.
func rankSymbols(factorScoresBySymbol map[string]*float64) []ScoredSymbol {
	out := []ScoredSymbol{}
	for symbol, score := range factorScoresBySymbol {
		if score != nil && !math.IsNaN(*score) {
			out = append(out, ScoredSymbol{Symbol: symbol, Score: *score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Symbol < out[j].Symbol
	})

	return out
}

func topNScores(factorScoresBySymbol map[string]*float64, n int) []ScoredSymbol {
	ranked := rankSymbols(factorScoresBySymbol)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

type CalculateTargetAssetWeightsInput struct {
	Date                 time.Time
	FactorScoresBySymbol map[string]*float64
	NumTickers           int
}

type CalculateTargetAssetWeightsResult struct {
	Weights  map[string]float64
	Selected []ScoredSymbol
	// set when fewer than NumTickers symbols had a score
	Shortfall *domain.InsufficientScoreError
}

// CalculateTargetAssetWeights picks the top NumTickers symbols by score
// and weights them equally. when fewer symbols are scored, all of them
// are selected and the shortfall is reported, not failed.
func CalculateTargetAssetWeights(in CalculateTargetAssetWeightsInput) (*CalculateTargetAssetWeightsResult, error) {
	if in.NumTickers < 1 {
		return nil, fmt.Errorf("target portfolio needs at least 1 asset, got %d", in.NumTickers)
	}

	selected := topNScores(in.FactorScoresBySymbol, in.NumTickers)
	result := &CalculateTargetAssetWeightsResult{
		Weights:  map[string]float64{},
		Selected: selected,
	}
	if len(selected) < in.NumTickers {
		result.Shortfall = &domain.InsufficientScoreError{
			Date:      in.Date,
			Requested: in.NumTickers,
			Available: len(selected),
		}
	}
	if len(selected) == 0 {
		return result, nil
	}

	for _, s := range selected {
		result.Weights[s.Symbol] = 1.0 / float64(len(selected))
	}

	// validate new weights add to 1
	sum := 0.0
	for _, s := range selected {
		w := result.Weights[s.Symbol]
		if math.IsNaN(w) {
			return nil, fmt.Errorf("invalid weight NaN for %s", s.Symbol)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return nil, fmt.Errorf("new weight should sum to 1, got %f", sum)
	}

	return result, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
