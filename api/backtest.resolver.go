package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumina333/quant/internal/app"
	"github.com/lumina333/quant/internal/config"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/util"
)

type strategyRequest struct {
	TopN                  *int               `json:"topN" binding:"omitempty,gte=1"`
	RebalanceIntervalDays *int               `json:"rebalanceIntervalDays" binding:"omitempty,gte=1"`
	FactorNames           []string           `json:"factorNames"`
	FactorWeights         map[string]float64 `json:"factorWeights"`
	ScoreExpression       *string            `json:"scoreExpression"`
}

type BacktestRequest struct {
	strategyRequest
	InitialCapital  *float64 `json:"initialCapital" binding:"omitempty,gt=0"`
	CommissionRate  *float64 `json:"commissionRate" binding:"omitempty,gte=0,lt=1"`
	BenchmarkSymbol *string  `json:"benchmarkSymbol"`
}

// apply overlays the request on the server defaults
func (r strategyRequest) apply(cfg config.Config) config.Config {
	if r.TopN != nil {
		cfg.Portfolio.TopN = *r.TopN
	}
	if r.RebalanceIntervalDays != nil {
		cfg.Portfolio.RebalanceIntervalDays = *r.RebalanceIntervalDays
	}
	if len(r.FactorNames) > 0 {
		cfg.Portfolio.FactorNames = r.FactorNames
		// weights of the defaults may not name the requested factors
		cfg.Portfolio.FactorWeights = nil
	}
	if r.FactorWeights != nil {
		cfg.Portfolio.FactorWeights = r.FactorWeights
	}
	if r.ScoreExpression != nil {
		cfg.Portfolio.ScoreExpression = *r.ScoreExpression
	}
	return cfg
}

func (r BacktestRequest) apply(cfg config.Config) config.Config {
	cfg = r.strategyRequest.apply(cfg)
	if r.InitialCapital != nil {
		cfg.Backtest.InitialCapital = *r.InitialCapital
	}
	if r.CommissionRate != nil {
		cfg.Backtest.CommissionRate = *r.CommissionRate
	}
	if r.BenchmarkSymbol != nil {
		cfg.Backtest.BenchmarkSymbol = *r.BenchmarkSymbol
	}
	return cfg
}

func portfolioOptions(cfg config.Config) app.PortfolioOptions {
	return app.PortfolioOptions{
		TopN:                  cfg.Portfolio.TopN,
		RebalanceIntervalDays: cfg.Portfolio.RebalanceIntervalDays,
		FactorNames:           cfg.Portfolio.FactorNames,
		FactorWeights:         cfg.Portfolio.FactorWeights,
		ScoreExpression:       cfg.Portfolio.ScoreExpression,
	}
}

type holdingResponse struct {
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

type tradeResponse struct {
	Date       string  `json:"date"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Quantity   int64   `json:"quantity"`
	Price      float64 `json:"price"`
	Commission float64 `json:"commission"`
}

type metricsResponse struct {
	AnnualizedReturn *float64 `json:"annualizedReturn"`
	AnnualizedStdev  *float64 `json:"annualizedStdev"`
	SharpeRatio      *float64 `json:"sharpeRatio"`
	MaxDrawdown      *float64 `json:"maxDrawdown"`
}

type BacktestResponse struct {
	BacktestRunID   *uuid.UUID                     `json:"backtestRunID,omitempty"`
	RebalanceDates  []string                       `json:"rebalanceDates"`
	Holdings        []holdingResponse              `json:"holdings"`
	StrategyReturn  *float64                       `json:"strategyReturn"`
	BenchmarkReturn *float64                       `json:"benchmarkReturn"`
	ExcessReturn    *float64                       `json:"excessReturn"`
	Metrics         *metricsResponse               `json:"metrics"`
	Curve           []domain.NormalizedEquityPoint `json:"curve"`
	Trades          []tradeResponse                `json:"trades"`
	InitialCapital  float64                        `json:"initialCapital"`
	FinalEquity     float64                        `json:"finalEquity"`
	Warnings        []string                       `json:"warnings"`
}

func holdingsResponse(holdings domain.HoldingsTable) []holdingResponse {
	out := []holdingResponse{}
	for _, h := range holdings {
		out = append(out, holdingResponse{
			Date:   util.DateKey(h.Date),
			Symbol: h.Symbol,
			Weight: h.Weight,
			Score:  h.Score,
		})
	}
	return out
}

// NewBacktestResponse is the json view of a run. undefined returns and
// metrics are null. result.Holdings may be empty for a bare backtest.
func NewBacktestResponse(result *app.RunResult) BacktestResponse {
	report := result.Report
	out := BacktestResponse{
		BacktestRunID:   report.BacktestRunID,
		RebalanceDates:  []string{},
		Holdings:        holdingsResponse(result.Holdings),
		StrategyReturn:  floatPtr(report.Summary.StrategyReturn),
		BenchmarkReturn: floatPtr(report.Summary.BenchmarkReturn),
		ExcessReturn:    floatPtr(report.Summary.ExcessReturn),
		Curve:           report.Normalized,
		Trades:          []tradeResponse{},
		InitialCapital:  report.InitialCapital,
		FinalEquity:     report.FinalEquity,
		Warnings:        []string{},
	}
	for _, date := range result.RebalanceDates {
		out.RebalanceDates = append(out.RebalanceDates, util.DateKey(date))
	}
	if report.Metrics != nil {
		out.Metrics = &metricsResponse{
			AnnualizedReturn: floatPtr(report.Metrics.AnnualizedReturn),
			AnnualizedStdev:  floatPtr(report.Metrics.AnnualizedStdev),
			SharpeRatio:      floatPtr(report.Metrics.SharpeRatio),
			MaxDrawdown:      floatPtr(report.Metrics.MaxDrawdown),
		}
	}
	for _, t := range report.Trades {
		out.Trades = append(out.Trades, tradeResponse{
			Date:       util.DateKey(t.Date),
			Symbol:     t.Symbol,
			Side:       string(t.Side),
			Quantity:   t.Quantity,
			Price:      t.Price.InexactFloat64(),
			Commission: t.Commission.InexactFloat64(),
		})
	}
	for _, w := range report.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return out
}

// the api never writes csv frames, results only go to postgres when a
// run service is configured
func (h ApiHandler) requestPipeline() app.PipelineHandler {
	pipeline := h.Pipeline
	pipeline.HoldingsRepository = nil
	pipeline.EquityCurveRepository = nil
	return pipeline
}

func (h ApiHandler) backtest(c *gin.Context) {
	var requestBody BacktestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	cfg := requestBody.apply(h.Defaults)
	if err := cfg.Validate(); err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid backtest options: %w", err), c, 400)
		return
	}

	result, err := h.requestPipeline().Run(c.Request.Context(), app.RunInput{
		Portfolio: portfolioOptions(cfg),
		Backtest: app.BacktestOptions{
			InitialCapital:  cfg.Backtest.InitialCapital,
			CommissionRate:  cfg.Backtest.CommissionRate,
			BenchmarkSymbol: cfg.Backtest.BenchmarkSymbol,
		},
	})
	missingPriceErr := &domain.MissingPriceError{}
	if errors.As(err, &missingPriceErr) {
		body := gin.H{}
		if result != nil && result.Report != nil {
			// curve up to the failing day
			body["report"] = NewBacktestResponse(result)
		}
		returnErrorJsonBody(fmt.Errorf("failed to run backtest: %w", err), c, 422, body)
		return
	} else if err != nil {
		returnErrorJson(fmt.Errorf("failed to run backtest: %w", err), c)
		return
	}

	c.JSON(200, NewBacktestResponse(result))
}
