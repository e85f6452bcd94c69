package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
	"github.com/lumina333/quant/internal/db/models/postgres/public/model"
	"github.com/lumina333/quant/internal/util"
)

const defaultRunsLimit = 20

type runResponse struct {
	BacktestRunID         uuid.UUID `json:"backtestRunID"`
	CreatedAt             string    `json:"createdAt"`
	TopN                  int32     `json:"topN"`
	RebalanceIntervalDays int32     `json:"rebalanceIntervalDays"`
	FactorNames           []string  `json:"factorNames"`
	ScoreExpression       *string   `json:"scoreExpression,omitempty"`
	InitialCapital        float64   `json:"initialCapital"`
	CommissionRate        float64   `json:"commissionRate"`
	BenchmarkSymbol       string    `json:"benchmarkSymbol"`
	FinalEquity           float64   `json:"finalEquity"`
	StrategyReturn        *float64  `json:"strategyReturn"`
	BenchmarkReturn       *float64  `json:"benchmarkReturn"`
	ExcessReturn          *float64  `json:"excessReturn"`
}

type equityPointResponse struct {
	Date            string  `json:"date"`
	StrategyEquity  float64 `json:"strategyEquity"`
	BenchmarkEquity float64 `json:"benchmarkEquity"`
}

type runDetailResponse struct {
	runResponse
	Curve []equityPointResponse `json:"curve"`
}

func newRunResponse(m model.BacktestRun) runResponse {
	return runResponse{
		BacktestRunID:         m.BacktestRunID,
		CreatedAt:             m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		TopN:                  m.TopN,
		RebalanceIntervalDays: m.RebalanceIntervalDays,
		FactorNames:           strings.Split(m.FactorNames, ","),
		ScoreExpression:       m.ScoreExpression,
		InitialCapital:        m.InitialCapital,
		CommissionRate:        m.CommissionRate,
		BenchmarkSymbol:       m.BenchmarkSymbol,
		FinalEquity:           m.FinalEquity,
		StrategyReturn:        m.StrategyReturn,
		BenchmarkReturn:       m.BenchmarkReturn,
		ExcessReturn:          m.ExcessReturn,
	}
}

func (h ApiHandler) listRuns(c *gin.Context) {
	if h.BacktestRunRepository == nil {
		returnErrorJsonCode(fmt.Errorf("run storage is not configured"), c, 404)
		return
	}

	limit := int64(defaultRunsLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			returnErrorJsonCode(fmt.Errorf("invalid limit %q", raw), c, 400)
			return
		}
		limit = parsed
	}

	runs, err := h.BacktestRunRepository.List(limit)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := []runResponse{}
	for _, run := range runs {
		out = append(out, newRunResponse(run))
	}

	c.JSON(200, out)
}

func (h ApiHandler) getRun(c *gin.Context) {
	if h.BacktestRunRepository == nil || h.EquityPointRepository == nil {
		returnErrorJsonCode(fmt.Errorf("run storage is not configured"), c, 404)
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid run id: %w", err), c, 400)
		return
	}

	run, err := h.BacktestRunRepository.Get(runID)
	if errors.Is(err, qrm.ErrNoRows) {
		returnErrorJsonCode(fmt.Errorf("run %s not found", runID.String()), c, 404)
		return
	} else if err != nil {
		returnErrorJson(err, c)
		return
	}

	curve, err := h.EquityPointRepository.List(runID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := runDetailResponse{
		runResponse: newRunResponse(*run),
		Curve:       []equityPointResponse{},
	}
	for _, point := range curve {
		out.Curve = append(out.Curve, equityPointResponse{
			Date:            util.DateKey(point.Date),
			StrategyEquity:  point.StrategyEquity,
			BenchmarkEquity: point.BenchmarkEquity,
		})
	}

	c.JSON(200, out)
}
