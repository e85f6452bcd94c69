package api

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumina333/quant/internal"
	"github.com/lumina333/quant/internal/app"
	"github.com/lumina333/quant/internal/config"
	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/logger"
	"github.com/lumina333/quant/internal/repository"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Pipeline         app.PipelineHandler
	BenchmarkHandler internal.BenchmarkHandler
	// request options not given fall back to these
	Defaults config.Config

	// optional, /runs is only served with a database
	BacktestRunRepository repository.BacktestRunRepository
	EquityPointRepository repository.EquityPointRepository

	Logger *zap.SugaredLogger
}

func floatPtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func (m ApiHandler) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to quant"})
	})
	router.POST("/portfolio", m.portfolio)
	router.POST("/backtest", m.backtest)
	router.POST("/benchmark", m.benchmark)
	router.GET("/runs", m.listRuns)
	router.GET("/runs/:id", m.getRun)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.NewRouter().Run(fmt.Sprintf(":%d", port))
}

// client mistakes map to 400, everything else is a 500
func returnErrorJson(err error, c *gin.Context) {
	code := 500
	emptyScheduleErr := &domain.EmptyScheduleError{}
	insufficientDataErr := &domain.InsufficientDataError{}
	if errors.As(err, &emptyScheduleErr) || errors.As(err, &insufficientDataErr) {
		code = 400
	}
	returnErrorJsonCode(err, c, code)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	returnErrorJsonBody(err, c, code, gin.H{})
}

// returnErrorJsonBody sets "error" on body and aborts with it
func returnErrorJsonBody(err error, c *gin.Context, code int, body gin.H) {
	logger.FromContext(c.Request.Context()).Errorw(
		"request failed",
		"route", c.Request.URL.Path,
		"status", code,
		"error", err.Error(),
	)
	body["error"] = err.Error()
	c.AbortWithStatusJSON(code, body)
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	log := m.Logger
	if log == nil {
		log = zap.S()
	}
	requestID := uuid.New()
	log = log.With("requestID", requestID.String())
	ctx.Request = ctx.Request.WithContext(logger.NewContext(ctx.Request.Context(), log))
	ctx.Header("X-Request-ID", requestID.String())

	start := time.Now().UTC()
	ctx.Next()

	log.Infow(
		"request",
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"ip", ctx.ClientIP(),
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}
