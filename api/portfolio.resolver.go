package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/lumina333/quant/internal/util"
)

type portfolioResponse struct {
	RebalanceDates []string          `json:"rebalanceDates"`
	Holdings       []holdingResponse `json:"holdings"`
}

func (h ApiHandler) portfolio(c *gin.Context) {
	var requestBody strategyRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	cfg := requestBody.apply(h.Defaults)
	if err := cfg.Validate(); err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid portfolio options: %w", err), c, 400)
		return
	}

	result, err := h.requestPipeline().ConstructPortfolio(c.Request.Context(), portfolioOptions(cfg))
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to construct portfolio: %w", err), c)
		return
	}

	out := portfolioResponse{
		RebalanceDates: []string{},
		Holdings:       holdingsResponse(result.Holdings),
	}
	for _, date := range result.RebalanceDates {
		out.RebalanceDates = append(out.RebalanceDates, util.DateKey(date))
	}

	c.JSON(200, out)
}
