package main

import (
	"github.com/lumina333/quant/cmd"
	"go.uber.org/zap"
)

func main() {
	if err := cmd.Execute(); err != nil {
		zap.S().Fatalw("quant failed", "error", err.Error())
	}
}
