package internal

import (
	"context"
	"fmt"

	"github.com/lumina333/quant/internal/logger"
	"github.com/lumina333/quant/internal/repository"
	"go.uber.org/multierr"
)

type IngestInput struct {
	PriceSource      repository.PriceRepository
	PriceDestination repository.PriceRepository

	// optional, factors are only copied when both are set
	FactorSource      repository.FactorFrameRepository
	FactorDestination repository.FactorFrameRepository
}

type IngestResult struct {
	PriceBars  int
	FactorRows int
}

// IngestFrames copies the price and factor frames from one store to
// another, usually csv exports into postgres. a failure on one frame
// does not stop the other.
func IngestFrames(ctx context.Context, in IngestInput) (*IngestResult, error) {
	log := logger.FromContext(ctx)
	result := &IngestResult{}
	var errs error

	bars, err := in.PriceSource.List()
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to read prices: %w", err))
	} else if err = in.PriceDestination.Add(bars); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to write %d price bars: %w", len(bars), err))
	} else {
		result.PriceBars = len(bars)
		log.Infow("ingested prices", "bars", len(bars))
	}

	if in.FactorSource != nil && in.FactorDestination != nil {
		rows, err := in.FactorSource.List()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to read factors: %w", err))
		} else if err = in.FactorDestination.Add(rows); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to write %d factor rows: %w", len(rows), err))
		} else {
			result.FactorRows = len(rows)
			log.Infow("ingested factors", "rows", len(rows))
		}
	}

	if errs != nil {
		return result, fmt.Errorf("failed to ingest %d frame(s): %w", len(multierr.Errors(errs)), errs)
	}

	return result, nil
}
