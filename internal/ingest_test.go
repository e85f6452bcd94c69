package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/lumina333/quant/internal/domain"
	mock_repository "github.com/lumina333/quant/internal/repository/mocks"
	"github.com/lumina333/quant/internal/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIngestFrames(t *testing.T) {
	date := util.NewDate(2024, 1, 2)
	bars := []domain.PriceBar{
		{Date: date, Symbol: "A", Close: 10},
		{Date: date, Symbol: domain.BenchmarkSymbol, Close: 100},
	}
	rows := []domain.FactorRow{
		{Date: date, Symbol: "A", Factors: map[string]float64{"value": 1}},
	}

	t.Run("copies both frames", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceSource := mock_repository.NewMockPriceRepository(ctrl)
		priceDestination := mock_repository.NewMockPriceRepository(ctrl)
		factorSource := mock_repository.NewMockFactorFrameRepository(ctrl)
		factorDestination := mock_repository.NewMockFactorFrameRepository(ctrl)

		priceSource.EXPECT().List().Return(bars, nil)
		priceDestination.EXPECT().Add(bars).Return(nil)
		factorSource.EXPECT().List().Return(rows, nil)
		factorDestination.EXPECT().Add(rows).Return(nil)

		result, err := IngestFrames(context.Background(), IngestInput{
			PriceSource:       priceSource,
			PriceDestination:  priceDestination,
			FactorSource:      factorSource,
			FactorDestination: factorDestination,
		})
		require.NoError(t, err)
		require.Equal(t, IngestResult{PriceBars: 2, FactorRows: 1}, *result)
	})

	t.Run("price failure still copies factors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceSource := mock_repository.NewMockPriceRepository(ctrl)
		priceDestination := mock_repository.NewMockPriceRepository(ctrl)
		factorSource := mock_repository.NewMockFactorFrameRepository(ctrl)
		factorDestination := mock_repository.NewMockFactorFrameRepository(ctrl)

		priceSource.EXPECT().List().Return(bars, nil)
		priceDestination.EXPECT().Add(bars).Return(errors.New("duplicate key"))
		factorSource.EXPECT().List().Return(rows, nil)
		factorDestination.EXPECT().Add(rows).Return(nil)

		result, err := IngestFrames(context.Background(), IngestInput{
			PriceSource:       priceSource,
			PriceDestination:  priceDestination,
			FactorSource:      factorSource,
			FactorDestination: factorDestination,
		})
		require.ErrorContains(t, err, "duplicate key")
		require.Equal(t, 0, result.PriceBars)
		require.Equal(t, 1, result.FactorRows)
	})

	t.Run("prices only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceSource := mock_repository.NewMockPriceRepository(ctrl)
		priceDestination := mock_repository.NewMockPriceRepository(ctrl)

		priceSource.EXPECT().List().Return(bars, nil)
		priceDestination.EXPECT().Add(bars).Return(nil)

		result, err := IngestFrames(context.Background(), IngestInput{
			PriceSource:      priceSource,
			PriceDestination: priceDestination,
		})
		require.NoError(t, err)
		require.Equal(t, 0, result.FactorRows)
	})
}
