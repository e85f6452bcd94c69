package l3_service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lumina333/quant/internal/domain"
	"github.com/lumina333/quant/internal/logger"
	l1_service "github.com/lumina333/quant/internal/service/l1"
	"github.com/lumina333/quant/internal/util"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// BacktestService replays target holdings through a simulated account,
// one step per trading day in the price feed
type BacktestService interface {
	Simulate(ctx context.Context, in SimulateInput) (*SimulationResult, error)
}

type backtestServiceHandler struct {
	TradeService l1_service.TradeService
}

func NewBacktestService(tradeService l1_service.TradeService) BacktestService {
	return backtestServiceHandler{
		TradeService: tradeService,
	}
}

type SimulateInput struct {
	Prices         []domain.PriceBar
	Holdings       domain.HoldingsTable
	InitialCapital float64
	CommissionRate float64
	// defaults to domain.BenchmarkSymbol
	BenchmarkSymbol string
}

type SimulationResult struct {
	Curve          domain.EquityCurve
	Trades         []domain.Trade
	FinalAccount   *domain.Account
	InitialCapital float64
	// cash plus positions at the last close, after that day's orders
	FinalEquity float64
	// recoverable problems hit along the way, combined with multierr
	Warnings error
}

type priceDay struct {
	date   time.Time
	closes map[string]decimal.Decimal
}

func groupPricesByDay(prices []domain.PriceBar) ([]priceDay, error) {
	byKey := map[string]*priceDay{}
	for _, bar := range prices {
		key := util.DateKey(bar.Date)
		day, ok := byKey[key]
		if !ok {
			day = &priceDay{
				date:   util.TruncateDate(bar.Date),
				closes: map[string]decimal.Decimal{},
			}
			byKey[key] = day
		}
		if _, ok := day.closes[bar.Symbol]; ok {
			return nil, fmt.Errorf("duplicate price for %s on %s", bar.Symbol, key)
		}
		if bar.Close <= 0 {
			return nil, fmt.Errorf("invalid close %f for %s on %s", bar.Close, bar.Symbol, key)
		}
		day.closes[bar.Symbol] = decimal.NewFromFloat(bar.Close)
	}

	out := []priceDay{}
	for _, day := range byKey {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].date.Before(out[j].date)
	})
	return out, nil
}

type simulation struct {
	account        *domain.Account
	commissionRate decimal.Decimal
	benchmark      string
	trades         []domain.Trade
	warnings       error
}

func (s *simulation) warn(ctx context.Context, err error, keysAndValues ...interface{}) {
	logger.FromContext(ctx).Warnw(err.Error(), keysAndValues...)
	s.warnings = multierr.Append(s.warnings, err)
}

func (s *simulation) result(curve domain.EquityCurve, initialCapital float64, finalEquity decimal.Decimal) *SimulationResult {
	return &SimulationResult{
		Curve:          curve,
		Trades:         s.trades,
		FinalAccount:   s.account.DeepCopy(),
		InitialCapital: initialCapital,
		FinalEquity:    finalEquity.InexactFloat64(),
		Warnings:       s.warnings,
	}
}

// Simulate marks the account to market every day, records the equity point,
// then trades toward the target weights on rebalance days. a held symbol
// with no close is fatal; the curve built so far is returned with the error.
func (h backtestServiceHandler) Simulate(ctx context.Context, in SimulateInput) (*SimulationResult, error) {
	log := logger.FromContext(ctx)

	if in.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be > 0, got %f", in.InitialCapital)
	}
	if in.CommissionRate < 0 || in.CommissionRate >= 1 {
		return nil, fmt.Errorf("commission rate must be in [0, 1), got %f", in.CommissionRate)
	}
	benchmark := in.BenchmarkSymbol
	if benchmark == "" {
		benchmark = domain.BenchmarkSymbol
	}

	days, err := groupPricesByDay(in.Prices)
	if err != nil {
		return nil, fmt.Errorf("failed to index prices: %w", err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("cannot simulate with an empty price feed")
	}

	sim := &simulation{
		account:        domain.NewAccount(decimal.NewFromFloat(in.InitialCapital)),
		commissionRate: decimal.NewFromFloat(in.CommissionRate),
		benchmark:      benchmark,
		trades:         []domain.Trade{},
	}
	curve := domain.EquityCurve{}

	targetsByDate := in.Holdings.ByDate()
	stepped := map[string]bool{}

	var benchmarkBase, lastBenchmark, firstEquity decimal.Decimal
	for i, day := range days {
		key := util.DateKey(day.date)
		stepped[key] = true

		equity, err := sim.account.TotalValue(day.date, day.closes)
		if err != nil {
			return sim.result(curve, in.InitialCapital, decimal.Zero), fmt.Errorf("failed to mark account to market on %s: %w", key, err)
		}

		if benchmarkClose, ok := day.closes[benchmark]; ok {
			lastBenchmark = benchmarkClose
		} else if i == 0 {
			err := &domain.MissingPriceError{Date: day.date, Symbol: benchmark}
			return sim.result(curve, in.InitialCapital, equity), fmt.Errorf("failed to start benchmark: %w", err)
		}
		if i == 0 {
			benchmarkBase = lastBenchmark
			firstEquity = equity
		}

		curve = append(curve, domain.EquityPoint{
			Date:            day.date,
			StrategyEquity:  equity.InexactFloat64(),
			BenchmarkEquity: lastBenchmark.Div(benchmarkBase).Mul(firstEquity).InexactFloat64(),
		})

		if targets, ok := targetsByDate[key]; ok {
			err = h.rebalance(ctx, sim, day, equity, targets)
			if err != nil {
				return sim.result(curve, in.InitialCapital, equity), fmt.Errorf("failed to rebalance on %s: %w", key, err)
			}
		}
	}

	for _, date := range in.Holdings.Dates() {
		key := util.DateKey(date)
		if !stepped[key] {
			sim.warn(
				ctx,
				fmt.Errorf("holdings date %s is not a trading day in the price feed", key),
				"date", key,
			)
		}
	}

	last := days[len(days)-1]
	finalEquity, err := sim.account.TotalValue(last.date, last.closes)
	if err != nil {
		return sim.result(curve, in.InitialCapital, decimal.Zero), fmt.Errorf("failed to compute final equity: %w", err)
	}

	log.Infow(
		"simulation complete",
		"days", len(curve),
		"trades", len(sim.trades),
		"initialCapital", in.InitialCapital,
		"finalEquity", finalEquity.InexactFloat64(),
	)

	return sim.result(curve, in.InitialCapital, finalEquity), nil
}

// rebalance closes positions that dropped out of the target, then sizes
// every target symbol to equity * weight. sells go before buys so that
// freed cash can fund them.
func (h backtestServiceHandler) rebalance(
	ctx context.Context,
	sim *simulation,
	day priceDay,
	equity decimal.Decimal,
	targets map[string]float64,
) error {
	key := util.DateKey(day.date)

	for _, symbol := range sim.account.HeldSymbols() {
		if _, ok := targets[symbol]; ok {
			continue
		}
		trade, err := h.TradeService.Liquidate(l1_service.LiquidateInput{
			Account:         sim.account,
			Date:            day.date,
			Symbol:          symbol,
			Price:           day.closes[symbol],
			CommissionRate:  sim.commissionRate,
			BenchmarkSymbol: sim.benchmark,
		})
		if err != nil {
			return fmt.Errorf("failed to close %s: %w", symbol, err)
		}
		sim.record(trade)
	}

	symbols := make([]string, 0, len(targets))
	for symbol := range targets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	buys := map[string]decimal.Decimal{}
	for _, symbol := range symbols {
		if symbol == sim.benchmark {
			sim.warn(ctx, fmt.Errorf("benchmark %s cannot be held, skipping", symbol), "date", key, "symbol", symbol)
			continue
		}
		price, ok := day.closes[symbol]
		if !ok {
			sim.warn(ctx, &domain.MissingPriceError{Date: day.date, Symbol: symbol}, "date", key, "symbol", symbol)
			continue
		}

		targetValue := equity.Mul(decimal.NewFromFloat(targets[symbol]))
		delta := targetValue.Sub(sim.account.PositionValue(symbol, price))
		if delta.IsPositive() {
			buys[symbol] = delta
			continue
		}
		if delta.IsZero() {
			continue
		}

		trade, err := h.TradeService.Sell(l1_service.SellInput{
			Account:         sim.account,
			Date:            day.date,
			Symbol:          symbol,
			Price:           price,
			AmountInDollars: delta.Abs(),
			CommissionRate:  sim.commissionRate,
			BenchmarkSymbol: sim.benchmark,
		})
		if err != nil {
			return fmt.Errorf("failed to reduce %s: %w", symbol, err)
		}
		sim.record(trade)
	}

	for _, symbol := range symbols {
		delta, ok := buys[symbol]
		if !ok {
			continue
		}
		result, err := h.TradeService.Buy(l1_service.BuyInput{
			Account:         sim.account,
			Date:            day.date,
			Symbol:          symbol,
			Price:           day.closes[symbol],
			AmountInDollars: delta,
			CommissionRate:  sim.commissionRate,
			BenchmarkSymbol: sim.benchmark,
		})
		if err != nil {
			return fmt.Errorf("failed to buy %s: %w", symbol, err)
		}
		if result.CashShortfall != nil {
			sim.warn(
				ctx,
				result.CashShortfall,
				"date", key,
				"symbol", symbol,
				"required", result.CashShortfall.Required,
				"available", result.CashShortfall.Available,
			)
		}
		sim.record(result.Trade)
	}

	return nil
}

func (s *simulation) record(trade *domain.Trade) {
	if trade != nil {
		s.trades = append(s.trades, *trade)
	}
}
