package l1_service

import (
	"fmt"
	"time"

	"github.com/lumina333/quant/internal/domain"
	"github.com/shopspring/decimal"
)

// TradeService sizes and fills orders against a simulated account at the
// given close. quantities are whole shares, rounded down.
type TradeService interface {
	Buy(input BuyInput) (*BuyResult, error)
	Sell(input SellInput) (*domain.Trade, error)
	Liquidate(input LiquidateInput) (*domain.Trade, error)
}

type tradeServiceHandler struct{}

func NewTradeService() TradeService {
	return tradeServiceHandler{}
}

type BuyInput struct {
	Account         *domain.Account
	Date            time.Time
	Symbol          string
	Price           decimal.Decimal
	AmountInDollars decimal.Decimal
	CommissionRate  decimal.Decimal
	// untradable index symbol, defaults to domain.BenchmarkSymbol
	BenchmarkSymbol string
}

type BuyResult struct {
	// nil when nothing could be bought
	Trade *domain.Trade
	// set when the buy was cut down to what cash could fund
	CashShortfall *domain.InsufficientCashError
}

func (h tradeServiceHandler) Buy(input BuyInput) (*BuyResult, error) {
	if err := validateOrder(input.Symbol, input.BenchmarkSymbol, input.Price, input.AmountInDollars, input.CommissionRate); err != nil {
		return nil, fmt.Errorf("failed to submit buy order: %w", err)
	}

	unitCost := input.Price.Mul(decimal.NewFromInt(1).Add(input.CommissionRate))
	quantity := affordableQuantity(input.AmountInDollars, unitCost)

	result := &BuyResult{}
	required := unitCost.Mul(decimal.NewFromInt(quantity))
	if required.GreaterThan(input.Account.Cash) {
		result.CashShortfall = &domain.InsufficientCashError{
			Date:      input.Date,
			Symbol:    input.Symbol,
			Required:  required.InexactFloat64(),
			Available: input.Account.Cash.InexactFloat64(),
		}
		quantity = affordableQuantity(decimal.Max(input.Account.Cash, decimal.Zero), unitCost)
	}
	if quantity == 0 {
		return result, nil
	}

	trade := newTrade(input.Date, input.Symbol, domain.TradeSide_Buy, quantity, input.Price, input.CommissionRate)
	input.Account.Apply(trade)
	result.Trade = &trade

	return result, nil
}

type SellInput struct {
	Account         *domain.Account
	Date            time.Time
	Symbol          string
	Price           decimal.Decimal
	AmountInDollars decimal.Decimal
	CommissionRate  decimal.Decimal
	// untradable index symbol, defaults to domain.BenchmarkSymbol
	BenchmarkSymbol string
}

// Sell reduces a position by floor(amount / price) shares, capped at what
// is held. returns nil if no shares change hands.
func (h tradeServiceHandler) Sell(input SellInput) (*domain.Trade, error) {
	if err := validateOrder(input.Symbol, input.BenchmarkSymbol, input.Price, input.AmountInDollars, input.CommissionRate); err != nil {
		return nil, fmt.Errorf("failed to submit sell order: %w", err)
	}

	quantity := affordableQuantity(input.AmountInDollars, input.Price)
	if held := input.Account.Quantity(input.Symbol); quantity > held {
		quantity = held
	}
	if quantity == 0 {
		return nil, nil
	}

	trade := newTrade(input.Date, input.Symbol, domain.TradeSide_Sell, quantity, input.Price, input.CommissionRate)
	input.Account.Apply(trade)

	return &trade, nil
}

type LiquidateInput struct {
	Account         *domain.Account
	Date            time.Time
	Symbol          string
	Price           decimal.Decimal
	CommissionRate  decimal.Decimal
	BenchmarkSymbol string
}

// Liquidate sells the whole position
func (h tradeServiceHandler) Liquidate(input LiquidateInput) (*domain.Trade, error) {
	if err := validateOrder(input.Symbol, input.BenchmarkSymbol, input.Price, decimal.Zero, input.CommissionRate); err != nil {
		return nil, fmt.Errorf("failed to liquidate position: %w", err)
	}

	quantity := input.Account.Quantity(input.Symbol)
	if quantity == 0 {
		return nil, nil
	}

	trade := newTrade(input.Date, input.Symbol, domain.TradeSide_Sell, quantity, input.Price, input.CommissionRate)
	input.Account.Apply(trade)

	return &trade, nil
}

func validateOrder(symbol, benchmarkSymbol string, price, amount, commissionRate decimal.Decimal) error {
	if benchmarkSymbol == "" {
		benchmarkSymbol = domain.BenchmarkSymbol
	}
	if symbol == benchmarkSymbol {
		return fmt.Errorf("%s is not tradable", symbol)
	}
	if !price.IsPositive() {
		return fmt.Errorf("price must be > 0. got %s for %s", price.String(), symbol)
	}
	if amount.IsNegative() {
		return fmt.Errorf("amount must be >= 0. got %s for %s", amount.String(), symbol)
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("commission rate must be in [0, 1). got %s", commissionRate.String())
	}
	return nil
}

// affordableQuantity is the largest whole q with q * unitCost <= amount
func affordableQuantity(amount, unitCost decimal.Decimal) int64 {
	if !amount.IsPositive() {
		return 0
	}
	quantity := amount.Div(unitCost).Floor().IntPart()
	// Div rounds to DivisionPrecision, step back if that overshot
	for quantity > 0 && unitCost.Mul(decimal.NewFromInt(quantity)).GreaterThan(amount) {
		quantity--
	}
	return quantity
}

func newTrade(date time.Time, symbol string, side domain.TradeSide, quantity int64, price, commissionRate decimal.Decimal) domain.Trade {
	amount := price.Mul(decimal.NewFromInt(quantity))
	return domain.Trade{
		Date:       date,
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		Commission: amount.Mul(commissionRate),
	}
}
