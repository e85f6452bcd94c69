package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Account is the simulated brokerage account. Cash is kept as a decimal
// so that mark-to-market never drifts from cash + sum(qty * close).
type Account struct {
	Positions map[string]*Position
	Cash      decimal.Decimal
}

func NewAccount(initialCapital decimal.Decimal) *Account {
	return &Account{
		Positions: map[string]*Position{},
		Cash:      initialCapital,
	}
}

// HeldSymbols returns symbols with a non-zero quantity, sorted
func (a Account) HeldSymbols() []string {
	symbols := []string{}
	for symbol, position := range a.Positions {
		if position.Quantity > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

func (a Account) Quantity(symbol string) int64 {
	if p, ok := a.Positions[symbol]; ok {
		return p.Quantity
	}
	return 0
}

func (a Account) DeepCopy() *Account {
	newAccount := &Account{
		Cash:      a.Cash,
		Positions: map[string]*Position{},
	}
	for symbol, position := range a.Positions {
		newAccount.Positions[symbol] = position.DeepCopy()
	}
	return newAccount
}

// TotalValue marks every held position to the given prices. A held
// symbol without a price is a MissingPriceError.
func (a Account) TotalValue(date time.Time, priceMap map[string]decimal.Decimal) (decimal.Decimal, error) {
	totalValue := a.Cash
	for _, symbol := range a.HeldSymbols() {
		price, ok := priceMap[symbol]
		if !ok {
			return decimal.Zero, &MissingPriceError{Date: date, Symbol: symbol}
		}
		totalValue = totalValue.Add(price.Mul(decimal.NewFromInt(a.Positions[symbol].Quantity)))
	}
	return totalValue, nil
}

// PositionValue is the market value of a single holding, zero if not held
func (a Account) PositionValue(symbol string, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(a.Quantity(symbol)))
}

// Apply books a filled trade against cash and positions
func (a *Account) Apply(t Trade) {
	position, ok := a.Positions[t.Symbol]
	if !ok {
		position = &Position{Symbol: t.Symbol}
		a.Positions[t.Symbol] = position
	}
	switch t.Side {
	case TradeSide_Buy:
		position.Quantity += t.Quantity
		a.Cash = a.Cash.Sub(t.Amount()).Sub(t.Commission)
	case TradeSide_Sell:
		position.Quantity -= t.Quantity
		a.Cash = a.Cash.Add(t.Amount()).Sub(t.Commission)
	}
	if position.Quantity == 0 {
		delete(a.Positions, t.Symbol)
	}
}

type Position struct {
	Symbol   string
	Quantity int64
}

func (p Position) DeepCopy() *Position {
	return &Position{
		Symbol:   p.Symbol,
		Quantity: p.Quantity,
	}
}

type TradeSide string

const (
	TradeSide_Buy  TradeSide = "BUY"
	TradeSide_Sell TradeSide = "SELL"
)

// Trade is an order filled by the simulator at the day's close
type Trade struct {
	Date       time.Time
	Symbol     string
	Side       TradeSide
	Quantity   int64
	Price      decimal.Decimal
	Commission decimal.Decimal
}

func (t Trade) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}
