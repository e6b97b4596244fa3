// Package ledger tracks one user's cash and lot-averaged positions and
// derives portfolio valuation from current prices.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Position is the holding in one instrument. Quantity is always positive
// while the position exists; AvgCost is the weighted average purchase
// price, recomputed on buys and untouched by sells.
type Position struct {
	Quantity int64           `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost"`
}

// Ledger holds cash and positions. Cash never goes negative: over-budget
// buys are rejected before any mutation.
type Ledger struct {
	initialCash decimal.Decimal
	cash        decimal.Decimal
	positions   map[string]*Position
}

// New opens a ledger with the tier's starting cash.
func New(initialCash decimal.Decimal) *Ledger {
	return &Ledger{
		initialCash: initialCash,
		cash:        initialCash,
		positions:   make(map[string]*Position),
	}
}

// Restore rebuilds a ledger from serialized state.
func Restore(initialCash, cash decimal.Decimal, positions map[string]Position) *Ledger {
	l := &Ledger{
		initialCash: initialCash,
		cash:        cash,
		positions:   make(map[string]*Position, len(positions)),
	}
	for name, p := range positions {
		if p.Quantity > 0 {
			cp := p
			l.positions[name] = &cp
		}
	}
	return l
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() decimal.Decimal { return l.cash }

// InitialCash returns the starting balance used for P&L.
func (l *Ledger) InitialCash() decimal.Decimal { return l.initialCash }

// Position returns the holding for an instrument, if any.
func (l *Ledger) Position(name string) (Position, bool) {
	p, ok := l.positions[name]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Holdings returns instrument names with open positions, sorted.
func (l *Ledger) Holdings() []string {
	names := make([]string, 0, len(l.positions))
	for name := range l.positions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies all positions for serialization.
func (l *Ledger) Snapshot() map[string]Position {
	out := make(map[string]Position, len(l.positions))
	for name, p := range l.positions {
		out[name] = *p
	}
	return out
}

// Buy purchases qty shares at the given current price. On the first buy
// of an instrument the cost basis is the current price; further buys
// recompute the weighted average.
func (l *Ledger) Buy(name string, qty int64, price int64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	cost := decimal.NewFromInt(price).Mul(decimal.NewFromInt(qty))
	if cost.GreaterThan(l.cash) {
		maxQty := int64(0)
		if price > 0 {
			maxQty = l.cash.Div(decimal.NewFromInt(price)).IntPart()
		}
		return &InsufficientFundsError{Instrument: name, Price: price, MaxAffordable: maxQty}
	}

	l.cash = l.cash.Sub(cost)

	if p, ok := l.positions[name]; ok {
		oldQty := decimal.NewFromInt(p.Quantity)
		newQty := decimal.NewFromInt(p.Quantity + qty)
		total := p.AvgCost.Mul(oldQty).Add(cost)
		p.Quantity += qty
		p.AvgCost = total.Div(newQty)
	} else {
		l.positions[name] = &Position{
			Quantity: qty,
			AvgCost:  decimal.NewFromInt(price),
		}
	}
	return nil
}

// Sell disposes of qty shares at the given current price. The position is
// removed entirely when it reaches zero; the cost basis of remaining
// shares is unchanged.
func (l *Ledger) Sell(name string, qty int64, price int64) error {
	p, ok := l.positions[name]
	if !ok {
		return ErrNoPosition
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > p.Quantity {
		return &ExceedsHoldingError{Instrument: name, Held: p.Quantity}
	}

	proceeds := decimal.NewFromInt(price).Mul(decimal.NewFromInt(qty))
	l.cash = l.cash.Add(proceeds)
	p.Quantity -= qty
	if p.Quantity == 0 {
		delete(l.positions, name)
	}
	return nil
}

// Valuation computes total value and P&L at current prices. priceOf
// resolves an instrument's current price; instruments it cannot resolve
// contribute nothing.
func (l *Ledger) Valuation(priceOf func(name string) (int64, bool)) (cash, totalValue, profitLoss decimal.Decimal, profitRate float64) {
	stockValue := decimal.Zero
	for name, p := range l.positions {
		price, ok := priceOf(name)
		if !ok {
			continue
		}
		stockValue = stockValue.Add(decimal.NewFromInt(price).Mul(decimal.NewFromInt(p.Quantity)))
	}

	totalValue = l.cash.Add(stockValue)
	profitLoss = totalValue.Sub(l.initialCash)
	if l.initialCash.IsPositive() {
		profitRate, _ = profitLoss.Div(l.initialCash).Mul(decimal.NewFromInt(100)).Float64()
	}
	return l.cash, totalValue, profitLoss, profitRate
}
