package ledger

import (
	"errors"
	"fmt"
)

// Trading errors are always recoverable: a rejected operation is a no-op
// and never touches cash or positions.
var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoPosition        = errors.New("no position in instrument")
	ErrExceedsHolding    = errors.New("sell quantity exceeds holding")
)

// InsufficientFundsError carries the maximum quantity the remaining cash
// could buy at the current price, so callers can tell the user.
type InsufficientFundsError struct {
	Instrument    string
	Price         int64
	MaxAffordable int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s at %d: at most %d affordable", e.Instrument, e.Price, e.MaxAffordable)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// ExceedsHoldingError carries the held quantity for the user message.
type ExceedsHoldingError struct {
	Instrument string
	Held       int64
}

func (e *ExceedsHoldingError) Error() string {
	return fmt.Sprintf("cannot sell more than %d shares of %s", e.Held, e.Instrument)
}

func (e *ExceedsHoldingError) Is(target error) bool {
	return target == ErrExceedsHolding
}
