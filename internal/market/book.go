// Package market owns the per-instrument price series and the daily price
// update. Prices are whole currency units, never below 1; history is
// append-only and indexed by simulated day.
package market

import (
	"fmt"
	"math/rand"

	"llm-market-sim/internal/catalog"
)

// Book is the price series store for one session.
type Book struct {
	order  []string // catalog order, fixed at init
	series map[string]*series
}

type series struct {
	sector  string
	history []int64 // history[len-1] is the current price
}

// NewBook seeds a book from the catalog, drawing each starting price from
// the instrument's configured band.
func NewBook(rng *rand.Rand) *Book {
	b := &Book{series: make(map[string]*series)}
	for _, in := range catalog.Instruments() {
		span := in.PriceBand[1] - in.PriceBand[0]
		price := in.PriceBand[0] + rng.Int63n(span)
		b.order = append(b.order, in.Name)
		b.series[in.Name] = &series{sector: in.Sector, history: []int64{price}}
	}
	return b
}

// Restore rebuilds a book from serialized histories. Unknown instruments
// are rejected; an empty history is invalid.
func Restore(histories map[string][]int64) (*Book, error) {
	b := &Book{series: make(map[string]*series)}
	for _, in := range catalog.Instruments() {
		h, ok := histories[in.Name]
		if !ok || len(h) == 0 {
			return nil, fmt.Errorf("missing price history for %s", in.Name)
		}
		for _, p := range h {
			if p < 1 {
				return nil, fmt.Errorf("non-positive price %d in history for %s", p, in.Name)
			}
		}
		b.order = append(b.order, in.Name)
		b.series[in.Name] = &series{sector: in.Sector, history: append([]int64(nil), h...)}
	}
	return b, nil
}

// Instruments returns instrument names in catalog order.
func (b *Book) Instruments() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Sector returns the sector an instrument belongs to.
func (b *Book) Sector(name string) (string, bool) {
	s, ok := b.series[name]
	if !ok {
		return "", false
	}
	return s.sector, true
}

// Price returns the current price for an instrument.
func (b *Book) Price(name string) (int64, bool) {
	s, ok := b.series[name]
	if !ok {
		return 0, false
	}
	return s.history[len(s.history)-1], true
}

// PreviousPrice returns the prior close, or 0 if there is only one sample.
func (b *Book) PreviousPrice(name string) (int64, bool) {
	s, ok := b.series[name]
	if !ok || len(s.history) < 2 {
		return 0, false
	}
	return s.history[len(s.history)-2], true
}

// History returns a copy of the full price history for an instrument.
func (b *Book) History(name string) []int64 {
	s, ok := b.series[name]
	if !ok {
		return nil
	}
	out := make([]int64, len(s.history))
	copy(out, s.history)
	return out
}

// Append records a new closing price, which becomes the current price.
// Prices below 1 are rejected; callers clamp before writing.
func (b *Book) Append(name string, price int64) error {
	if price < 1 {
		return fmt.Errorf("refusing non-positive price %d for %s", price, name)
	}
	s, ok := b.series[name]
	if !ok {
		return fmt.Errorf("unknown instrument %s", name)
	}
	s.history = append(s.history, price)
	return nil
}

// Snapshot returns the full histories keyed by instrument, for serialization.
func (b *Book) Snapshot() map[string][]int64 {
	out := make(map[string][]int64, len(b.series))
	for name, s := range b.series {
		out[name] = append([]int64(nil), s.history...)
	}
	return out
}
