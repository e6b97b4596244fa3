package session

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"llm-market-sim/internal/ledger"
	"llm-market-sim/internal/market"
	"llm-market-sim/internal/types"
)

// positionState is the serialized form of one holding.
type positionState struct {
	Quantity int64           `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost"`
}

// State is the serialized session blob stored per account. Field names are
// part of the save format; changing them breaks existing saves.
type State struct {
	SessionID       string                   `json:"session_id"`
	Tier            types.Tier               `json:"tier"`
	Day             int                      `json:"day"`
	InitialCash     decimal.Decimal          `json:"initial_cash"`
	Cash            decimal.Decimal          `json:"cash"`
	Positions       map[string]positionState `json:"positions"`
	Histories       map[string][]int64       `json:"stocks"`
	DailyNews       []string                 `json:"daily_news"`
	PreviousNews    []string                 `json:"previous_news"`
	Interpretations []types.Interpretation   `json:"interpretations"`
}

// Serialize snapshots the session into a JSON blob. Non-finite floats are
// replaced with null so the blob always round-trips through JSON stores.
func (s *Session) Serialize() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serializeLocked()
}

func (s *Session) serializeLocked() ([]byte, error) {
	positions := make(map[string]positionState)
	for name, pos := range s.ledger.Snapshot() {
		positions[name] = positionState{Quantity: pos.Quantity, AvgCost: pos.AvgCost}
	}

	st := State{
		SessionID:       s.id,
		Tier:            s.tier,
		Day:             s.day,
		InitialCash:     s.ledger.InitialCash(),
		Cash:            s.ledger.Cash(),
		Positions:       positions,
		Histories:       s.book.Snapshot(),
		DailyNews:       s.dailyNews,
		PreviousNews:    s.previousNews,
		Interpretations: s.interpretations,
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("serialize session: %w", err)
	}
	return sanitizeJSON(raw)
}

// Load replaces the session's state with a previously serialized blob.
func (s *Session) Load(blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st State
	if err := json.Unmarshal(blob, &st); err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !st.Tier.Valid() {
		return fmt.Errorf("load session: unknown tier %q", st.Tier)
	}
	if st.Day < 1 {
		return fmt.Errorf("load session: day counter %d out of range", st.Day)
	}

	book, err := market.Restore(st.Histories)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	positions := make(map[string]ledger.Position, len(st.Positions))
	for name, p := range st.Positions {
		if p.Quantity <= 0 {
			return fmt.Errorf("load session: position %q has non-positive quantity", name)
		}
		positions[name] = ledger.Position{Quantity: p.Quantity, AvgCost: p.AvgCost}
	}

	s.id = st.SessionID
	s.tier = st.Tier
	s.day = st.Day
	s.book = book
	s.ledger = ledger.Restore(st.InitialCash, st.Cash, positions)
	s.dailyNews = st.DailyNews
	s.previousNews = st.PreviousNews
	s.interpretations = st.Interpretations
	return nil
}

// sanitizeJSON reparses a JSON document and nulls out any NaN or infinite
// numbers. Go's encoder rejects them outright, but blobs written by other
// tooling may carry them, and the save path normalizes either way.
func sanitizeJSON(raw []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(sanitizeValue(doc))
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = sanitizeValue(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = sanitizeValue(e)
		}
		return t
	default:
		return v
	}
}
