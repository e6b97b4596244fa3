package types

import "github.com/shopspring/decimal"

// Tier is the difficulty level the session was initialized with.
// It changes prompt wording and which instrument description is shown,
// never the market mechanics.
type Tier string

const (
	TierElementary Tier = "elementary"
	TierMiddle     Tier = "middle"
	TierHigh       Tier = "high"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierElementary, TierMiddle, TierHigh:
		return true
	}
	return false
}

// Interpretation is the structured result of reading one news item.
// Sectors is always a subset of the session's sector universe.
type Interpretation struct {
	Explanation string   `json:"explanation"`
	Sectors     []string `json:"sectors"`
}

// Quote is one row of the price listing.
type Quote struct {
	Name        string  `json:"name"`
	Sector      string  `json:"sector"`
	Price       int64   `json:"price"`
	ChangePct   float64 `json:"change_pct"` // vs previous close, 0 on day 1
	Description string  `json:"description"`
}

// PositionView is one held instrument in the portfolio summary.
type PositionView struct {
	Name       string          `json:"name"`
	Sector     string          `json:"sector"`
	Quantity   int64           `json:"quantity"`
	AvgCost    decimal.Decimal `json:"avg_cost"`
	Price      int64           `json:"price"`
	Value      decimal.Decimal `json:"value"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
	ProfitRate float64         `json:"profit_rate"`
}

// PortfolioSummary is the valuation of the whole portfolio at current prices.
type PortfolioSummary struct {
	Cash        decimal.Decimal `json:"cash"`
	TotalValue  decimal.Decimal `json:"total_value"`
	ProfitLoss  decimal.Decimal `json:"profit_loss"`
	ProfitRate  float64         `json:"profit_rate"`
	InitialCash decimal.Decimal `json:"initial_cash"`
	Positions   []PositionView  `json:"positions"`

	// Display strings formatted in the session currency.
	CashDisplay       string `json:"cash_display"`
	TotalValueDisplay string `json:"total_value_display"`
}

// InterpretedNews pairs a previous-day news item with its interpretation.
type InterpretedNews struct {
	Index          int            `json:"index"` // 1-based slot, stable across the day
	Text           string         `json:"text"`
	Interpretation Interpretation `json:"interpretation"`
}
