package catalog

import "llm-market-sim/internal/types"

// Term is one glossary entry, worded per difficulty tier.
type Term struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

var glossary = map[types.Tier][]Term{
	types.TierElementary: {
		{"Stock", "A small piece of a company. If you own one, you own part of the company!"},
		{"Price", "What one share costs. It goes up when many people want to buy it."},
		{"Buy", "Getting a share with your money."},
		{"Sell", "Trading your share back for money."},
		{"Portfolio", "Your bundle of shares and cash."},
		{"Return", "A number that shows how much your money grew."},
		{"Sector", "A group of companies that do similar things, like all the car makers."},
		{"News", "Stories about the world. Good news can make prices go up."},
		{"Cash", "Money you can spend right now."},
		{"Profit and loss", "Whether you earned money or lost some."},
	},
	types.TierMiddle: {
		{"Stock", "A certificate of ownership a company issues to raise money."},
		{"Share price", "The market price of one share, set by supply and demand."},
		{"Buy (long)", "Purchasing shares expecting the price to rise."},
		{"Sell", "Disposing of shares to realize a gain or cut a loss."},
		{"Portfolio", "The mix of assets an investor holds."},
		{"Rate of return", "Profit divided by the money invested, as a percentage."},
		{"Volatility", "How much prices swing up and down."},
		{"Sector", "An industry grouping such as IT or biotech."},
		{"Daily change", "Today's price versus yesterday's close, in percent."},
		{"Valuation", "Quantity held times current price."},
		{"Market cap", "Share price times total shares outstanding."},
	},
	types.TierHigh: {
		{"Common stock", "An equity security carrying voting and dividend rights."},
		{"Share price", "The market-clearing price reflecting fundamentals, sentiment and macro conditions."},
		{"Long position", "Holding an asset in expectation of appreciation."},
		{"Position closing", "Selling holdings to realize profit or loss."},
		{"Portfolio", "A diversified collection of assets balancing risk and return."},
		{"Volatility", "Statistical dispersion of returns, often measured by standard deviation."},
		{"Sector classification", "Industry taxonomy used to analyze cyclicality and correlation."},
		{"Mark to market", "Valuing holdings at current market prices."},
		{"Realized vs unrealized P&L", "Gains locked in by trades versus paper gains on open positions."},
		{"PER", "Price-to-earnings ratio: share price over earnings per share."},
		{"PBR", "Price-to-book ratio: share price over book value per share."},
		{"ROE", "Return on equity: net income over shareholders' equity."},
	},
}

// Glossary returns the term list for a tier, falling back to elementary.
func Glossary(tier types.Tier) []Term {
	if terms, ok := glossary[tier]; ok {
		out := make([]Term, len(terms))
		copy(out, terms)
		return out
	}
	out := make([]Term, len(glossary[types.TierElementary]))
	copy(out, glossary[types.TierElementary])
	return out
}
