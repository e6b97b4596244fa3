// Package catalog defines the fixed instrument and sector universe for a
// simulation session. The universe is resolved once at initialization and
// never changes for the life of a session.
package catalog

import (
	"llm-market-sim/internal/types"
)

// Instrument is one catalog entry. PriceBand bounds the randomized
// starting price; the live price series is owned by the market package.
type Instrument struct {
	Name         string
	Sector       string
	PriceBand    [2]int64 // inclusive min, exclusive max
	Descriptions map[types.Tier]string
}

var sectors = []string{
	"Technology",
	"Automotive",
	"Energy",
	"Internet",
	"Consumer Goods",
	"Finance",
	"Construction",
	"Retail",
	"Telecom",
	"Pharma",
	"Chemicals",
	"Steel",
	"Transportation",
	"Entertainment",
	"Food",
}

var instruments = []Instrument{
	{
		Name: "Hanbit Electronics", Sector: "Technology", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes TVs, phones and the tiny chips inside them!",
			types.TierMiddle:     "Flagship electronics maker with global share in smartphones, TVs and memory semiconductors.",
			types.TierHigh:       "Diversified IT leader spanning devices and semiconductors; foundry competitiveness and AI-chip demand drive the outlook.",
		},
	},
	{
		Name: "Polaris Semiconductor", Sector: "Technology", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Builds the memory chips that help computers remember photos and videos.",
			types.TierMiddle:     "Memory semiconductor specialist supplying DRAM and NAND for data centers and mobile devices.",
			types.TierHigh:       "Memory pure-play; high-bandwidth memory for AI servers is the main growth lever, NAND pricing the main risk.",
		},
	},
	{
		Name: "Lumina Display", Sector: "Technology", PriceBand: [2]int64{15_000, 45_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes the bright screens on TVs and phones.",
			types.TierMiddle:     "Display panel producer focused on OLED for TVs, laptops and car dashboards.",
			types.TierHigh:       "OLED migration story; LCD exit largely done, profitability hinges on IT-panel and automotive design wins.",
		},
	},
	{
		Name: "Daehan Motors", Sector: "Automotive", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "A big car company. It builds electric cars too!",
			types.TierMiddle:     "Top domestic carmaker with a full lineup from compacts to dedicated electric vehicles.",
			types.TierHigh:       "Global volume OEM; EV platform ramp and software-defined-vehicle transition are the strategic fronts.",
		},
	},
	{
		Name: "Aria Mobility", Sector: "Automotive", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Designs cool-looking cars that many families drive.",
			types.TierMiddle:     "Design-led carmaker expanding its electric lineup and overseas sales.",
			types.TierHigh:       "Design and EV-focused OEM; purpose-built vehicle segment is the optional upside.",
		},
	},
	{
		Name: "Nova Energy Solutions", Sector: "Energy", PriceBand: [2]int64{280_000, 450_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes big batteries that power electric cars.",
			types.TierMiddle:     "Leading electric-vehicle battery cell maker supplying global car manufacturers.",
			types.TierHigh:       "Tier-one battery cell producer; capacity expansion abroad and subsidy policy shifts dominate the investment case.",
		},
	},
	{
		Name: "Orion Power", Sector: "Energy", PriceBand: [2]int64{15_000, 45_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Builds power plants that make electricity, even from wind!",
			types.TierMiddle:     "Power-plant engineering group covering nuclear, thermal and wind generation equipment.",
			types.TierHigh:       "Power infrastructure builder; small modular reactors and gas turbines are the new-order drivers.",
		},
	},
	{
		Name: "Bluewave Portal", Sector: "Internet", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "The website where you search for everything and read comics.",
			types.TierMiddle:     "Top search portal with commerce, payments, webtoon and cloud businesses.",
			types.TierHigh:       "Search-ad cash cow funding AI, cloud and global content bets; commerce take-rate is the near-term swing factor.",
		},
	},
	{
		Name: "Moa Messenger", Sector: "Internet", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes the chat app everyone uses to message friends.",
			types.TierMiddle:     "Messenger-platform company spanning taxi hailing, payments, games and banking.",
			types.TierHigh:       "Super-app platform; monetization of the messenger base is offset by regulatory pressure on subsidiaries.",
		},
	},
	{
		Name: "Dawon Foods & Bio", Sector: "Consumer Goods", PriceBand: [2]int64{280_000, 450_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes tasty instant rice and frozen dumplings.",
			types.TierMiddle:     "Processed-food leader with ready-meal brands and a growing bio ingredients arm.",
			types.TierHigh:       "Food and bio conglomerate; overseas ready-meal expansion and amino-acid pricing set the earnings path.",
		},
	},
	{
		Name: "Serein Beauty", Sector: "Consumer Goods", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes lotions and makeup people use every day.",
			types.TierMiddle:     "Cosmetics house with luxury and everyday brands sold across Asia.",
			types.TierHigh:       "Cosmetics exporter rebalancing away from a single market; brand rebuilding and travel retail recovery are key.",
		},
	},
	{
		Name: "KN Financial Group", Sector: "Finance", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "A big bank that keeps people's money safe.",
			types.TierMiddle:     "Leading banking group with securities, insurance and card subsidiaries.",
			types.TierHigh:       "Universal banking group; net-interest margin and shareholder-return policy drive the valuation.",
		},
	},
	{
		Name: "Sunrise Holdings", Sector: "Finance", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Another large bank with cards and insurance too.",
			types.TierMiddle:     "Diversified financial holding company balancing bank and non-bank earnings.",
			types.TierHigh:       "Financial holding with a balanced book; capital-ratio headroom supports buybacks.",
		},
	},
	{
		Name: "Grand Construction", Sector: "Construction", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Builds apartments and big buildings.",
			types.TierMiddle:     "Major builder known for its apartment brand, plus plant and infrastructure work.",
			types.TierHigh:       "Housing-weighted builder; presale market sentiment and overseas plant orders set the cycle.",
		},
	},
	{
		Name: "Haeorum Heavy Industries", Sector: "Construction", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Builds huge ships and digging machines.",
			types.TierMiddle:     "Heavy-industry group covering shipbuilding and construction equipment.",
			types.TierHigh:       "Shipbuilding upcycle play; order backlog quality and steel input costs frame margins.",
		},
	},
	{
		Name: "Hanul Mart", Sector: "Retail", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "The big store with everything, from snacks to toys.",
			types.TierMiddle:     "Largest hypermarket chain with warehouse clubs and private-label brands.",
			types.TierHigh:       "Offline retail anchor; online grocery integration and discount-format growth are the profit levers.",
		},
	},
	{
		Name: "Seorin Department Stores", Sector: "Retail", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Fancy stores where people shop for clothes and gifts.",
			types.TierMiddle:     "Department-store operator with malls, supermarkets and an online marketplace.",
			types.TierHigh:       "Premium retail franchise; luxury footfall and e-commerce losses pull earnings in opposite directions.",
		},
	},
	{
		Name: "Kite Telecom", Sector: "Telecom", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Connects your phone and internet at home.",
			types.TierMiddle:     "Full-service carrier providing mobile, broadband and IPTV.",
			types.TierHigh:       "Carrier with B2B cloud and media growth on top of a stable connectivity base.",
		},
	},
	{
		Name: "Star Mobile", Sector: "Telecom", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "The phone company with the fastest 5G.",
			types.TierMiddle:     "Number-one mobile carrier pushing 5G and subscription services.",
			types.TierHigh:       "Mobile market leader repositioning as an AI company; ARPU stabilization is the base case.",
		},
	},
	{
		Name: "Cellgene Biologics", Sector: "Pharma", PriceBand: [2]int64{500_000, 800_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes special medicines that help sick people.",
			types.TierMiddle:     "Contract maker of biologic medicines with world-scale production plants.",
			types.TierHigh:       "Biologics CDMO with top-tier capacity; plant utilization and next-gen modality wins drive growth.",
		},
	},
	{
		Name: "Miru Pharma", Sector: "Pharma", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Discovers new medicines for hard diseases.",
			types.TierMiddle:     "Biosimilar developer selling copies of blockbuster biologic drugs worldwide.",
			types.TierHigh:       "Biosimilar first-mover shifting to direct sales; pipeline launches against expiring patents are the catalysts.",
		},
	},
	{
		Name: "Taeyang Chemical", Sector: "Chemicals", PriceBand: [2]int64{500_000, 800_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes plastics and battery parts used everywhere.",
			types.TierMiddle:     "Chemicals group spanning petrochemicals, battery materials and life sciences.",
			types.TierHigh:       "Chemicals-to-materials transition; cathode material capacity and petchem spreads set the mix.",
		},
	},
	{
		Name: "Baeksan Petrochem", Sector: "Chemicals", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes the rubber for car tires.",
			types.TierMiddle:     "Synthetic rubber and resin producer feeding the tire and plastics industries.",
			types.TierHigh:       "Commodity chemicals name; latex demand normalization and spread recovery are the watch items.",
		},
	},
	{
		Name: "Cheonji Steel", Sector: "Steel", PriceBand: [2]int64{280_000, 450_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes the strong steel for cars and buildings.",
			types.TierMiddle:     "Top steelmaker expanding into battery raw materials.",
			types.TierHigh:       "Integrated steel with a secondary-battery materials option; carbon-transition capex weighs near term.",
		},
	},
	{
		Name: "Namhae Steelworks", Sector: "Steel", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Another steel company, making car panels.",
			types.TierMiddle:     "Steelmaker supplying automotive sheet and construction steel.",
			types.TierHigh:       "Auto-sheet weighted steelmaker; captive group demand cushions construction weakness.",
		},
	},
	{
		Name: "Pacific Airlines", Sector: "Transportation", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "The airplanes you ride to travel far away!",
			types.TierMiddle:     "Full-service airline flying passengers and cargo worldwide.",
			types.TierHigh:       "Flag carrier; passenger yield normalization and fuel-price swings set earnings.",
		},
	},
	{
		Name: "Blue Ocean Shipping", Sector: "Transportation", PriceBand: [2]int64{30_000, 90_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Giant ships that carry boxes of goods across the sea.",
			types.TierMiddle:     "Container shipping line moving export cargo on global routes.",
			types.TierHigh:       "Container carrier with high freight-rate sensitivity; fleet renewal and alliance shifts matter.",
		},
	},
	{
		Name: "Starlight Entertainment", Sector: "Entertainment", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "The company behind your favorite idol groups!",
			types.TierMiddle:     "Entertainment agency producing global pop acts and fan platforms.",
			types.TierHigh:       "Multi-label music company; artist pipeline and platform monetization drive the multiple.",
		},
	},
	{
		Name: "Hangang Media", Sector: "Entertainment", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes TV shows, movies and music channels.",
			types.TierMiddle:     "Media group running broadcast channels, films and a streaming service.",
			types.TierHigh:       "Content producer; streaming profitability and ad-market recovery are the key variables.",
		},
	},
	{
		Name: "Haneul Confectionery", Sector: "Food", PriceBand: [2]int64{120_000, 280_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes choco pies and potato chips!",
			types.TierMiddle:     "Snack maker with strong overseas sales in several countries.",
			types.TierHigh:       "Confectioner with diversified country exposure; input-cost pass-through protects margins.",
		},
	},
	{
		Name: "Woori Noodles", Sector: "Food", PriceBand: [2]int64{280_000, 450_000},
		Descriptions: map[types.Tier]string{
			types.TierElementary: "Makes the spicy instant noodles everyone loves.",
			types.TierMiddle:     "Instant-noodle leader growing fast in the American market.",
			types.TierHigh:       "Ramen exporter; overseas plant utilization and pricing power are the earnings drivers.",
		},
	},
}

var byName = func() map[string]Instrument {
	m := make(map[string]Instrument, len(instruments))
	for _, in := range instruments {
		m[in.Name] = in
	}
	return m
}()

// Sectors returns the fixed sector universe in catalog order.
func Sectors() []string {
	out := make([]string, len(sectors))
	copy(out, sectors)
	return out
}

// Instruments returns the full catalog in stable order.
func Instruments() []Instrument {
	out := make([]Instrument, len(instruments))
	copy(out, instruments)
	return out
}

// Find returns the catalog entry for an instrument name.
func Find(name string) (Instrument, bool) {
	in, ok := byName[name]
	return in, ok
}

// HasSector reports whether the sector name belongs to the fixed universe.
func HasSector(name string) bool {
	for _, s := range sectors {
		if s == name {
			return true
		}
	}
	return false
}

// Description returns the tier-appropriate description for an instrument,
// falling back to the middle tier wording.
func (in Instrument) Description(tier types.Tier) string {
	if d, ok := in.Descriptions[tier]; ok {
		return d
	}
	return in.Descriptions[types.TierMiddle]
}
