package catalog

import (
	"testing"

	"llm-market-sim/internal/types"
)

func TestCatalogIsConsistent(t *testing.T) {
	if len(Sectors()) == 0 {
		t.Fatal("Expected a non-empty sector universe")
	}

	seen := make(map[string]bool)
	for _, in := range Instruments() {
		if seen[in.Name] {
			t.Errorf("Duplicate instrument name %q", in.Name)
		}
		seen[in.Name] = true

		if !HasSector(in.Sector) {
			t.Errorf("Instrument %q references unknown sector %q", in.Name, in.Sector)
		}
		if in.PriceBand[0] < 1 || in.PriceBand[1] <= in.PriceBand[0] {
			t.Errorf("Instrument %q has invalid price band [%d, %d]", in.Name, in.PriceBand[0], in.PriceBand[1])
		}
	}
}

func TestEverySectorHasInstruments(t *testing.T) {
	counts := make(map[string]int)
	for _, in := range Instruments() {
		counts[in.Sector]++
	}
	for _, s := range Sectors() {
		if counts[s] == 0 {
			t.Errorf("Sector %q has no instruments", s)
		}
	}
}

func TestFind(t *testing.T) {
	in, ok := Find("Hanbit Electronics")
	if !ok {
		t.Fatal("Expected to find Hanbit Electronics")
	}
	if in.Sector != "Technology" {
		t.Errorf("Expected Technology sector, got %s", in.Sector)
	}

	if _, ok := Find("No Such Company"); ok {
		t.Error("Expected lookup miss for unknown name")
	}
}

func TestDescriptionsPerTier(t *testing.T) {
	for _, in := range Instruments() {
		elem := in.Description(types.TierElementary)
		mid := in.Description(types.TierMiddle)
		high := in.Description(types.TierHigh)
		if elem == "" || mid == "" || high == "" {
			t.Errorf("Instrument %q is missing a tier description", in.Name)
		}
	}

	// Unknown tiers read as the middle-tier text.
	in, _ := Find("Hanbit Electronics")
	if in.Description(types.Tier("other")) != in.Description(types.TierMiddle) {
		t.Error("Expected middle-tier fallback for unknown tier")
	}
}

func TestGlossary(t *testing.T) {
	for _, tier := range []types.Tier{types.TierElementary, types.TierMiddle, types.TierHigh} {
		terms := Glossary(tier)
		if len(terms) == 0 {
			t.Errorf("Expected glossary terms for tier %s", tier)
		}
		for _, term := range terms {
			if term.Name == "" || term.Definition == "" {
				t.Errorf("Empty glossary entry in tier %s", tier)
			}
		}
	}

	fallback := Glossary(types.Tier("other"))
	elem := Glossary(types.TierElementary)
	if len(fallback) != len(elem) {
		t.Error("Expected elementary fallback for unknown tier")
	}
}
