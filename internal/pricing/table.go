package pricing

import (
	"errors"
	"fmt"
)

// ConfigKey identifies the persisted pricing document.
const ConfigKey = "printShopPricingConfig"

var ErrInvalidTable = errors.New("invalid pricing table")

// TierPrices holds the per-sheet unit price for each side option.
type TierPrices struct {
	Single Money `json:"single"`
	Double Money `json:"double"`
}

func (p TierPrices) For(s Sidedness) (Money, bool) {
	switch s {
	case SingleSided:
		return p.Single, true
	case DoubleSided:
		return p.Double, true
	default:
		return 0, false
	}
}

// PriceTier covers the aggregate sheet volumes Min..Max. Max == 0 marks the
// open-ended last tier; a JSON null decodes to it as well.
type PriceTier struct {
	Min    int        `json:"min"`
	Max    int        `json:"max"`
	Prices TierPrices `json:"prices"`
}

func (t PriceTier) Unbounded() bool {
	return t.Max == 0
}

func (t PriceTier) Contains(sheets int) bool {
	return sheets >= t.Min && (t.Unbounded() || sheets <= t.Max)
}

// Table is the pricing configuration. A *Table handed out by the
// Administrator is a read-only snapshot; edits produce a new Table.
type Table struct {
	Tiered   map[PaperSize]map[PrintQuality][]PriceTier `json:"tiered"`
	Services map[Service]Money                          `json:"services"`
}

// Tiers returns the tier list for a size/quality pair.
func (t *Table) Tiers(size PaperSize, quality PrintQuality) ([]PriceTier, bool) {
	if t == nil {
		return nil, false
	}
	byQuality, ok := t.Tiered[size]
	if !ok {
		return nil, false
	}
	tiers, ok := byQuality[quality]
	return tiers, ok && len(tiers) > 0
}

// FindTier returns the tier covering the given aggregate sheet count.
func (t *Table) FindTier(size PaperSize, quality PrintQuality, totalSheets int) (PriceTier, bool) {
	tiers, ok := t.Tiers(size, quality)
	if !ok {
		return PriceTier{}, false
	}
	for _, tier := range tiers {
		if tier.Contains(totalSheets) {
			return tier, true
		}
	}
	return PriceTier{}, false
}

// ServicePrice returns the flat per-series price; ServiceNone is always free.
func (t *Table) ServicePrice(s Service) (Money, bool) {
	if s == ServiceNone {
		return 0, true
	}
	if t == nil {
		return 0, false
	}
	price, ok := t.Services[s]
	return price, ok
}

// Clone returns a deep copy sharing no maps or slices with t.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Tiered:   make(map[PaperSize]map[PrintQuality][]PriceTier, len(t.Tiered)),
		Services: make(map[Service]Money, len(t.Services)),
	}
	for size, byQuality := range t.Tiered {
		qualities := make(map[PrintQuality][]PriceTier, len(byQuality))
		for quality, tiers := range byQuality {
			qualities[quality] = append([]PriceTier(nil), tiers...)
		}
		out.Tiered[size] = qualities
	}
	for s, price := range t.Services {
		out.Services[s] = price
	}
	return out
}

// Validate checks that every size/quality pair is present and that its tiers
// partition [1, ∞) with prices in [0, MaxPrice], and that every billable
// service has a price in the same range.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	for _, size := range PaperSizes {
		for _, quality := range PrintQualities {
			tiers, ok := t.Tiers(size, quality)
			if !ok {
				return fmt.Errorf("%w: no tiers for %s/%s", ErrInvalidTable, size, quality)
			}
			if err := validateTiers(tiers); err != nil {
				return fmt.Errorf("%w: %s/%s: %v", ErrInvalidTable, size, quality, err)
			}
		}
	}
	for _, s := range BillableServices {
		price, ok := t.Services[s]
		if !ok {
			return fmt.Errorf("%w: no price for service %s", ErrInvalidTable, s)
		}
		if checkPrice(price) != nil {
			return fmt.Errorf("%w: price for service %s out of range", ErrInvalidTable, s)
		}
	}
	return nil
}

func validateTiers(tiers []PriceTier) error {
	next := 1
	for i, tier := range tiers {
		if tier.Min != next {
			return fmt.Errorf("tier %d starts at %d, want %d", i, tier.Min, next)
		}
		if checkPrice(tier.Prices.Single) != nil || checkPrice(tier.Prices.Double) != nil {
			return fmt.Errorf("tier %d has a price out of range", i)
		}
		last := i == len(tiers)-1
		if tier.Unbounded() {
			if !last {
				return fmt.Errorf("tier %d is unbounded but not last", i)
			}
			return nil
		}
		if tier.Max < tier.Min {
			return fmt.Errorf("tier %d ends at %d before it starts", i, tier.Max)
		}
		next = tier.Max + 1
	}
	return errors.New("last tier must be unbounded")
}
