package pricing

import "math"

// Limits of a single item. Configurations beyond them are not priced.
const (
	MaxPages  = 10000
	MaxSeries = 1000
	// MaxPrice bounds every unit and service price an admin may set.
	MaxPrice Money = 100_000_000
)

// ItemConfig is one print job as configured by the customer. Empty enum
// fields mean the customer has not chosen yet.
type ItemConfig struct {
	PaperSize     PaperSize    `json:"paper_size"`
	PrintQuality  PrintQuality `json:"print_quality"`
	Sides         Sidedness    `json:"sides"`
	ManualPages   int          `json:"manual_page_count"`
	Files         []SourceFile `json:"files,omitempty"`
	SeriesCount   int          `json:"series_count"`
	Service       Service      `json:"service"`
	Cover         CoverType    `json:"cover,omitempty"`
	SpringColor   SpringColor  `json:"spring_color,omitempty"`
	UploadMethod  UploadMethod `json:"upload_method,omitempty"`
	UploadDetails string       `json:"upload_details,omitempty"`
	Description   string       `json:"description,omitempty"`
}

// NewItemConfig returns the starting configuration of a fresh item.
func NewItemConfig() ItemConfig {
	return ItemConfig{
		ManualPages: 1,
		SeriesCount: 1,
		Service:     ServiceNone,
		Cover:       CoverNone,
		SpringColor: SpringWhite,
	}
}

// Complete reports whether every choice affecting the price has been made.
func (c ItemConfig) Complete() bool {
	return c.PaperSize.Valid() && c.PrintQuality.Valid() && c.Sides.Valid() && c.SeriesCount >= 1
}

// PageCount is the page count used for pricing.
func (c ItemConfig) PageCount() int {
	return ResolvePageCount(c.Files, c.ManualPages)
}

// WithinLimits reports whether the page and series counts are in range.
func (c ItemConfig) WithinLimits() bool {
	if c.SeriesCount > MaxSeries || c.ManualPages > MaxPages {
		return false
	}
	for _, f := range c.Files {
		if f.AdjustedPageCount < 0 || f.AdjustedPageCount > MaxPages {
			return false
		}
	}
	return c.PageCount() <= MaxPages
}

// Clone copies the config so the result shares no slice with c.
func (c ItemConfig) Clone() ItemConfig {
	c.Files = append([]SourceFile(nil), c.Files...)
	return c
}

// Breakdown is the priced result for one item. The zero value means the item
// is not ready to be ordered.
type Breakdown struct {
	SheetsPerCopy        int   `json:"sheets_per_copy"`
	TotalSheets          int   `json:"total_sheets"`
	UnitPricePerSheet    Money `json:"unit_price_per_sheet"`
	PrintCost            Money `json:"print_cost"`
	ServiceCostPerSeries Money `json:"service_cost_per_series"`
	ServiceCost          Money `json:"service_cost"`
	TotalCost            Money `json:"total_cost"`
}

func (b Breakdown) Ready() bool {
	return b.TotalSheets > 0
}

// ComputeCost prices cfg against t. The unit price comes from the tier that
// covers the volume of all series together; the print cost is still sheets
// per copy times unit price times series. Incomplete configs, missing tiers,
// unknown services, counts beyond the item limits and costs that do not fit
// in Money yield the zero Breakdown.
func ComputeCost(cfg ItemConfig, t *Table) Breakdown {
	if t == nil || !cfg.Complete() || !cfg.WithinLimits() {
		return Breakdown{}
	}

	sheets := SheetsPerCopy(cfg.PageCount(), cfg.Sides)
	if sheets <= 0 {
		return Breakdown{}
	}

	totalSheets, ok := mulInt(sheets, cfg.SeriesCount)
	if !ok {
		return Breakdown{}
	}
	tier, ok := t.FindTier(cfg.PaperSize, cfg.PrintQuality, totalSheets)
	if !ok {
		return Breakdown{}
	}
	unit, ok := tier.Prices.For(cfg.Sides)
	if !ok {
		return Breakdown{}
	}

	service := cfg.Service
	if service == "" {
		service = ServiceNone
	}
	servicePerSeries, ok := t.ServicePrice(service)
	if !ok {
		return Breakdown{}
	}

	series := Money(cfg.SeriesCount)
	printCost, ok := mulMoney(Money(totalSheets), unit)
	if !ok {
		return Breakdown{}
	}
	serviceCost, ok := mulMoney(servicePerSeries, series)
	if !ok || printCost > math.MaxInt64-serviceCost {
		return Breakdown{}
	}

	return Breakdown{
		SheetsPerCopy:        sheets,
		TotalSheets:          totalSheets,
		UnitPricePerSheet:    unit,
		PrintCost:            printCost,
		ServiceCostPerSeries: servicePerSeries,
		ServiceCost:          serviceCost,
		TotalCost:            printCost + serviceCost,
	}
}

func mulInt(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

func mulMoney(a, b Money) (Money, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}
