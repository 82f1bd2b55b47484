package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func a4BlackWhite(pages, series int) ItemConfig {
	cfg := NewItemConfig()
	cfg.PaperSize = PaperA4
	cfg.PrintQuality = QualityBlackWhite
	cfg.Sides = SingleSided
	cfg.ManualPages = pages
	cfg.SeriesCount = series
	return cfg
}

func TestComputeCost_SingleSeries(t *testing.T) {
	got := ComputeCost(a4BlackWhite(600, 1), DefaultTable())

	assert.Equal(t, 600, got.SheetsPerCopy)
	assert.Equal(t, 600, got.TotalSheets)
	assert.Equal(t, Money(1100), got.UnitPricePerSheet)
	assert.Equal(t, Money(660000), got.PrintCost)
	assert.Equal(t, Money(0), got.ServiceCost)
	assert.Equal(t, Money(660000), got.TotalCost)
}

func TestComputeCost_SeriesCrossTierBoundary(t *testing.T) {
	got := ComputeCost(a4BlackWhite(600, 2), DefaultTable())

	assert.Equal(t, 1200, got.TotalSheets)
	assert.Equal(t, Money(890), got.UnitPricePerSheet)
	assert.Equal(t, Money(1068000), got.PrintCost)
	assert.Equal(t, Money(1068000), got.TotalCost)
}

func TestComputeCost_ServiceIsFlatPerSeries(t *testing.T) {
	cfg := a4BlackWhite(40, 3)
	cfg.Sides = DoubleSided
	cfg.Service = ServiceSpring

	got := ComputeCost(cfg, DefaultTable())

	// 20 sheets per copy, 60 in total: first tier.
	assert.Equal(t, 20, got.SheetsPerCopy)
	assert.Equal(t, Money(2400), got.UnitPricePerSheet)
	assert.Equal(t, Money(20*2400*3), got.PrintCost)
	assert.Equal(t, Money(35000), got.ServiceCostPerSeries)
	assert.Equal(t, Money(105000), got.ServiceCost)
	assert.Equal(t, got.PrintCost+got.ServiceCost, got.TotalCost)
}

func TestComputeCost_UsesAdjustedFilePages(t *testing.T) {
	cfg := a4BlackWhite(0, 1)
	cfg.Sides = DoubleSided
	cfg.Files = []SourceFile{NewSourceFile("a.pdf", 101, DoubleSided)}

	got := ComputeCost(cfg, DefaultTable())
	assert.Equal(t, 51, got.SheetsPerCopy)
}

func TestComputeCost_ZeroBreakdown(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name   string
		mutate func(*ItemConfig)
	}{
		{"no paper size", func(c *ItemConfig) { c.PaperSize = "" }},
		{"no quality", func(c *ItemConfig) { c.PrintQuality = "" }},
		{"no sides", func(c *ItemConfig) { c.Sides = "" }},
		{"zero series", func(c *ItemConfig) { c.SeriesCount = 0 }},
		{"negative series", func(c *ItemConfig) { c.SeriesCount = -1 }},
		{"zero pages", func(c *ItemConfig) { c.ManualPages = 0 }},
		{"unknown service", func(c *ItemConfig) { c.Service = "gold-leaf" }},
		{"too many pages", func(c *ItemConfig) { c.ManualPages = MaxPages + 1 }},
		{"too many series", func(c *ItemConfig) { c.SeriesCount = MaxSeries + 1 }},
		{"huge page count", func(c *ItemConfig) { c.ManualPages = (1 << 62) + 1; c.SeriesCount = 4 }},
		{"huge file", func(c *ItemConfig) {
			c.Files = []SourceFile{{Name: "a.pdf", ActualPageCount: 1 << 62, AdjustedPageCount: 1 << 62}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := a4BlackWhite(10, 1)
			tt.mutate(&cfg)

			got := ComputeCost(cfg, table)
			assert.Equal(t, Breakdown{}, got)
			assert.False(t, got.Ready())
		})
	}
}

func TestComputeCost_MissingTableEntries(t *testing.T) {
	table := DefaultTable()
	delete(table.Tiered[PaperA4], QualityColorC)

	cfg := a4BlackWhite(10, 1)
	cfg.PrintQuality = QualityColorC
	assert.Equal(t, Breakdown{}, ComputeCost(cfg, table))

	// A gap in the tiers leaves large volumes unpriced.
	table = DefaultTable()
	table.Tiered[PaperA4][QualityBlackWhite] = table.Tiered[PaperA4][QualityBlackWhite][:2]
	assert.Equal(t, Breakdown{}, ComputeCost(a4BlackWhite(600, 1), table))

	assert.Equal(t, Breakdown{}, ComputeCost(a4BlackWhite(600, 1), nil))
}

func TestComputeCost_Deterministic(t *testing.T) {
	table := DefaultTable()
	cfg := a4BlackWhite(321, 4)
	cfg.Service = ServiceSimple

	first := ComputeCost(cfg, table)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ComputeCost(cfg, table))
	}
}

func TestComputeCost_MonotonicInSeries(t *testing.T) {
	table := DefaultTable()

	for _, size := range PaperSizes {
		for _, quality := range PrintQualities {
			for _, sides := range Sides {
				prev := Money(0)
				for series := 1; series <= 20; series++ {
					cfg := ItemConfig{
						PaperSize:    size,
						PrintQuality: quality,
						Sides:        sides,
						ManualPages:  600,
						SeriesCount:  series,
						Service:      ServiceSimple,
					}
					got := ComputeCost(cfg, table)
					require.True(t, got.Ready())

					assert.GreaterOrEqual(t, got.TotalCost, prev,
						"%s/%s/%s series %d", size, quality, sides, series)
					prev = got.TotalCost
				}
			}
		}
	}
}

func TestComputeCost_VolumeDiscount(t *testing.T) {
	table := DefaultTable()

	for _, pages := range []int{1, 57, 333, 600} {
		for _, size := range PaperSizes {
			for _, quality := range PrintQualities {
				for _, sides := range Sides {
					prev := Money(-1)
					for series := 1; series <= 120; series++ {
						cfg := ItemConfig{
							PaperSize:    size,
							PrintQuality: quality,
							Sides:        sides,
							ManualPages:  pages,
							SeriesCount:  series,
							Service:      ServiceNone,
						}
						got := ComputeCost(cfg, table)
						if prev >= 0 {
							require.LessOrEqual(t, got.UnitPricePerSheet, prev,
								"%d pages %s/%s/%s series %d", pages, size, quality, sides, series)
						}
						prev = got.UnitPricePerSheet
					}
				}
			}
		}
	}
}

func TestComputeCost_AtLimits(t *testing.T) {
	got := ComputeCost(a4BlackWhite(MaxPages, MaxSeries), DefaultTable())
	require.True(t, got.Ready())
	assert.Equal(t, MaxPages*MaxSeries, got.TotalSheets)
	assert.Equal(t, Money(MaxPages*MaxSeries)*got.UnitPricePerSheet, got.PrintCost)
}

func TestComputeCost_CostOverflow(t *testing.T) {
	table := DefaultTable()
	table.Tiered[PaperA4][QualityBlackWhite][0].Prices.Single = 1 << 62

	got := ComputeCost(a4BlackWhite(2, 2), table)
	assert.Equal(t, Breakdown{}, got)
	assert.False(t, got.Ready())

	table = DefaultTable()
	table.Services[ServiceSpring] = 1 << 62
	cfg := a4BlackWhite(2, 2)
	cfg.Service = ServiceSpring
	assert.Equal(t, Breakdown{}, ComputeCost(cfg, table))
}
