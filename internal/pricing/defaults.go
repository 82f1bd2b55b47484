package pricing

// Volume bands shared by every size/quality pair of the default table.
var defaultBands = [][2]int{{1, 99}, {100, 499}, {500, 999}, {1000, 0}}

// DefaultTable returns the built-in price list used when nothing is persisted.
func DefaultTable() *Table {
	return &Table{
		Tiered: map[PaperSize]map[PrintQuality][]PriceTier{
			PaperA5: {
				QualityBlackWhite: bandTiers([4]Money{750, 650, 550, 445}, [4]Money{1200, 1050, 900, 750}),
				QualityColorB:     bandTiers([4]Money{2250, 2000, 1750, 1500}, [4]Money{3750, 3400, 3000, 2600}),
				QualityColorC:     bandTiers([4]Money{3500, 3150, 2800, 2450}, [4]Money{6000, 5400, 4800, 4200}),
			},
			PaperA4: {
				QualityBlackWhite: bandTiers([4]Money{1500, 1300, 1100, 890}, [4]Money{2400, 2100, 1800, 1500}),
				QualityColorB:     bandTiers([4]Money{4500, 4000, 3500, 3000}, [4]Money{7500, 6800, 6000, 5200}),
				QualityColorC:     bandTiers([4]Money{7000, 6300, 5600, 4900}, [4]Money{12000, 10800, 9600, 8400}),
			},
			PaperA3: {
				QualityBlackWhite: bandTiers([4]Money{3000, 2600, 2200, 1780}, [4]Money{4800, 4200, 3600, 3000}),
				QualityColorB:     bandTiers([4]Money{9000, 8000, 7000, 6000}, [4]Money{15000, 13600, 12000, 10400}),
				QualityColorC:     bandTiers([4]Money{14000, 12600, 11200, 9800}, [4]Money{24000, 21600, 19200, 16800}),
			},
		},
		Services: map[Service]Money{
			ServiceSimple: 15000,
			ServiceSpring: 35000,
		},
	}
}

func bandTiers(single, double [4]Money) []PriceTier {
	tiers := make([]PriceTier, len(defaultBands))
	for i, band := range defaultBands {
		tiers[i] = PriceTier{
			Min:    band[0],
			Max:    band[1],
			Prices: TierPrices{Single: single[i], Double: double[i]},
		}
	}
	return tiers
}
