package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_TiersCoverAllVolumes(t *testing.T) {
	table := DefaultTable()
	require.NoError(t, table.Validate())

	for _, size := range PaperSizes {
		for _, quality := range PrintQualities {
			tiers, ok := table.Tiers(size, quality)
			require.True(t, ok, "%s/%s", size, quality)

			for sheets := 1; sheets <= 5000; sheets++ {
				matches := 0
				for _, tier := range tiers {
					if tier.Contains(sheets) {
						matches++
					}
				}
				require.Equal(t, 1, matches, "%s/%s: %d sheets", size, quality, sheets)
			}
			assert.True(t, tiers[len(tiers)-1].Unbounded())
		}
	}
}

func TestDefaultTable_PricesNonIncreasingInVolume(t *testing.T) {
	table := DefaultTable()

	for _, size := range PaperSizes {
		for _, quality := range PrintQualities {
			tiers, _ := table.Tiers(size, quality)
			for i := 1; i < len(tiers); i++ {
				assert.LessOrEqual(t, tiers[i].Prices.Single, tiers[i-1].Prices.Single)
				assert.LessOrEqual(t, tiers[i].Prices.Double, tiers[i-1].Prices.Double)
			}
		}
	}
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Table)
	}{
		{"missing pair", func(tb *Table) { delete(tb.Tiered[PaperA5], QualityColorB) }},
		{"gap", func(tb *Table) { tb.Tiered[PaperA4][QualityBlackWhite][1].Min = 101 }},
		{"overlap", func(tb *Table) { tb.Tiered[PaperA4][QualityBlackWhite][1].Min = 50 }},
		{"bounded last tier", func(tb *Table) { tb.Tiered[PaperA3][QualityColorC][3].Max = 5000 }},
		{"negative tier price", func(tb *Table) { tb.Tiered[PaperA3][QualityColorC][0].Prices.Double = -1 }},
		{"missing service", func(tb *Table) { delete(tb.Services, ServiceSpring) }},
		{"negative service", func(tb *Table) { tb.Services[ServiceSimple] = -10 }},
		{"tier price above limit", func(tb *Table) { tb.Tiered[PaperA4][QualityBlackWhite][0].Prices.Single = 1 << 62 }},
		{"service above limit", func(tb *Table) { tb.Services[ServiceSpring] = MaxPrice + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := DefaultTable()
			tt.mutate(table)
			assert.ErrorIs(t, table.Validate(), ErrInvalidTable)
		})
	}

	var nilTable *Table
	assert.ErrorIs(t, nilTable.Validate(), ErrInvalidTable)
}

func TestTable_CloneIsIndependent(t *testing.T) {
	original := DefaultTable()
	clone := original.Clone()

	clone.Tiered[PaperA4][QualityBlackWhite][0].Prices.Single = 1
	clone.Services[ServiceSimple] = 1

	assert.Equal(t, Money(1500), original.Tiered[PaperA4][QualityBlackWhite][0].Prices.Single)
	assert.Equal(t, Money(15000), original.Services[ServiceSimple])
}

func TestTable_JSONShape(t *testing.T) {
	data, err := json.Marshal(DefaultTable())
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "tiered")
	assert.Contains(t, doc, "services")
	assert.Contains(t, doc["tiered"], "A4")
	assert.EqualValues(t, 15000, doc["services"]["simple"])

	var decoded Table
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, DefaultTable(), &decoded)
}

func TestTable_NullMaxDecodesAsUnbounded(t *testing.T) {
	raw := `{"min": 1000, "max": null, "prices": {"single": 890, "double": 1500}}`

	var tier PriceTier
	require.NoError(t, json.Unmarshal([]byte(raw), &tier))
	assert.True(t, tier.Unbounded())
	assert.True(t, tier.Contains(1_000_000))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "0", Money(0).String())
	assert.Equal(t, "890", Money(890).String())
	assert.Equal(t, "1,068,000", Money(1068000).String())
	assert.Equal(t, "-15,000", Money(-15000).String())
}
