package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSheetsPerCopy(t *testing.T) {
	tests := []struct {
		name  string
		pages int
		sides Sidedness
		want  int
	}{
		{"double odd", 101, DoubleSided, 51},
		{"double even", 100, DoubleSided, 50},
		{"single", 100, SingleSided, 100},
		{"double one page", 1, DoubleSided, 1},
		{"zero pages", 0, SingleSided, 0},
		{"negative pages", -4, DoubleSided, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SheetsPerCopy(tt.pages, tt.sides))
		})
	}
}

func TestAdjustedPageCount(t *testing.T) {
	assert.Equal(t, 102, AdjustedPageCount(101, DoubleSided))
	assert.Equal(t, 102, AdjustedPageCount(102, DoubleSided))
	assert.Equal(t, 101, AdjustedPageCount(101, SingleSided))

	// 101 and 102 pages double-sided consume the same sheets.
	assert.Equal(t,
		SheetsPerCopy(AdjustedPageCount(101, DoubleSided), DoubleSided),
		SheetsPerCopy(102, DoubleSided))
}

func TestResolvePageCount(t *testing.T) {
	files := []SourceFile{
		NewSourceFile("thesis.pdf", 33, DoubleSided),
		NewSourceFile("cover.pdf", 2, DoubleSided),
	}

	assert.Equal(t, 36, ResolvePageCount(files, 500))
	assert.Equal(t, 35, ActualPageCount(files, 500))
	assert.Equal(t, 500, ResolvePageCount(nil, 500))
	assert.Equal(t, 500, ActualPageCount(nil, 500))
}
