package format

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a", "a", 0},
		{"a", "b", -1},
		{"item2", "item10", -1},
		{"item10", "item2", 1},
		{"x10y", "x10z", -1},
		{"a", "ab", -1},
		{"a1", "a", 1},
		{"B", "a", -1},
		{"a01", "a1", -1},
		{"a1", "a01", 1},
		{"v1.10", "v1.9", 1},
		{"n99999999999999999999999", "n100000000000000000000000", -1},
		{"10", "9", 1},
		{"", "", 0},
		{"", "a", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareNatural(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareNatural(tt.b, tt.a))
			assert.Equal(t, tt.want < 0, NaturalLess(tt.a, tt.b))
		})
	}
}

func TestCompareNatural_Sort(t *testing.T) {
	names := []string{"item10", "item2", "item1", "a01", "a1", "b", "item02"}
	slices.SortFunc(names, CompareNatural)
	assert.Equal(t, []string{"a01", "a1", "b", "item1", "item02", "item2", "item10"}, names)
}
