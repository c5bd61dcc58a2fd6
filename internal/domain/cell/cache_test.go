package cell

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/tabula/internal/domain/field"
)

func TestDataCacheMemoizesDecodes(t *testing.T) {
	reg := NewRegistry()
	cache := NewDataCache()
	f := field.New("Price", field.Number)
	c := Cell{FieldType: field.Number, Raw: "42"}

	data := DecodeCellData(reg, c, f, cache)
	require.False(t, data.IsEmpty())
	require.Equal(t, 1, cache.Len())

	cached, ok := cache.Get(f.ID, f.FieldType, c)
	require.True(t, ok)
	require.Equal(t, data, cached)
}

func TestDataCacheKeysIncludeFieldType(t *testing.T) {
	reg := NewRegistry()
	cache := NewDataCache()
	f := field.New("Value", field.Number)
	c := Cell{FieldType: field.Number, Raw: "42"}

	DecodeCellData(reg, c, f, cache)

	// Retyping the field misses the old entry instead of serving stale data.
	f.FieldType = field.RichText
	_, ok := cache.Get(f.ID, f.FieldType, c)
	require.False(t, ok)

	text := DecodeCellData(reg, c, f, cache)
	require.Equal(t, "42", text.String())
	require.Equal(t, 2, cache.Len())
}

func TestDataCacheInvalidateDropsOnlyTheField(t *testing.T) {
	reg := NewRegistry()
	cache := NewDataCache()
	a := field.New("A", field.Number)
	b := field.New("B", field.Number)
	c := Cell{FieldType: field.Number, Raw: "7"}

	DecodeCellData(reg, c, a, cache)
	DecodeCellData(reg, c, b, cache)
	require.Equal(t, 2, cache.Len())

	cache.Invalidate(a.ID)
	require.Equal(t, 1, cache.Len())
	_, ok := cache.Get(b.ID, b.FieldType, c)
	require.True(t, ok)
}
