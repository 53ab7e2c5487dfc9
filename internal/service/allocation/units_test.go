package allocation

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery-backend/internal/service/capacity"
	"bakery-backend/internal/storage"
)

func int64Ptr(v int64) *int64 { return &v }

func testCostTable() *capacity.CostTable {
	return capacity.NewCostTable([]storage.Category{
		{ID: 1, Name: "Birthday Cake", MakingTimeMinutes: 50},
		{ID: 2, Name: "Croissant", MakingTimeMinutes: 5},
	})
}

func TestDecompose_QuantityYieldsUnits(t *testing.T) {
	items := []storage.OrderItem{
		{ID: 10, Kind: storage.ItemKindCatalog, CategoryID: int64Ptr(1), Quantity: 3},
		{ID: 11, Kind: storage.ItemKindCatalog, CategoryID: int64Ptr(2), Quantity: 2},
	}

	units := Decompose(slog.Default(), items, testCostTable())

	require.Len(t, units, 5)
	assert.Equal(t, "10-0", units[0].ID)
	assert.Equal(t, "10-2", units[2].ID)
	assert.Equal(t, 50, units[0].MinutesCost)
	assert.Equal(t, int64(10), units[0].OriginalItemID)
	assert.Equal(t, 5, units[3].MinutesCost)
}

func TestDecompose_IsDeterministic(t *testing.T) {
	items := []storage.OrderItem{
		{ID: 10, Kind: storage.ItemKindCatalog, CategoryID: int64Ptr(1), Quantity: 4},
		{ID: 11, Kind: storage.ItemKindCustom, Quantity: 2},
	}

	first := Decompose(slog.Default(), items, testCostTable())
	second := Decompose(slog.Default(), items, testCostTable())

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].MinutesCost, second[i].MinutesCost)
	}
}

func TestUnitIDRoundTrip(t *testing.T) {
	id := storage.UnitID(42, 7)
	assert.Equal(t, "42-7", id)

	itemID, err := storage.ParseUnitID(id)
	require.NoError(t, err)
	assert.Equal(t, int64(42), itemID)

	_, err = storage.ParseUnitID("garbage")
	assert.Error(t, err)
}
