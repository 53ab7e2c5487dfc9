package capacity

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"bakery-backend/internal/storage"
)

func int64Ptr(v int64) *int64 { return &v }

func testCategories() []storage.Category {
	return []storage.Category{
		{ID: 1, Name: "Birthday Cake", MakingTimeMinutes: 50},
		{ID: 2, Name: "Croissant", MakingTimeMinutes: 5},
		{ID: 3, Name: "Wedding Cake", MakingTimeMinutes: 120},
	}
}

func TestCostTable_CategoryMinutes(t *testing.T) {
	table := NewCostTable(testCategories())

	assert.Equal(t, 50, table.CategoryMinutes(1))
	assert.Equal(t, 5, table.CategoryMinutes(2))

	// Absent category costs zero rather than erroring.
	assert.Equal(t, 0, table.CategoryMinutes(99))
}

func TestCostTable_ItemCost_CatalogItem(t *testing.T) {
	table := NewCostTable(testCategories())
	log := slog.Default()

	cost := table.ItemCost(log, storage.OrderItem{
		ID: 1, Kind: storage.ItemKindCatalog, CategoryID: int64Ptr(2), Quantity: 1,
	})

	assert.Equal(t, 5, cost)
}

func TestCostTable_ItemCost_ManualItemIsFree(t *testing.T) {
	table := NewCostTable(testCategories())
	log := slog.Default()

	// Manual items are pre-negotiated and never count against capacity,
	// even when a category is attached.
	cost := table.ItemCost(log, storage.OrderItem{
		ID: 2, Kind: storage.ItemKindManual, CategoryID: int64Ptr(3), Quantity: 1,
	})

	assert.Equal(t, 0, cost)
}

func TestCostTable_ItemCost_CustomItemFallsBackToCake(t *testing.T) {
	table := NewCostTable(testCategories())
	log := slog.Default()

	// Categoryless custom item picks up the first cake category's cost.
	cost := table.ItemCost(log, storage.OrderItem{
		ID: 3, Kind: storage.ItemKindCustom, Quantity: 1,
	})

	assert.Equal(t, 50, cost)
}

func TestCostTable_ItemCost_NoCakeCategory(t *testing.T) {
	table := NewCostTable([]storage.Category{
		{ID: 1, Name: "Croissant", MakingTimeMinutes: 5},
	})
	log := slog.Default()

	cost := table.ItemCost(log, storage.OrderItem{
		ID: 4, Kind: storage.ItemKindCustom, Quantity: 1,
	})

	assert.Equal(t, 0, cost)
}
