package capacity

import (
	"log/slog"
	"strings"

	"bakery-backend/internal/storage"
)

// CostTable maps category ids to per-unit manufacturing minutes. Built once
// per computation from catalog data.
type CostTable struct {
	minutes map[int64]int

	// Fallback minutes for custom items without a category: the making
	// time of the first category whose name contains "cake". Best-effort
	// so ad-hoc custom cakes still consume some capacity.
	fallbackMinutes int
	hasFallback     bool
}

func NewCostTable(categories []storage.Category) *CostTable {
	t := &CostTable{minutes: make(map[int64]int, len(categories))}

	for _, c := range categories {
		t.minutes[c.ID] = c.MakingTimeMinutes

		if !t.hasFallback && strings.Contains(strings.ToLower(c.Name), "cake") {
			t.fallbackMinutes = c.MakingTimeMinutes
			t.hasFallback = true
		}
	}

	return t
}

// CategoryMinutes returns the per-unit minutes for a category, zero when the
// category is absent from the table.
func (t *CostTable) CategoryMinutes(categoryID int64) int {
	return t.minutes[categoryID]
}

// Minutes exposes the full table for snapshot echoing.
func (t *CostTable) Minutes() map[int64]int {
	out := make(map[int64]int, len(t.minutes))
	for id, m := range t.minutes {
		out[id] = m
	}
	return out
}

// ItemCost resolves the per-unit manufacturing cost of one line item.
// Each item kind has its own rule: manual items are pre-negotiated and
// contribute zero; items with a category use the table; categoryless
// custom items fall back to the heuristic cake cost.
func (t *CostTable) ItemCost(log *slog.Logger, item storage.OrderItem) int {
	switch {
	case item.Kind == storage.ItemKindManual:
		return 0

	case item.CategoryID != nil:
		return t.CategoryMinutes(*item.CategoryID)

	default:
		if !t.hasFallback {
			log.Warn("no cake category for custom item fallback, costing zero",
				slog.Int64("item_id", item.ID),
				slog.String("item_name", item.Name),
			)
			return 0
		}

		log.Warn("custom item without category, using cake fallback cost",
			slog.Int64("item_id", item.ID),
			slog.String("item_name", item.Name),
			slog.Int("minutes", t.fallbackMinutes),
		)
		return t.fallbackMinutes
	}
}
