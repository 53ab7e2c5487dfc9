package allocation

import (
	"log/slog"

	"bakery-backend/internal/service/capacity"
	"bakery-backend/internal/storage"
)

// ProductionUnit is one indivisible piece of manufacturing work, the atom
// of allocation. Quantity N on a line item yields exactly N units.
type ProductionUnit struct {
	ID             string `json:"id"`
	OriginalItemID int64  `json:"original_item_id"`
	MinutesCost    int    `json:"minutes_cost"`
}

// Decompose expands line items into production units. Unit ids derive from
// the item id and index, so decomposing the same items twice yields the
// same ids and earlier partial allocations stay valid.
func Decompose(log *slog.Logger, items []storage.OrderItem, costs *capacity.CostTable) []ProductionUnit {
	var units []ProductionUnit

	for _, item := range items {
		cost := costs.ItemCost(log, item)
		for i := 0; i < item.Quantity; i++ {
			units = append(units, ProductionUnit{
				ID:             storage.UnitID(item.ID, i),
				OriginalItemID: item.ID,
				MinutesCost:    cost,
			})
		}
	}

	return units
}
