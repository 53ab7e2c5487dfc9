package capacity

import (
	"log/slog"
	"time"

	"bakery-backend/internal/storage"
)

// BookedMinutes derives, from the non-cancelled orders, how many
// manufacturing minutes are already committed on each day of the horizon.
// Every scheduled unit resolves back to its line item's cost. Corrupt
// assignment data on one order is skipped, never fatal.
func BookedMinutes(log *slog.Logger, orders []*storage.Order, costs *CostTable, from time.Time, days int) map[string]int {
	booked := make(map[string]int)

	horizonStart := from.Format(storage.DateKey)
	horizonEnd := from.AddDate(0, 0, days).Format(storage.DateKey)

	for _, order := range orders {
		items := make(map[int64]storage.OrderItem, len(order.Items))
		for _, item := range order.Items {
			items[item.ID] = item
		}

		for _, dd := range order.DeliveryDates {
			if _, err := time.Parse(storage.DateKey, dd.Date); err != nil {
				log.Warn("skipping delivery date with malformed date",
					slog.Int64("order_id", order.ID),
					slog.String("date", dd.Date),
				)
				continue
			}
			if dd.Date < horizonStart || dd.Date >= horizonEnd {
				continue
			}

			for _, unitID := range dd.ItemIDs {
				itemID, err := storage.ParseUnitID(unitID)
				if err != nil {
					log.Warn("skipping unresolvable unit id",
						slog.Int64("order_id", order.ID),
						slog.String("unit_id", unitID),
					)
					continue
				}

				item, ok := items[itemID]
				if !ok {
					log.Warn("unit references missing line item, contributes zero",
						slog.Int64("order_id", order.ID),
						slog.String("unit_id", unitID),
					)
					continue
				}

				booked[dd.Date] += costs.ItemCost(log, item)
			}
		}
	}

	return booked
}
