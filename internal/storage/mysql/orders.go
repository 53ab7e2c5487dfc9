package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"bakery-backend/internal/storage"
)

// GetActiveOrders returns every non-cancelled order with its items and
// delivery dates. This is the authoritative input for the booking ledger.
func (s *Storage) GetActiveOrders(ctx context.Context) ([]*storage.Order, error) {
	const op = "storage.mysql.GetActiveOrders"

	stmt := `
		SELECT id, customer_name, customer_phone, note, status
		FROM orders
		WHERE status != ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, stmt, storage.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.Order
	byID := make(map[int64]*storage.Order)

	for rows.Next() {
		var o storage.Order
		var note sql.NullString

		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &note, &o.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		o.Note = note.String

		orders = append(orders, &o)
		byID[o.ID] = &o
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	if err := s.loadItems(ctx, byID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.loadDeliveryDates(ctx, byID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

func (s *Storage) loadItems(ctx context.Context, byID map[int64]*storage.Order) error {
	stmt := `
		SELECT oi.item_id, oi.order_id, oi.kind, oi.name, oi.category_id, oi.quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status != ?
		ORDER BY oi.order_id, oi.item_id
	`

	rows, err := s.db.QueryContext(ctx, stmt, storage.StatusCancelled)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item storage.OrderItem
		var orderID int64
		var categoryID sql.NullInt64

		if err := rows.Scan(&item.ID, &orderID, &item.Kind, &item.Name, &categoryID, &item.Quantity); err != nil {
			return err
		}
		if categoryID.Valid {
			id := categoryID.Int64
			item.CategoryID = &id
		}

		if order, ok := byID[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	return rows.Err()
}

func (s *Storage) loadDeliveryDates(ctx context.Context, byID map[int64]*storage.Order) error {
	stmt := `
		SELECT dd.order_id, dd.date, dd.time_slot, ddi.unit_id
		FROM order_delivery_dates dd
		JOIN order_delivery_date_items ddi ON ddi.delivery_date_id = dd.id
		JOIN orders o ON o.id = dd.order_id
		WHERE o.status != ?
		ORDER BY dd.order_id, dd.date, ddi.unit_id
	`

	rows, err := s.db.QueryContext(ctx, stmt, storage.StatusCancelled)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var date, timeSlot, unitID string

		if err := rows.Scan(&orderID, &date, &timeSlot, &unitID); err != nil {
			return err
		}

		order, ok := byID[orderID]
		if !ok {
			continue
		}

		idx := -1
		for i := range order.DeliveryDates {
			if order.DeliveryDates[i].Date == date && order.DeliveryDates[i].TimeSlot == timeSlot {
				idx = i
				break
			}
		}
		if idx == -1 {
			order.DeliveryDates = append(order.DeliveryDates, storage.DeliveryDateAssignment{Date: date, TimeSlot: timeSlot})
			idx = len(order.DeliveryDates) - 1
		}
		order.DeliveryDates[idx].ItemIDs = append(order.DeliveryDates[idx].ItemIDs, unitID)
	}

	return rows.Err()
}
