package mysql

import (
	"context"
	"fmt"

	"bakery-backend/internal/storage"
)

// SaveOrder persists an order with its items and delivery-date assignments
// in one transaction. Item ids are order-scoped and arrive with the request
// so unit ids minted by the allocation plan stay resolvable.
func (s *Storage) SaveOrder(ctx context.Context, order storage.Order) (int64, error) {
	const op = "storage.mysql.SaveOrder"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_name, customer_phone, note, status) VALUES (?, ?, ?, ?)`,
		order.CustomerName, order.CustomerPhone, order.Note, order.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: insert order: %w", op, err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	stmtItem, err := tx.PrepareContext(ctx,
		`INSERT INTO order_items (order_id, item_id, kind, name, category_id, quantity) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare items: %w", op, err)
	}
	defer stmtItem.Close()

	for _, item := range order.Items {
		var categoryID interface{}
		if item.CategoryID != nil {
			categoryID = *item.CategoryID
		}

		if _, err := stmtItem.ExecContext(ctx, orderID, item.ID, item.Kind, item.Name, categoryID, item.Quantity); err != nil {
			return 0, fmt.Errorf("%s: insert item %d: %w", op, item.ID, err)
		}
	}

	for _, dd := range order.DeliveryDates {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO order_delivery_dates (order_id, date, time_slot) VALUES (?, ?, ?)`,
			orderID, dd.Date, dd.TimeSlot,
		)
		if err != nil {
			return 0, fmt.Errorf("%s: insert delivery date %s: %w", op, dd.Date, err)
		}

		ddID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		for _, unitID := range dd.ItemIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO order_delivery_date_items (delivery_date_id, unit_id) VALUES (?, ?)`,
				ddID, unitID,
			)
			if err != nil {
				return 0, fmt.Errorf("%s: insert unit %s: %w", op, unitID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return orderID, nil
}

// UpdateOrderStatus sets the status of one order. Cancelling frees the
// order's minutes the next time the ledger recomputes.
func (s *Storage) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	const op = "storage.mysql.UpdateOrderStatus"

	res, err := s.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: order %d not found", op, orderID)
	}

	return nil
}
