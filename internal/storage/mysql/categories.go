package mysql

import (
	"context"
	"fmt"

	"bakery-backend/internal/storage"
)

func (s *Storage) GetCategories(ctx context.Context) ([]storage.Category, error) {
	const op = "storage.mysql.GetCategories"

	stmt := `SELECT id, name, making_time_minutes FROM categories ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []storage.Category
	for rows.Next() {
		var c storage.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.MakingTimeMinutes); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}
