package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bakery-backend/internal/storage"
)

// GetScheduleSettings reads the singleton settings row plus all date
// overrides. A missing row falls back to zero-value settings so a fresh
// install still answers availability requests.
func (s *Storage) GetScheduleSettings(ctx context.Context) (*storage.ScheduleSettings, error) {
	const op = "storage.mysql.GetScheduleSettings"

	settings := &storage.ScheduleSettings{}

	var hoursJSON []byte
	stmt := `SELECT lead_time_days, default_work_minutes, default_available_hours FROM schedule_settings WHERE id = 1`

	err := s.db.QueryRowContext(ctx, stmt).Scan(&settings.LeadTimeDays, &settings.DefaultWorkMinutes, &hoursJSON)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(hoursJSON) > 0 {
		if err := json.Unmarshal(hoursJSON, &settings.DefaultAvailableHours); err != nil {
			return nil, fmt.Errorf("%s: decode default hours: %w", op, err)
		}
	}

	stmtOverrides := `
		SELECT date, is_blocked, work_minutes, available_hours
		FROM schedule_date_overrides
		ORDER BY date
	`

	rows, err := s.db.QueryContext(ctx, stmtOverrides)
	if err != nil {
		return nil, fmt.Errorf("%s: overrides: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ov storage.DateOverride
		var workMinutes sql.NullInt64
		var ovHours []byte

		if err := rows.Scan(&ov.Date, &ov.IsBlocked, &workMinutes, &ovHours); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if workMinutes.Valid {
			m := int(workMinutes.Int64)
			ov.WorkMinutes = &m
		}
		if len(ovHours) > 0 {
			if err := json.Unmarshal(ovHours, &ov.AvailableHours); err != nil {
				return nil, fmt.Errorf("%s: decode override hours: %w", op, err)
			}
		}

		settings.DateOverrides = append(settings.DateOverrides, ov)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return settings, nil
}

func (s *Storage) UpdateScheduleSettings(ctx context.Context, settings storage.ScheduleSettings) error {
	const op = "storage.mysql.UpdateScheduleSettings"

	hoursJSON, err := json.Marshal(settings.DefaultAvailableHours)
	if err != nil {
		return fmt.Errorf("%s: encode default hours: %w", op, err)
	}

	stmt := `
		INSERT INTO schedule_settings (id, lead_time_days, default_work_minutes, default_available_hours)
		VALUES (1, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			lead_time_days = VALUES(lead_time_days),
			default_work_minutes = VALUES(default_work_minutes),
			default_available_hours = VALUES(default_available_hours)
	`

	if _, err := s.db.ExecContext(ctx, stmt, settings.LeadTimeDays, settings.DefaultWorkMinutes, hoursJSON); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UpsertDateOverride keeps the one-override-per-date invariant with an
// ON DUPLICATE KEY update on the date column.
func (s *Storage) UpsertDateOverride(ctx context.Context, ov storage.DateOverride) error {
	const op = "storage.mysql.UpsertDateOverride"

	var workMinutes interface{}
	if ov.WorkMinutes != nil {
		workMinutes = *ov.WorkMinutes
	}

	var hoursJSON interface{}
	if ov.AvailableHours != nil {
		b, err := json.Marshal(ov.AvailableHours)
		if err != nil {
			return fmt.Errorf("%s: encode hours: %w", op, err)
		}
		hoursJSON = b
	}

	stmt := `
		INSERT INTO schedule_date_overrides (date, is_blocked, work_minutes, available_hours)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			is_blocked = VALUES(is_blocked),
			work_minutes = VALUES(work_minutes),
			available_hours = VALUES(available_hours)
	`

	if _, err := s.db.ExecContext(ctx, stmt, ov.Date, ov.IsBlocked, workMinutes, hoursJSON); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteDateOverride(ctx context.Context, date string) error {
	const op = "storage.mysql.DeleteDateOverride"

	if _, err := s.db.ExecContext(ctx, `DELETE FROM schedule_date_overrides WHERE date = ?`, date); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
