package capacity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"bakery-backend/internal/storage"
)

type AvailabilityStorage interface {
	GetScheduleSettings(ctx context.Context) (*storage.ScheduleSettings, error)
	GetCategories(ctx context.Context) ([]storage.Category, error)
	GetActiveOrders(ctx context.Context) ([]*storage.Order, error)
}

type AvailabilityService struct {
	storage AvailabilityStorage
	log     *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewAvailabilityService(log *slog.Logger, storage AvailabilityStorage) *AvailabilityService {
	return &AvailabilityService{
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// Snapshot fetches settings, catalog and active orders concurrently and
// computes a fresh availability snapshot over the rolling horizon.
func (s *AvailabilityService) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, _, err := s.SnapshotAndCosts(ctx)
	return snap, err
}

// SnapshotAndCosts also hands back the cost table the snapshot was built
// with, for callers that go on to decompose a cart with the same costs.
func (s *AvailabilityService) SnapshotAndCosts(ctx context.Context) (*Snapshot, *CostTable, error) {
	const op = "service.capacity.SnapshotAndCosts"

	settings, costs, orders, err := s.fetchInputs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	from := s.today()
	booked := BookedMinutes(s.log, orders, costs, from, HorizonDays)

	return Compute(settings, costs, booked, from, HorizonDays), costs, nil
}

// DayCapacity is one row of the admin capacity calendar.
type DayCapacity struct {
	Date             string   `json:"date"`
	IsBlocked        bool     `json:"is_blocked"`
	BudgetMinutes    int      `json:"budget_minutes"`
	BookedMinutes    int      `json:"booked_minutes"`
	AvailableMinutes int      `json:"available_minutes"`
	AvailableHours   []string `json:"available_hours"`
}

// Calendar recomputes booked minutes from the authoritative order set and
// returns one row per horizon day for the admin schedule view.
func (s *AvailabilityService) Calendar(ctx context.Context) ([]DayCapacity, error) {
	const op = "service.capacity.Calendar"

	settings, costs, orders, err := s.fetchInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	from := s.today()
	booked := BookedMinutes(s.log, orders, costs, from, HorizonDays)
	snap := Compute(settings, costs, booked, from, HorizonDays)

	calendar := make([]DayCapacity, 0, len(snap.Horizon))
	for _, day := range snap.Horizon {
		row := DayCapacity{
			Date:             day,
			IsBlocked:        snap.IsBlocked(day),
			BookedMinutes:    booked[day],
			AvailableMinutes: snap.AvailableMinutesPerDay[day],
			AvailableHours:   snap.HoursFor(day),
		}

		if !row.IsBlocked {
			row.BudgetMinutes = settings.DefaultWorkMinutes
			if ov := settings.OverrideFor(day); ov != nil && ov.WorkMinutes != nil {
				row.BudgetMinutes = *ov.WorkMinutes
			}
		}

		calendar = append(calendar, row)
	}

	return calendar, nil
}

func (s *AvailabilityService) fetchInputs(ctx context.Context) (*storage.ScheduleSettings, *CostTable, []*storage.Order, error) {
	var (
		settings   *storage.ScheduleSettings
		categories []storage.Category
		orders     []*storage.Order
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = s.storage.GetScheduleSettings(gCtx)
		if err != nil {
			return fmt.Errorf("settings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.storage.GetCategories(gCtx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		orders, err = s.storage.GetActiveOrders(gCtx)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	return settings, NewCostTable(categories), orders, nil
}

func (s *AvailabilityService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
