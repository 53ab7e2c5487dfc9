package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"bakery-backend/internal/service/capacity"
	"bakery-backend/internal/storage"
)

var ErrPlanNotFound = errors.New("allocation plan not found")

type SnapshotProvider interface {
	SnapshotAndCosts(ctx context.Context) (*capacity.Snapshot, *capacity.CostTable, error)
}

// Service runs allocation sessions: it starts a plan against a fresh
// availability snapshot, hands out the plan for subsequent actions and
// drops it once finalized.
type Service struct {
	log       *slog.Logger
	snapshots SnapshotProvider
	store     *PlanStore
}

func NewService(log *slog.Logger, snapshots SnapshotProvider) *Service {
	return &Service{
		log:       log,
		snapshots: snapshots,
		store:     NewPlanStore(),
	}
}

// Start decomposes the cart and opens a plan against a fresh snapshot.
func (s *Service) Start(ctx context.Context, items []storage.OrderItem) (*Plan, error) {
	const op = "service.allocation.Start"

	snapshot, costs, err := s.snapshots.SnapshotAndCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	units := Decompose(s.log, items, costs)
	plan := NewPlan(snapshot, units)
	s.store.Put(plan)

	s.log.Info("allocation plan started",
		slog.String("plan_id", plan.ID.String()),
		slog.String("state", string(plan.State())),
		slog.Int("units", len(units)),
		slog.Int("total_minutes", plan.TotalMinutes()),
	)

	return plan, nil
}

func (s *Service) Get(id uuid.UUID) (*Plan, error) {
	plan, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return plan, nil
}

// Finalize closes the plan and removes it from the store. No partial state
// survives an abandoned session; only a successful finalize emits
// assignments.
func (s *Service) Finalize(id uuid.UUID) (*Result, error) {
	plan, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	result, err := plan.Finalize()
	if err != nil {
		return nil, err
	}

	s.store.Remove(id)

	s.log.Info("allocation plan finalized",
		slog.String("plan_id", id.String()),
		slog.Int("delivery_dates", len(result.Assignments)),
		slog.Bool("pending_confirmation", result.PendingConfirmation),
	)

	return result, nil
}
