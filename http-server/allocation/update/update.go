package update

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"bakery-backend/internal/service/allocation"
)

type PlanFinder interface {
	Get(id uuid.UUID) (*allocation.Plan, error)
}

type Response struct {
	Plan   allocation.Summary `json:"plan"`
	Status string             `json:"status"`
	Error  string             `json:"error"`
}

type assignRequest struct {
	Date     string   `json:"date"`
	TimeSlot string   `json:"time_slot"`
	UnitIDs  []string `json:"unit_ids"`
}

type unassignRequest struct {
	UnitIDs []string `json:"unit_ids"`
}

type selectDateRequest struct {
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
}

// SelectDate books the whole order on one day (single-date mode).
func SelectDate(log *slog.Logger, plans PlanFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.allocation.update.SelectDate"

		plan, ok := findPlan(w, r, log, op, plans)
		if !ok {
			return
		}

		var req selectDateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		applyAction(w, r, log, op, plan, plan.SelectDate(req.Date, req.TimeSlot))
	}
}

// AssignUnits places units on a day in a split plan.
func AssignUnits(log *slog.Logger, plans PlanFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.allocation.update.AssignUnits"

		plan, ok := findPlan(w, r, log, op, plans)
		if !ok {
			return
		}

		var req assignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.UnitIDs) == 0 {
			http.Error(w, "unit_ids is empty", http.StatusBadRequest)
			return
		}

		applyAction(w, r, log, op, plan, plan.Assign(req.Date, req.TimeSlot, req.UnitIDs))
	}
}

// UnassignUnits returns units to the unallocated pool.
func UnassignUnits(log *slog.Logger, plans PlanFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.allocation.update.UnassignUnits"

		plan, ok := findPlan(w, r, log, op, plans)
		if !ok {
			return
		}

		var req unassignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		applyAction(w, r, log, op, plan, plan.Unassign(req.UnitIDs))
	}
}

// ConfirmSplit accepts a best-effort split when capacity ran out.
func ConfirmSplit(log *slog.Logger, plans PlanFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.allocation.update.ConfirmSplit"

		plan, ok := findPlan(w, r, log, op, plans)
		if !ok {
			return
		}

		applyAction(w, r, log, op, plan, plan.ConfirmSplit())
	}
}

// ConfirmOverride lets the customer proceed over capacity; the order will
// be created pending staff confirmation.
func ConfirmOverride(log *slog.Logger, plans PlanFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.allocation.update.ConfirmOverride"

		plan, ok := findPlan(w, r, log, op, plans)
		if !ok {
			return
		}

		applyAction(w, r, log, op, plan, plan.ConfirmOverride())
	}
}

func findPlan(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, plans PlanFinder) (*allocation.Plan, bool) {
	log = log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	planID, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		log.Error("invalid plan id", slog.String("error", err.Error()))
		http.Error(w, "invalid plan id", http.StatusBadRequest)
		return nil, false
	}

	plan, err := plans.Get(planID)
	if err != nil {
		log.Error("plan not found", slog.String("plan_id", planID.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, Response{Error: "allocation plan not found"})
		return nil, false
	}

	return plan, true
}

// applyAction renders the plan after an action, or the rejection reason.
// Rejections do not advance the plan state.
func applyAction(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, plan *allocation.Plan, err error) {
	log = log.With(slog.String("op", op))

	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, allocation.ErrUnknownUnit) || errors.Is(err, allocation.ErrBadTimeSlot) {
			status = http.StatusBadRequest
		}

		log.Info("allocation action rejected",
			slog.String("plan_id", plan.ID.String()),
			slog.String("reason", err.Error()),
		)
		w.WriteHeader(status)
		render.JSON(w, r, Response{Plan: plan.Summary(), Error: err.Error()})
		return
	}

	render.JSON(w, r, Response{
		Plan:   plan.Summary(),
		Status: strconv.Itoa(http.StatusOK),
	})
}
