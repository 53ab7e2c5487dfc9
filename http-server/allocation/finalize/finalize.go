package finalize

import (
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

type PlanFinalizer interface {
	Finalize(id uuid.UUID) (*allocation.Result, error)
}

type Response struct {
	Result *allocation.Result `json:"result"`
	Status string             `json:"status"`
	Error  string             `json:"error"`
}

// FinalizePlan closes the allocation session and emits the delivery-date
// assignments the order will be created with.
func FinalizePlan(log *slog.Logger, plans PlanFinalizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.allocation.finalize.FinalizePlan"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		planID, err := uuid.Parse(chi.URLParam(r, "planID"))
		if err != nil {
			http.Error(w, "invalid plan id", http.StatusBadRequest)
			return
		}

		result, err := plans.Finalize(planID)
		if err != nil {
			if errors.Is(err, allocation.ErrPlanNotFound) {
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, Response{Error: "allocation plan not found"})
				return
			}

			log.Info("finalize rejected", slog.String("plan_id", planID.String()), slog.String("reason", err.Error()))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, Response{Error: err.Error()})
			return
		}

		render.JSON(w, r, Response{
			Result: result,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
