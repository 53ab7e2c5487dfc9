package start

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bakery-backend/internal/service/allocation"
	"bakery-backend/internal/storage"
)

type Planner interface {
	Start(ctx context.Context, items []storage.OrderItem) (*allocation.Plan, error)
}

type Request struct {
	Items []storage.OrderItem `json:"items"`
}

type Response struct {
	Plan   allocation.Summary `json:"plan"`
	Status string             `json:"status"`
	Error  string             `json:"error"`
}

// StartAllocation opens an allocation session for a cart: decomposes the
// line items into production units and reports whether a single day can
// still hold the whole order.
func StartAllocation(log *slog.Logger, planner Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.allocation.start.StartAllocation"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON body", slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if len(req.Items) == 0 {
			http.Error(w, "cart is empty", http.StatusBadRequest)
			return
		}
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				http.Error(w, "item quantity must be positive", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		plan, err := planner.Start(ctx, req.Items)
		if err != nil {
			log.Error("failed to start allocation plan", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to start allocation"})
			return
		}

		render.JSON(w, r, Response{
			Plan:   plan.Summary(),
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
