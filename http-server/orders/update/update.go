package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bakery-backend/internal/storage"
)

type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
}

type Request struct {
	OrderID int64 `json:"order_id"`
}

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// UpdateCancelStatus cancels an order. Its booked minutes fall out of the
// ledger on the next availability recompute.
func UpdateCancelStatus(log *slog.Logger, orders StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.update.UpdateCancelStatus"

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

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := orders.UpdateOrderStatus(ctx, req.OrderID, storage.StatusCancelled); err != nil {
			log.Error("failed to cancel order",
				slog.Int64("order_id", req.OrderID),
				slog.String("error", err.Error()),
			)
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to cancel order"})
			return
		}

		log.Info("order cancelled", slog.Int64("order_id", req.OrderID))

		render.JSON(w, r, Response{Status: strconv.Itoa(http.StatusOK)})
	}
}

// ConfirmOrder moves a pending-confirmation order to confirmed after staff
// reconciled capacity manually.
func ConfirmOrder(log *slog.Logger, orders StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.update.ConfirmOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := orders.UpdateOrderStatus(ctx, req.OrderID, storage.StatusConfirmed); err != nil {
			log.Error("failed to confirm order",
				slog.Int64("order_id", req.OrderID),
				slog.String("error", err.Error()),
			)
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to confirm order"})
			return
		}

		render.JSON(w, r, Response{Status: strconv.Itoa(http.StatusOK)})
	}
}
