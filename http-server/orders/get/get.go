package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bakery-backend/internal/storage"
)

type OrderLister interface {
	GetActiveOrders(ctx context.Context) ([]*storage.Order, error)
}

type ResponseOrders struct {
	Orders []*storage.Order `json:"orders"`
	Status string           `json:"status"`
	Error  string           `json:"error"`
}

// GetOrders lists the non-cancelled orders with their delivery dates, for
// the admin scheduling view.
func GetOrders(log *slog.Logger, orders OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.get.GetOrders"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := orders.GetActiveOrders(ctx)
		if err != nil {
			log.Error("failed to load orders", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseOrders{Error: "failed to load orders"})
			return
		}

		render.JSON(w, r, ResponseOrders{
			Orders: list,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
