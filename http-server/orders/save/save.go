package save

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

type OrderSaver interface {
	SaveOrder(ctx context.Context, order storage.Order) (int64, error)
}

type Request struct {
	CustomerName  string                           `json:"customer_name"`
	CustomerPhone string                           `json:"customer_phone"`
	Note          string                           `json:"note"`
	Items         []storage.OrderItem              `json:"items"`
	DeliveryDates []storage.DeliveryDateAssignment `json:"delivery_dates"`

	// Set when the customer confirmed an over-capacity override; the
	// order is then created pending staff confirmation.
	PendingConfirmation bool `json:"pending_confirmation"`
}

type Response struct {
	OrderID     int64  `json:"order_id"`
	OrderStatus string `json:"order_status"`
	Status      string `json:"status"`
	Error       string `json:"error"`
}

// CreateOrder persists a checkout: items plus the finalized delivery-date
// assignments. The unit-completeness invariant is re-checked here so a
// stale or tampered client cannot persist a partial allocation.
func CreateOrder(log *slog.Logger, orders OrderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.save.CreateOrder"

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
			http.Error(w, "order has no items", http.StatusBadRequest)
			return
		}
		if len(req.DeliveryDates) == 0 {
			http.Error(w, "order has no delivery dates", http.StatusBadRequest)
			return
		}
		for _, dd := range req.DeliveryDates {
			if _, err := time.Parse(storage.DateKey, dd.Date); err != nil {
				http.Error(w, "invalid delivery date "+dd.Date, http.StatusBadRequest)
				return
			}
		}

		if err := allocation.ValidateAssignments(req.Items, req.DeliveryDates); err != nil {
			log.Error("delivery dates do not cover the order units", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, Response{Error: err.Error()})
			return
		}

		status := storage.StatusConfirmed
		if req.PendingConfirmation {
			status = storage.StatusPendingConfirmation
		}

		order := storage.Order{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Note:          req.Note,
			Status:        status,
			Items:         req.Items,
			DeliveryDates: req.DeliveryDates,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orderID, err := orders.SaveOrder(ctx, order)
		if err != nil {
			log.Error("failed to save order", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to save order"})
			return
		}

		render.JSON(w, r, Response{
			OrderID:     orderID,
			OrderStatus: status,
			Status:      strconv.Itoa(http.StatusOK),
		})
	}
}
