package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bakery-backend/internal/service/capacity"
)

type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*capacity.Snapshot, error)
}

type ResponseAvailability struct {
	Snapshot *capacity.Snapshot `json:"snapshot"`
	Status   string             `json:"status"`
	Error    string             `json:"error"`
}

// GetAvailability serves the point-in-time availability snapshot consumed
// by the checkout date picker.
func GetAvailability(log *slog.Logger, snapshots SnapshotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.availability.get.GetAvailability"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snapshot, err := snapshots.Snapshot(ctx)
		if err != nil {
			log.Error("failed to compute availability snapshot", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseAvailability{Error: "failed to compute availability"})
			return
		}

		render.JSON(w, r, ResponseAvailability{
			Snapshot: snapshot,
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
