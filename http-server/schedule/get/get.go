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

type CalendarProvider interface {
	Calendar(ctx context.Context) ([]capacity.DayCapacity, error)
}

type ResponseCalendar struct {
	Days   []capacity.DayCapacity `json:"days"`
	Status string                 `json:"status"`
	Error  string                 `json:"error"`
}

// GetScheduleCalendar serves the admin capacity calendar, with booked
// minutes recomputed from the authoritative order set.
func GetScheduleCalendar(log *slog.Logger, calendar CalendarProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.schedule.get.GetScheduleCalendar"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		days, err := calendar.Calendar(ctx)
		if err != nil {
			log.Error("failed to build capacity calendar", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseCalendar{Error: "failed to build capacity calendar"})
			return
		}

		render.JSON(w, r, ResponseCalendar{
			Days:   days,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
