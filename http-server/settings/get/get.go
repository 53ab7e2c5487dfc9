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

type SettingsReader interface {
	GetScheduleSettings(ctx context.Context) (*storage.ScheduleSettings, error)
}

type ResponseSettings struct {
	Settings *storage.ScheduleSettings `json:"settings"`
	Status   string                    `json:"status"`
	Error    string                    `json:"error"`
}

func GetSettings(log *slog.Logger, settings SettingsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.settings.get.GetSettings"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		current, err := settings.GetScheduleSettings(ctx)
		if err != nil {
			log.Error("failed to load schedule settings", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseSettings{Error: "failed to load schedule settings"})
			return
		}

		render.JSON(w, r, ResponseSettings{
			Settings: current,
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
