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

type SettingsWriter interface {
	UpdateScheduleSettings(ctx context.Context, settings storage.ScheduleSettings) error
	UpsertDateOverride(ctx context.Context, ov storage.DateOverride) error
	DeleteDateOverride(ctx context.Context, date string) error
}

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// UpdateSettings replaces the defaults: lead time, daily work budget and
// the default time-slot menu. Overrides are managed separately.
func UpdateSettings(log *slog.Logger, settings SettingsWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.settings.update.UpdateSettings"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.ScheduleSettings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON body", slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.LeadTimeDays < 0 || req.DefaultWorkMinutes < 0 {
			http.Error(w, "lead time and work minutes must be non-negative", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := settings.UpdateScheduleSettings(ctx, req); err != nil {
			log.Error("failed to update schedule settings", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to update schedule settings"})
			return
		}

		log.Info("schedule settings updated",
			slog.Int("lead_time_days", req.LeadTimeDays),
			slog.Int("default_work_minutes", req.DefaultWorkMinutes),
		)

		render.JSON(w, r, Response{Status: strconv.Itoa(http.StatusOK)})
	}
}

// UpsertOverride creates or replaces the override for one calendar day.
func UpsertOverride(log *slog.Logger, settings SettingsWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.settings.update.UpsertOverride"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.DateOverride
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if _, err := time.Parse(storage.DateKey, req.Date); err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		if req.WorkMinutes != nil && *req.WorkMinutes < 0 {
			http.Error(w, "work minutes must be non-negative", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := settings.UpsertDateOverride(ctx, req); err != nil {
			log.Error("failed to save date override",
				slog.String("date", req.Date),
				slog.String("error", err.Error()),
			)
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to save date override"})
			return
		}

		render.JSON(w, r, Response{Status: strconv.Itoa(http.StatusOK)})
	}
}

// DeleteOverride removes a day's override so it falls back to defaults.
func DeleteOverride(log *slog.Logger, settings SettingsWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.settings.update.DeleteOverride"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := r.URL.Query().Get("date")
		if _, err := time.Parse(storage.DateKey, date); err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := settings.DeleteDateOverride(ctx, date); err != nil {
			log.Error("failed to delete date override",
				slog.String("date", date),
				slog.String("error", err.Error()),
			)
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to delete date override"})
			return
		}

		render.JSON(w, r, Response{Status: strconv.Itoa(http.StatusOK)})
	}
}
