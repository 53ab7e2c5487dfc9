package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type ExcelGenerator interface {
	GenerateExcel(ctx context.Context) ([]byte, error)
}

// GenerateReportExcel streams the capacity calendar as an xlsx download.
func GenerateReportExcel(log *slog.Logger, gen ExcelGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.generate-report.GenerateReportExcel"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		data, err := gen.GenerateExcel(ctx)
		if err != nil {
			log.Error("failed to generate capacity report", slog.String("error", err.Error()))
			http.Error(w, "failed to generate report", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("capacity-%s.xlsx", time.Now().Format("2006-01-02"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))

		if _, err := w.Write(data); err != nil {
			log.Error("failed to write report body", slog.String("error", err.Error()))
		}
	}
}
