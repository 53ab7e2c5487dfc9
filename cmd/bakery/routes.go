package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	allocfinalize "bakery-backend/http-server/allocation/finalize"
	allocstart "bakery-backend/http-server/allocation/start"
	allocupdate "bakery-backend/http-server/allocation/update"
	getavailability "bakery-backend/http-server/availability/get"
	generate_excel "bakery-backend/http-server/generate-report/generate-excel"
	getorders "bakery-backend/http-server/orders/get"
	saveorder "bakery-backend/http-server/orders/save"
	uporder "bakery-backend/http-server/orders/update"
	getschedule "bakery-backend/http-server/schedule/get"
	getsettings "bakery-backend/http-server/settings/get"
	upsettings "bakery-backend/http-server/settings/update"
	"bakery-backend/internal/config"
	"bakery-backend/internal/middleware/auth"
	"bakery-backend/internal/service/allocation"
	"bakery-backend/internal/service/capacity"
	"bakery-backend/internal/service/report"
	"bakery-backend/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage,
	availability *capacity.AvailabilityService, planner *allocation.Service,
	reports *report.CapacityReportService) *chi.Mux {

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Checkout date picker
	router.Get("/api/availability", getavailability.GetAvailability(log, availability))

	// Allocation session: start, assign/unassign, confirm, finalize
	router.Post("/api/allocation/start", allocstart.StartAllocation(log, planner))
	router.Post("/api/allocation/{planID}/select-date", allocupdate.SelectDate(log, planner))
	router.Post("/api/allocation/{planID}/assign", allocupdate.AssignUnits(log, planner))
	router.Post("/api/allocation/{planID}/unassign", allocupdate.UnassignUnits(log, planner))
	router.Post("/api/allocation/{planID}/confirm-split", allocupdate.ConfirmSplit(log, planner))
	router.Post("/api/allocation/{planID}/confirm-override", allocupdate.ConfirmOverride(log, planner))
	router.Post("/api/allocation/{planID}/finalize", allocfinalize.FinalizePlan(log, planner))

	// Order creation with the finalized delivery dates
	router.Post("/api/orders", saveorder.CreateOrder(log, storage))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/schedule", getschedule.GetScheduleCalendar(log, availability))
	adminRouter.Get("/orders", getorders.GetOrders(log, storage))
	adminRouter.Post("/orders/cancel", uporder.UpdateCancelStatus(log, storage))
	adminRouter.Post("/orders/confirm", uporder.ConfirmOrder(log, storage))
	adminRouter.Get("/settings", getsettings.GetSettings(log, storage))
	adminRouter.Put("/settings", upsettings.UpdateSettings(log, storage))
	adminRouter.Put("/settings/override", upsettings.UpsertOverride(log, storage))
	adminRouter.Delete("/settings/override", upsettings.DeleteOverride(log, storage))
	adminRouter.Get("/report/excel", generate_excel.GenerateReportExcel(log, reports))

	router.Mount("/api/admin", adminRouter)

	return router
}
