package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gestionobras/backend/internal/handlers"
	"github.com/gestionobras/backend/internal/httpx"
	"github.com/gestionobras/backend/internal/services"
	"github.com/gestionobras/backend/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(st *store.Store, log zerolog.Logger) http.Handler {
	catalog := handlers.NewCatalogHandler(services.NewCatalogService(st))
	reports := handlers.NewReportHandler(services.NewReportService(st))
	settlements := handlers.NewSettlementHandler(services.NewSettlementService(st))
	agg := services.NewAggregateService(st)
	payments := handlers.NewPaymentHandler(services.NewPaymentService(st), agg)
	export := handlers.NewExportHandler(agg)
	backup := handlers.NewBackupHandler(services.NewBackupService(st))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", catalog.ListClients)
		r.Post("/", catalog.CreateClient)
		r.Put("/{id}", catalog.UpdateClient)
		r.Delete("/{id}", catalog.DeleteClient)
	})
	r.Route("/works", func(r chi.Router) {
		r.Get("/", catalog.ListWorks)
		r.Post("/", catalog.CreateWork)
		r.Put("/{id}", catalog.UpdateWork)
		r.Delete("/{id}", catalog.DeleteWork)
		r.Get("/{id}/summary", export.WorkSummaryJSON)
		r.Get("/{id}/summary/export", export.WorkSummaryXLSX)
	})
	r.Route("/workers", func(r chi.Router) {
		r.Get("/", catalog.ListWorkers)
		r.Post("/", catalog.CreateWorker)
		r.Put("/{id}", catalog.UpdateWorker)
		r.Delete("/{id}", catalog.DeleteWorker)
	})
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", catalog.ListSuppliers)
		r.Post("/", catalog.CreateSupplier)
		r.Put("/{id}", catalog.UpdateSupplier)
		r.Delete("/{id}", catalog.DeleteSupplier)
	})
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", reports.List)
		r.Post("/", reports.Create)
		r.Get("/{id}", reports.Get)
		r.Put("/{id}", reports.Update)
		r.Delete("/{id}", reports.Delete)
	})
	r.Route("/settlements", func(r chi.Router) {
		r.Get("/pending", settlements.Pending)
		r.Post("/", settlements.Settle)
		r.Get("/history", settlements.History)
		r.Get("/workers", settlements.Workers)
	})
	r.Route("/payments", func(r chi.Router) {
		r.Get("/", payments.All)
		r.Get("/totals", payments.Totals)
		r.Get("/advance", payments.ListAdvances)
		r.Post("/advance", payments.CreateAdvance)
		r.Delete("/advance/{id}", payments.DeleteAdvance)
		r.Get("/overhead", payments.ListOverheads)
		r.Post("/overhead", payments.CreateOverhead)
		r.Delete("/overhead/{id}", payments.DeleteOverhead)
	})
	r.Route("/backup", func(r chi.Router) {
		r.Get("/", backup.Export)
		r.Post("/", backup.Import)
	})

	return r
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
