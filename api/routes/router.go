package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/routes-report/api/controllers"
	"github.com/angelmondragon/routes-report/api/middleware"
	"github.com/angelmondragon/routes-report/internal/report"
	"github.com/angelmondragon/routes-report/pkg/config"
	"github.com/angelmondragon/routes-report/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	reportService *report.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, reportService))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/clients", controllers.ListClients(reportService))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", controllers.GetReport(reportService, logg))
			r.Post("/refresh", controllers.RefreshReport(reportService, logg))
			r.Post("/cache/clear", controllers.ClearReportCache(reportService, logg))
			r.Get("/export", controllers.ExportReport(reportService, logg))
			r.Get("/map", controllers.ReportMap(reportService, logg))
		})
	})

	return r
}
