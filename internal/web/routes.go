package web

import (
	"net/http"

	"github.com/kozaktomas/attendance-kiosk/internal/web/handlers"
	"github.com/kozaktomas/attendance-kiosk/internal/web/static"
)

func (s *Server) setupRoutes() {
	frameHandler := handlers.NewFrameHandler(s.service)
	countHandler := handlers.NewCountHandler(s.service.Ledger(), s.metrics)
	adminHandler := handlers.NewAdminHandler(s.service.Ledger(), s.config.Kiosk.AdminPassword, s.RequestShutdown)
	exportHandler := handlers.NewExportHandler(s.service.Ledger())

	// Legacy kiosk endpoints; paths are part of the browser page contract.
	s.router.Post("/process_frame", frameHandler.Process)
	s.router.Get("/get_count", countHandler.Get)
	s.router.Post("/clear_logs", adminHandler.ClearLogs)
	s.router.Get("/download", exportHandler.Download)
	s.router.Post("/shutdown", adminHandler.Shutdown)

	// Health check and metrics
	s.router.Get("/api/v1/health", handlers.HealthCheck)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Kiosk page
	s.router.Get("/", s.serveKioskPage)
}

// serveKioskPage serves the embedded camera capture page.
func (s *Server) serveKioskPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(static.IndexHTML())
}
