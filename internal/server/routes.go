package server

import "net/http"

// setupRoutes registers the API routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/report", s.app.ReportHandler.GenerateReport)
	mux.HandleFunc("/api/search", s.app.SearchHandler.Search)
	mux.HandleFunc("/api/reindex", s.app.SearchHandler.Reindex)
	mux.HandleFunc("/api/status", s.app.StatusHandler.Status)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
