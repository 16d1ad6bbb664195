package server

import (
	"net/http"
	"strings"

	"github.com/marcogenualdo/taddoist/internal/handlers"
	"github.com/marcogenualdo/taddoist/internal/middleware"
)

func (s *Server) setupRoutes() (http.Handler, error) {
	mux := http.NewServeMux()

	render, err := handlers.NewRenderer(s.cfg.Version, s.logger)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimSuffix(s.cfg.Server.BaseURL, "/")

	signHandler := handlers.NewSignHandler(
		handlers.SignOptions{
			BaseURL:              baseURL,
			AllowUnverifiedEmail: s.cfg.Google.AllowUnverifiedEmail,
		},
		s.deps.Google,
		s.deps.Todoist,
		s.deps.Sessions,
		s.deps.Store,
		render,
		s.logger,
	)
	taskHandler := handlers.NewTaskHandler(s.deps.Store, s.deps.TodoistAPI, render, s.logger)
	dashboardHandler := handlers.NewDashboardHandler(baseURL, s.deps.Store, s.deps.TodoistAPI, render, s.logger)
	healthHandler := handlers.NewHealthHandler(
		s.cfg.Store.Type,
		s.deps.Store,
		[]string{s.deps.Google.Provider(), s.deps.Todoist.Provider()},
		s.cfg.Version,
		s.logger,
	)

	mux.HandleFunc("GET /sign/google", signHandler.GoogleLogin)
	mux.HandleFunc("GET /sign/google/callback", signHandler.GoogleCallback)
	mux.HandleFunc("GET /sign/todoist", signHandler.TodoistLogin)
	mux.HandleFunc("GET /sign/todoist/callback", signHandler.TodoistCallback)
	mux.HandleFunc("GET /sign/out", signHandler.SignOut)

	mux.HandleFunc("GET /task/create", taskHandler.Create)

	mux.Handle("GET /health", healthHandler)

	mux.Handle("GET /", dashboardHandler)

	handler := middleware.Recovery(s.logger)(
		middleware.Logging(s.logger)(
			addSecurityHeaders(
				middleware.Identity(s.deps.Sessions, s.logger)(mux),
			),
		),
	)

	return handler, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
