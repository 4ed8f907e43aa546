package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Static files (served from embedded filesystem)
	r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))

	// Home page with live standings
	r.Get("/", h.handleIndex)

	// WebSocket
	r.Get("/ws", h.Hub.ServeWs)

	// Judge scoring page (public, reached by QR code)
	r.Get("/judge/heat/{id}", h.handleJudgePage)

	// Public API (index page and judge phones)
	r.Get("/api/tournaments", h.handleListTournaments)
	r.Get("/api/tournaments/{id}", h.handleGetTournament)
	r.Get("/api/tournaments/{id}/heats", h.handleListHeats)
	r.Get("/api/tournaments/{id}/standings", h.handleGetStandings)
	r.Get("/api/heats/{id}", h.handleGetHeat)
	r.Get("/api/heats/{id}/scores", h.handleGetHeatScores)
	r.Post("/api/heats/{id}/votes", h.handleSubmitJudgeVotes)

	// Auth routes (public)
	r.Get("/admin/login", h.handleLoginPage)
	r.Post("/admin/login", h.handleLogin)
	r.Post("/admin/logout", h.handleLogout)

	// Admin pages (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuth)
		r.Get("/admin", h.handleAdminDashboard)
		r.Get("/admin/competitors", h.handleAdminCompetitors)
		r.Get("/admin/bracket", h.handleAdminBracket)
		r.Get("/admin/results", h.handleAdminResults)
		r.Get("/admin/settings", h.handleAdminSettings)
	})

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Tournaments
		r.Post("/api/admin/tournaments", h.handleCreateTournament)
		r.Delete("/api/admin/tournaments/{id}", h.handleCancelTournament)

		// Competitors
		r.Get("/api/admin/tournaments/{id}/competitors", h.handleListCompetitors)
		r.Post("/api/admin/tournaments/{id}/competitors", h.handleRegisterCompetitor)
		r.Put("/api/admin/competitors/{id}/seed", h.handleAssignSeed)
		r.Delete("/api/admin/competitors/{id}", h.handleRemoveCompetitor)

		// Bracket
		r.Post("/api/admin/tournaments/{id}/bracket", h.handleBuildBracket)

		// Heat control
		r.Post("/api/admin/heats/{id}/start", h.handleStartHeat)
		r.Post("/api/admin/heats/{id}/complete", h.handleCompleteHeat)
		r.Post("/api/admin/heats/{id}/cancel", h.handleCancelHeat)
		r.Put("/api/admin/heats/{id}/station", h.handleAssignStation)
		r.Get("/api/admin/heats/{id}/qr", h.handleGetJudgeQR)
		r.Get("/api/admin/heats/{id}/consensus", h.handleGetConsensus)

		// Judging Control
		r.Post("/api/admin/judging-control", h.handleSetJudgingStatus)
		r.Post("/api/admin/judging-timer", h.handleSetJudgingTimer)

		// Stats
		r.Get("/api/admin/stats", h.handleGetStats)

		// Settings
		r.Get("/api/admin/settings", h.handleGetSettings)
		r.Post("/api/admin/settings", h.handleUpdateSettings)
		r.Put("/api/admin/settings", h.handleUpdateSettings)

		// Database Management
		r.Post("/api/admin/reset-database", h.handleResetDatabase)
	})

	return r
}
