// Package api exposes the engine to the (out-of-scope) UI as a small
// JSON surface: entity CRUD, derived stats, export and wipe.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"study-master/internal/repository"
	"study-master/internal/service"
)

// Server holds the handlers' dependencies.
type Server struct {
	store        *repository.Store
	streak       *service.StreakService
	stats        *service.StatsService
	achievements *service.AchievementService
}

func NewServer(store *repository.Store, streak *service.StreakService, stats *service.StatsService, achievements *service.AchievementService) *Server {
	return &Server{store: store, streak: streak, stats: stats, achievements: achievements}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/stats", s.handleStats)

		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks", s.handleSaveTask)
		r.Delete("/tasks/{id}", s.handleDeleteTask)

		r.Get("/subjects", s.handleListSubjects)
		r.Post("/subjects", s.handleSaveSubject)
		r.Delete("/subjects/{id}", s.handleDeleteSubject)

		r.Get("/logs", s.handleListLogs)
		r.Post("/logs", s.handleAddLog)

		r.Get("/exams", s.handleListExams)
		r.Post("/exams", s.handleSaveExam)
		r.Delete("/exams/{id}", s.handleDeleteExam)

		r.Get("/attendance", s.handleListAttendance)
		r.Post("/attendance", s.handleMarkAttendance)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)
		r.Get("/reminder-config", s.handleGetReminderConfig)
		r.Put("/reminder-config", s.handleSaveReminderConfig)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Post("/wipe", s.handleWipe)
	})

	// The UI is served from a different origin during development.
	return cors.AllowAll().Handler(r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[warn] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
