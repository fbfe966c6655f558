package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"study-master/internal/model"
	"study-master/internal/service"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()
	settings := s.store.Settings(ctx)
	writeJSON(w, http.StatusOK, map[string]any{
		"todayHours":       s.stats.DailyTotal(ctx, now),
		"dailyGoal":        settings.DailyGoal,
		"streak":           s.streak.Current(ctx, now),
		"attendanceMarked": s.store.HasMarkedAttendanceToday(ctx),
		"subjects":         s.store.Subjects(ctx),
		"tasks":            s.store.Tasks(ctx),
		"exams":            s.store.Exams(ctx),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()
	period := service.Period(r.URL.Query().Get("period"))
	switch period {
	case service.PeriodThisWeek, service.PeriodLastWeek, service.PeriodMonth:
	case "":
		period = service.PeriodThisWeek
	default:
		writeError(w, http.StatusBadRequest, "unknown period")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"readiness":    s.stats.Readiness(ctx),
		"chart":        s.stats.Chart(ctx, period, now),
		"breakdown":    s.stats.WeeklyBreakdown(ctx, now),
		"achievements": s.achievements.Evaluate(ctx, now),
	})
}

// --- Tasks ---

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Tasks(r.Context()))
}

func (s *Server) handleSaveTask(w http.ResponseWriter, r *http.Request) {
	var task model.Task
	if !decodeBody(w, r, &task) {
		return
	}
	tasks, err := s.store.SaveTask(r.Context(), task)
	if err != nil {
		if errors.Is(err, model.ErrAttachmentTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.DeleteTask(r.Context(), chi.URLParam(r, "id")))
}

// --- Subjects ---

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Subjects(r.Context()))
}

func (s *Server) handleSaveSubject(w http.ResponseWriter, r *http.Request) {
	var subject model.SubjectProgress
	if !decodeBody(w, r, &subject) {
		return
	}
	subjects, err := s.store.SaveSubject(r.Context(), subject)
	if err != nil {
		if errors.Is(err, model.ErrAttachmentTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.DeleteSubject(r.Context(), chi.URLParam(r, "id")))
}

// --- Study logs ---

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Logs(r.Context()))
}

type addLogRequest struct {
	Subject  string  `json:"subject"`
	Duration float64 `json:"duration"`
	Date     string  `json:"date"`
}

func (s *Server) handleAddLog(w http.ResponseWriter, r *http.Request) {
	var req addLogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}
	logs, err := s.store.AddLog(r.Context(), req.Subject, req.Duration, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// --- Exams ---

func (s *Server) handleListExams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Exams(r.Context()))
}

func (s *Server) handleSaveExam(w http.ResponseWriter, r *http.Request) {
	var exam model.Exam
	if !decodeBody(w, r, &exam) {
		return
	}
	writeJSON(w, http.StatusOK, s.store.SaveExam(r.Context(), exam))
}

func (s *Server) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.DeleteExam(r.Context(), chi.URLParam(r, "id")))
}

// --- Attendance ---

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Attendance(r.Context()))
}

func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dates := s.store.MarkAttendance(ctx)
	writeJSON(w, http.StatusOK, map[string]any{
		"attendance": dates,
		"streak":     s.streak.Current(ctx, time.Now()),
	})
}

// --- Singletons ---

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Settings(r.Context()))
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if !decodeBody(w, r, &settings) {
		return
	}
	if !settings.Valid() {
		writeError(w, http.StatusBadRequest, "invalid settings")
		return
	}
	s.store.SaveSettings(r.Context(), settings)
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleGetReminderConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ReminderConfig(r.Context()))
}

func (s *Server) handleSaveReminderConfig(w http.ResponseWriter, r *http.Request) {
	var cfg model.ReminderConfig
	if !decodeBody(w, r, &cfg) {
		return
	}
	if !cfg.Valid() {
		writeError(w, http.StatusBadRequest, "invalid reminder config")
		return
	}
	s.store.SaveReminderConfig(r.Context(), cfg)
	writeJSON(w, http.StatusOK, cfg)
}

// --- Data management ---

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="study_master_export.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		// Client went away mid-download; nothing to recover.
		return
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 16<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if err := s.store.Import(r.Context(), raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.Wipe(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Re-seed immediately so the UI's next refresh sees demo content.
	s.store.EnsureInitialized(ctx)
	writeJSON(w, http.StatusOK, map[string]string{"status": "wiped"})
}
