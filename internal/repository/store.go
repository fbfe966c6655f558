package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"study-master/internal/model"
)

// Storage keys, one per entity kind plus markers and singletons. The
// study_master_ prefix is kept from the legacy browser build so an
// imported export stays recognisable.
const (
	keyTasks      = "study_master_tasks"
	keySubjects   = "study_master_subjects"
	keyLogs       = "study_master_logs"
	keyUser       = "study_master_user"
	keyExams      = "study_master_exams"
	keyLegacyExam = "study_master_exam"
	keyAttendance = "study_master_attendance"
	keyInit       = "study_master_initialized"
	keyReminder   = "study_master_reminder_config"
)

// Store provides typed CRUD over the key-value store. Every operation
// is a whole-collection read-modify-write serialized behind a mutex;
// there are no partial updates and no transactions across kinds.
//
// Failures are local and non-fatal: a corrupt stored value falls back
// to the kind's default with a warning, and a failed write still
// returns the correct in-memory result for the call.
type Store struct {
	kv  KV
	mu  sync.Mutex
	now func() time.Time
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// getJSON reads and decodes one key. Any read or decode failure
// degrades to the fallback value.
func getJSON[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Printf("[warn] read %s: %v", key, err)
		return fallback
	}
	if !ok {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Printf("[warn] corrupt value at %s, falling back to default: %v", key, err)
		return fallback
	}
	return v
}

// setJSON encodes and writes one key. Write failures are logged and
// swallowed; the caller's in-memory state stays authoritative for the
// current call.
func setJSON(ctx context.Context, s *Store, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[warn] encode %s: %v", key, err)
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		log.Printf("[warn] write %s: %v", key, err)
	}
}

// --- Tasks ---

func (s *Store) Tasks(ctx context.Context) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getJSON(ctx, s, keyTasks, []model.Task{})
}

// SaveTask upserts a task: the record with a matching id is replaced
// in place, otherwise the task is prepended so newest entries list
// first. A missing id is generated.
func (s *Store) SaveTask(ctx context.Context, task model.Task) ([]model.Task, error) {
	if err := model.ValidateAttachments(task.Attachments); err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := getJSON(ctx, s, keyTasks, []model.Task{})
	replaced := false
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			replaced = true
			break
		}
	}
	if !replaced {
		tasks = append([]model.Task{task}, tasks...)
	}
	setJSON(ctx, s, keyTasks, tasks)
	return tasks, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := getJSON(ctx, s, keyTasks, []model.Task{})
	kept := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	setJSON(ctx, s, keyTasks, kept)
	return kept
}

// --- Subjects ---

func (s *Store) Subjects(ctx context.Context) []model.SubjectProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getJSON(ctx, s, keySubjects, []model.SubjectProgress{})
}

// SaveSubject upserts a subject (append order). When the subject
// carries chapters, progress and chaptersLeft are recomputed from
// them; manual values survive only while the chapter list is empty.
func (s *Store) SaveSubject(ctx context.Context, subject model.SubjectProgress) ([]model.SubjectProgress, error) {
	if err := model.ValidateAttachments(subject.Attachments); err != nil {
		return nil, err
	}
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	subject.RecalcFromChapters()

	s.mu.Lock()
	defer s.mu.Unlock()
	subjects := getJSON(ctx, s, keySubjects, []model.SubjectProgress{})
	replaced := false
	for i := range subjects {
		if subjects[i].ID == subject.ID {
			subjects[i] = subject
			replaced = true
			break
		}
	}
	if !replaced {
		subjects = append(subjects, subject)
	}
	setJSON(ctx, s, keySubjects, subjects)
	return subjects, nil
}

func (s *Store) DeleteSubject(ctx context.Context, id string) []model.SubjectProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	subjects := getJSON(ctx, s, keySubjects, []model.SubjectProgress{})
	kept := subjects[:0:0]
	for _, sub := range subjects {
		if sub.ID != id {
			kept = append(kept, sub)
		}
	}
	setJSON(ctx, s, keySubjects, kept)
	return kept
}

// --- Study logs ---

func (s *Store) Logs(ctx context.Context) []model.StudyLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getJSON(ctx, s, keyLogs, []model.StudyLog{})
}

// AddLog appends a study session. Logs are never edited afterwards.
func (s *Store) AddLog(ctx context.Context, subject string, duration float64, date string) ([]model.StudyLog, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if duration < 0 {
		return nil, fmt.Errorf("duration must not be negative")
	}
	entry := model.StudyLog{
		ID:        uuid.NewString(),
		Subject:   subject,
		Duration:  duration,
		Date:      date,
		Timestamp: s.now().UnixMilli(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	logs := getJSON(ctx, s, keyLogs, []model.StudyLog{})
	logs = append(logs, entry)
	setJSON(ctx, s, keyLogs, logs)
	return logs, nil
}

// --- Exams ---

func (s *Store) Exams(ctx context.Context) []model.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getJSON(ctx, s, keyExams, []model.Exam{})
}

func (s *Store) SaveExam(ctx context.Context, exam model.Exam) []model.Exam {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	exams := getJSON(ctx, s, keyExams, []model.Exam{})
	replaced := false
	for i := range exams {
		if exams[i].ID == exam.ID {
			exams[i] = exam
			replaced = true
			break
		}
	}
	if !replaced {
		exams = append(exams, exam)
	}
	setJSON(ctx, s, keyExams, exams)
	return exams
}

func (s *Store) DeleteExam(ctx context.Context, id string) []model.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	exams := getJSON(ctx, s, keyExams, []model.Exam{})
	kept := exams[:0:0]
	for _, e := range exams {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	setJSON(ctx, s, keyExams, kept)
	return kept
}

// --- Attendance ---

func (s *Store) Attendance(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getJSON(ctx, s, keyAttendance, []string{})
}

// MarkAttendance records today's local date. Marking twice the same
// day is a no-op.
func (s *Store) MarkAttendance(ctx context.Context) []string {
	today := s.now().Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	dates := getJSON(ctx, s, keyAttendance, []string{})
	for _, d := range dates {
		if d == today {
			return dates
		}
	}
	dates = append(dates, today)
	setJSON(ctx, s, keyAttendance, dates)
	return dates
}

// HasMarkedAttendanceToday reports whether today is already recorded.
func (s *Store) HasMarkedAttendanceToday(ctx context.Context) bool {
	today := s.now().Format("2006-01-02")
	for _, d := range s.Attendance(ctx) {
		if d == today {
			return true
		}
	}
	return false
}

// --- Singletons ---

// Settings returns the stored settings, or defaults when the stored
// value is missing or fails validation.
func (s *Store) Settings(ctx context.Context) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := getJSON(ctx, s, keyUser, model.DefaultSettings())
	if !settings.Valid() {
		log.Printf("[warn] stored settings invalid, using defaults")
		return model.DefaultSettings()
	}
	return settings
}

func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setJSON(ctx, s, keyUser, settings)
}

// ReminderConfig returns the stored reminder rule, or defaults when
// the stored value is missing or fails validation.
func (s *Store) ReminderConfig(ctx context.Context) model.ReminderConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := getJSON(ctx, s, keyReminder, model.DefaultReminderConfig())
	if !cfg.Valid() {
		log.Printf("[warn] stored reminder config invalid, using defaults")
		return model.DefaultReminderConfig()
	}
	return cfg
}

func (s *Store) SaveReminderConfig(ctx context.Context, cfg model.ReminderConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setJSON(ctx, s, keyReminder, cfg)
}
