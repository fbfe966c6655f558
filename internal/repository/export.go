package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"study-master/internal/model"
)

// ExportData is the single JSON document a user downloads as a backup.
// The "user" field name is kept for compatibility with exports from
// the legacy browser build.
type ExportData struct {
	Settings       model.Settings          `json:"user"`
	Tasks          []model.Task            `json:"tasks"`
	Subjects       []model.SubjectProgress `json:"subjects"`
	Logs           []model.StudyLog        `json:"logs"`
	Exams          []model.Exam            `json:"exams"`
	Attendance     []string                `json:"attendance"`
	ReminderConfig model.ReminderConfig    `json:"reminderConfig"`
}

// Export aggregates every entity kind into one indented JSON document.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	data := ExportData{
		Settings:       getJSON(ctx, s, keyUser, model.DefaultSettings()),
		Tasks:          getJSON(ctx, s, keyTasks, []model.Task{}),
		Subjects:       getJSON(ctx, s, keySubjects, []model.SubjectProgress{}),
		Logs:           getJSON(ctx, s, keyLogs, []model.StudyLog{}),
		Exams:          getJSON(ctx, s, keyExams, []model.Exam{}),
		Attendance:     getJSON(ctx, s, keyAttendance, []string{}),
		ReminderConfig: getJSON(ctx, s, keyReminder, model.DefaultReminderConfig()),
	}
	s.mu.Unlock()

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

// Import loads a previously exported document back into the store,
// replacing every entity kind it carries. Ids and field values are
// restored as exported.
func (s *Store) Import(ctx context.Context, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode export: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	setJSON(ctx, s, keyUser, data.Settings)
	setJSON(ctx, s, keyTasks, data.Tasks)
	setJSON(ctx, s, keySubjects, data.Subjects)
	setJSON(ctx, s, keyLogs, data.Logs)
	setJSON(ctx, s, keyExams, data.Exams)
	setJSON(ctx, s, keyAttendance, data.Attendance)
	setJSON(ctx, s, keyReminder, data.ReminderConfig)
	// Imported data counts as an initialized installation.
	if err := s.kv.Set(ctx, keyInit, "true"); err != nil {
		return fmt.Errorf("write init marker: %w", err)
	}
	return nil
}

// Wipe unconditionally deletes all persisted keys. The next
// EnsureInitialized call re-seeds demo content.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("wipe store: %w", err)
	}
	return nil
}
