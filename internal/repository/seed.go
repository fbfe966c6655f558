package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"study-master/internal/model"
)

// seedSubjects returns the demo subjects written on first run.
func seedSubjects() []model.SubjectProgress {
	return []model.SubjectProgress{
		{
			ID: "1", Subject: "Physics", ChaptersLeft: 2, Progress: 60,
			Color: "text-indigo-600 bg-indigo-50", Icon: "functions",
			Chapters: []model.Chapter{
				{ID: "c1", Name: "Kinematics", IsCompleted: true},
				{ID: "c2", Name: "Laws of Motion", IsCompleted: true},
				{ID: "c3", Name: "Thermodynamics", IsCompleted: true},
				{ID: "c4", Name: "Electromagnetism", IsCompleted: false},
				{ID: "c5", Name: "Quantum Physics", IsCompleted: false},
			},
			Attachments: []model.Attachment{},
		},
		{
			ID: "2", Subject: "Chemistry", ChaptersLeft: 18, Progress: 40,
			Color: "text-emerald-600 bg-emerald-50", Icon: "science",
			Chapters:    []model.Chapter{},
			Attachments: []model.Attachment{},
		},
		{
			ID: "3", Subject: "Mathematics", ChaptersLeft: 5, Progress: 82,
			Color: "text-orange-500 bg-orange-50", Icon: "calculate",
			Chapters:    []model.Chapter{},
			Attachments: []model.Attachment{},
		},
	}
}

func seedTasks(now time.Time) []model.Task {
	return []model.Task{
		{ID: "1", Title: "Physics Mock Test", Subject: "Physics", Time: "10:00 AM",
			Priority: model.PriorityHigh, Date: "Today", RawDate: model.NewRawDate(now), Tag: "JEE PREP"},
		{ID: "2", Title: "Math Chapter 4 Revision", Subject: "Mathematics", Time: "2:00 PM",
			Priority: model.PriorityMedium, Date: "Today", RawDate: model.NewRawDate(now), Tag: "BOARDS"},
		{ID: "3", Title: "Chemistry Lab Record", Subject: "Chemistry", Time: "12:00 PM",
			Priority: model.PriorityLow, Date: "Tomorrow", RawDate: model.NewRawDate(now.Add(24 * time.Hour)), Tag: "SCHOOL"},
	}
}

func seedLogs(now time.Time) []model.StudyLog {
	today := now.Format("2006-01-02")
	return []model.StudyLog{
		{ID: "1", Subject: "Physics", Duration: 1.5, Date: today, Timestamp: now.Add(-24 * time.Hour).UnixMilli()},
		{ID: "2", Subject: "Mathematics", Duration: 2, Date: today, Timestamp: now.UnixMilli()},
	}
}

func seedExams(now time.Time) []model.Exam {
	return []model.Exam{
		{ID: "1", Title: "JEE Main 2025", Date: now.AddDate(0, 0, 45).Format("2006-01-02")},
	}
}

// legacyExam is the single-record exam shape older installations stored.
type legacyExam struct {
	ExamName string `json:"examName"`
	Date     string `json:"date"`
}

// EnsureInitialized seeds demo content on first run and migrates the
// legacy single-exam record. Safe to call on every start: once the
// init marker exists seeding is skipped, and the exam migration is a
// no-op after the legacy key is gone.
func (s *Store) EnsureInitialized(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if _, ok, err := s.kv.Get(ctx, keyInit); err != nil {
		log.Printf("[warn] read init marker: %v", err)
	} else if !ok {
		log.Printf("[info] first run, seeding demo data")
		setJSON(ctx, s, keySubjects, seedSubjects())
		setJSON(ctx, s, keyTasks, seedTasks(now))
		setJSON(ctx, s, keyLogs, seedLogs(now))

		yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
		dayBefore := now.AddDate(0, 0, -2).Format("2006-01-02")
		setJSON(ctx, s, keyAttendance, []string{yesterday, dayBefore})

		if err := s.kv.Set(ctx, keyInit, "true"); err != nil {
			log.Printf("[warn] write init marker: %v", err)
		}
	}

	s.migrateLegacyExam(ctx, now)
}

// migrateLegacyExam converts the old single-exam record into a
// one-element exam list, or seeds the default list when no exam data
// exists at all.
func (s *Store) migrateLegacyExam(ctx context.Context, now time.Time) {
	oldRaw, hasOld, err := s.kv.Get(ctx, keyLegacyExam)
	if err != nil {
		log.Printf("[warn] read %s: %v", keyLegacyExam, err)
		return
	}
	_, hasNew, err := s.kv.Get(ctx, keyExams)
	if err != nil {
		log.Printf("[warn] read %s: %v", keyExams, err)
		return
	}

	switch {
	case hasOld && !hasNew:
		var old legacyExam
		if err := json.Unmarshal([]byte(oldRaw), &old); err != nil {
			log.Printf("[warn] corrupt legacy exam record, seeding defaults: %v", err)
			setJSON(ctx, s, keyExams, seedExams(now))
			return
		}
		migrated := model.Exam{ID: "migrated_1", Title: old.ExamName, Date: old.Date}
		if migrated.Title == "" {
			migrated.Title = "Exam"
		}
		if migrated.Date == "" {
			migrated.Date = now.Format("2006-01-02")
		}
		log.Printf("[info] migrated legacy exam record %q", migrated.Title)
		setJSON(ctx, s, keyExams, []model.Exam{migrated})
		if err := s.kv.Delete(ctx, keyLegacyExam); err != nil {
			log.Printf("[warn] delete %s: %v", keyLegacyExam, err)
		}
	case !hasNew:
		setJSON(ctx, s, keyExams, seedExams(now))
	}
}
