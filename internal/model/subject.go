package model

import "math"

// Chapter is a unit of a subject's syllabus, owned by exactly one subject.
type Chapter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsCompleted bool   `json:"isCompleted"`
}

// SubjectProgress tracks how far along a subject's preparation is.
// Color and Icon are opaque display tokens passed through to the UI.
type SubjectProgress struct {
	ID           string       `json:"id"`
	Subject      string       `json:"subject"`
	ChaptersLeft int          `json:"chaptersLeft"`
	Progress     int          `json:"progress"` // 0-100
	Color        string       `json:"color"`
	Icon         string       `json:"icon"`
	Chapters     []Chapter    `json:"chapters,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

// RecalcFromChapters derives Progress and ChaptersLeft from the
// chapter list. With no chapters both fields keep their manual values.
func (s *SubjectProgress) RecalcFromChapters() {
	total := len(s.Chapters)
	if total == 0 {
		return
	}
	completed := 0
	for _, ch := range s.Chapters {
		if ch.IsCompleted {
			completed++
		}
	}
	s.Progress = int(math.Round(float64(completed) / float64(total) * 100))
	s.ChaptersLeft = total - completed
}
