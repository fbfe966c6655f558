package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"study-master/internal/model"
	"study-master/internal/repository"
)

// Period selects which chart window to aggregate.
type Period string

const (
	PeriodThisWeek Period = "This Week"
	PeriodLastWeek Period = "Last Week"
	PeriodMonth    Period = "Month"
)

// Bucket is one bar of the study chart: a day (week views) or a
// 7-day window (month view). IsToday only affects styling, never value.
type Bucket struct {
	Label   string  `json:"label"`
	Hours   float64 `json:"hours"`
	IsToday bool    `json:"isToday"`
}

// SubjectHours is one row of the weekly per-subject breakdown.
type SubjectHours struct {
	Subject  string  `json:"subject"`
	Hours    float64 `json:"hours"`
	Progress int     `json:"progress"`
	Color    string  `json:"color"`
	Icon     string  `json:"icon"`
}

// StatsService buckets study logs into chart windows and computes
// readiness figures. Everything is recomputed from the full log list
// on every call; there is no incremental state.
type StatsService struct {
	store *repository.Store
}

func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{store: store}
}

// Chart returns the bar data for the selected period.
func (s *StatsService) Chart(ctx context.Context, period Period, now time.Time) []Bucket {
	logs := s.store.Logs(ctx)
	switch period {
	case PeriodLastWeek:
		return weekBuckets(logs, now, -7)
	case PeriodMonth:
		return monthBuckets(logs, now)
	default:
		return weekBuckets(logs, now, 0)
	}
}

// weekBuckets produces exactly 7 day buckets for the calendar week
// (Sunday first) containing now+offsetDays.
func weekBuckets(logs []model.StudyLog, now time.Time, offsetDays int) []Bucket {
	today := dateOnly(now)
	startOfWeek := today.AddDate(0, 0, -int(now.Weekday())+offsetDays)

	buckets := make([]Bucket, 0, 7)
	for i := 0; i < 7; i++ {
		day := startOfWeek.AddDate(0, 0, i)
		dayStr := day.Format(dayFormat)
		total := 0.0
		for _, l := range logs {
			if l.Date == dayStr {
				total += l.Duration
			}
		}
		buckets = append(buckets, Bucket{
			Label:   weekdayLabels[i],
			Hours:   total,
			IsToday: day.Equal(today),
		})
	}
	return buckets
}

// monthBuckets produces 4 buckets over consecutive 7-day windows
// ending at the present week, oldest first.
func monthBuckets(logs []model.StudyLog, now time.Time) []Bucket {
	today := dateOnly(now)

	buckets := make([]Bucket, 0, 4)
	for i := 3; i >= 0; i-- {
		start := today.AddDate(0, 0, -i*7-int(now.Weekday()))
		end := start.AddDate(0, 0, 6)

		total := 0.0
		for _, l := range logs {
			day := parseDay(l.Date)
			if day.IsZero() {
				continue
			}
			if !day.Before(start) && !day.After(end) {
				total += l.Duration
			}
		}

		label := "Current"
		if i > 0 {
			label = fmt.Sprintf("-%d Wk", i)
		}
		buckets = append(buckets, Bucket{Label: label, Hours: total, IsToday: i == 0})
	}
	return buckets
}

// DailyTotal sums today's logged hours for the goal-progress bar.
func (s *StatsService) DailyTotal(ctx context.Context, now time.Time) float64 {
	today := now.Format(dayFormat)
	total := 0.0
	for _, l := range s.store.Logs(ctx) {
		if l.Date == today {
			total += l.Duration
		}
	}
	return total
}

// Readiness is the average subject progress rounded to the nearest
// integer, or 0 when there are no subjects.
func (s *StatsService) Readiness(ctx context.Context) int {
	return readiness(s.store.Subjects(ctx))
}

func readiness(subjects []model.SubjectProgress) int {
	if len(subjects) == 0 {
		return 0
	}
	total := 0
	for _, sub := range subjects {
		total += sub.Progress
	}
	return int(math.Round(float64(total) / float64(len(subjects))))
}

// WeeklyBreakdown sums each subject's hours over the trailing 7 days
// (exclusive lower bound at today-7) and joins the subject's current
// progress, sorted by most studied first.
func (s *StatsService) WeeklyBreakdown(ctx context.Context, now time.Time) []SubjectHours {
	return weeklyBreakdown(s.store.Logs(ctx), s.store.Subjects(ctx), now)
}

func weeklyBreakdown(logs []model.StudyLog, subjects []model.SubjectProgress, now time.Time) []SubjectHours {
	cutoff := dateOnly(now).AddDate(0, 0, -7)

	perSubject := make(map[string]float64)
	for _, l := range logs {
		day := parseDay(l.Date)
		if day.IsZero() || !day.After(cutoff) {
			continue
		}
		perSubject[l.Subject] += l.Duration
	}

	rows := make([]SubjectHours, 0, len(subjects))
	for _, sub := range subjects {
		rows = append(rows, SubjectHours{
			Subject:  sub.Subject,
			Hours:    perSubject[sub.Subject],
			Progress: sub.Progress,
			Color:    sub.Color,
			Icon:     sub.Icon,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Hours > rows[j].Hours })
	return rows
}
