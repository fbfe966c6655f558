package service

import (
	"context"
	"fmt"
	"time"

	"study-master/internal/model"
	"study-master/internal/repository"
)

// Badge is one achievement with its current unlock state. Badges
// carry no persisted history: they are re-derived from current data on
// every call, so deleting a log can re-lock one.
type Badge struct {
	Title    string `json:"title"`
	Unlocked bool   `json:"unlocked"`
	Status   string `json:"status"`
}

// AchievementService evaluates the four badges from logs, subjects and
// the current streak.
type AchievementService struct {
	store  *repository.Store
	streak *StreakService
}

func NewAchievementService(store *repository.Store, streak *StreakService) *AchievementService {
	return &AchievementService{store: store, streak: streak}
}

// Evaluate returns all badges for the given instant.
func (s *AchievementService) Evaluate(ctx context.Context, now time.Time) []Badge {
	logs := s.store.Logs(ctx)
	subjects := s.store.Subjects(ctx)
	streak := s.streak.Current(ctx, now)

	streakBadge := Badge{Title: "7-Day Streak", Unlocked: streak >= 7, Status: "Active"}
	if !streakBadge.Unlocked {
		streakBadge.Status = fmt.Sprintf("%d/7 Days", streak)
	}

	return []Badge{
		streakBadge,
		lockable("Early Bird", hasEarlySession(logs, now.Location())),
		lockable("Weekend Warrior", hasWeekendLog(logs)),
		lockable("Subject Master", hasMasteredSubject(subjects)),
	}
}

func lockable(title string, unlocked bool) Badge {
	status := "Locked"
	if unlocked {
		status = "Unlocked"
	}
	return Badge{Title: title, Unlocked: unlocked, Status: status}
}

// hasEarlySession reports whether any log was created between 4 AM and
// 9 AM local time.
func hasEarlySession(logs []model.StudyLog, loc *time.Location) bool {
	for _, l := range logs {
		hour := l.CreatedAt(loc).Hour()
		if hour >= 4 && hour < 9 {
			return true
		}
	}
	return false
}

// hasWeekendLog reports whether any session's calendar date falls on a
// Saturday or Sunday.
func hasWeekendLog(logs []model.StudyLog) bool {
	for _, l := range logs {
		day := parseDay(l.Date)
		if day.IsZero() {
			continue
		}
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}
	return false
}

func hasMasteredSubject(subjects []model.SubjectProgress) bool {
	for _, sub := range subjects {
		if sub.Progress >= 90 {
			return true
		}
	}
	return false
}
