package service

import (
	"context"
	"sort"
	"time"

	"study-master/internal/repository"
)

// StreakService derives the current consecutive-day attendance streak.
type StreakService struct {
	store *repository.Store
}

func NewStreakService(store *repository.Store) *StreakService {
	return &StreakService{store: store}
}

// Current returns the streak ending today or yesterday relative to now.
func (s *StreakService) Current(ctx context.Context, now time.Time) int {
	return CountStreak(s.store.Attendance(ctx), now)
}

// CountStreak computes the consecutive-day streak from a set of
// attendance dates (YYYY-MM-DD). A streak must end today or yesterday,
// otherwise it is broken and counts as 0. Day stepping is done on
// calendar components, not timestamp subtraction.
func CountStreak(dates []string, now time.Time) int {
	seen := make(map[string]struct{}, len(dates))
	unique := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		day := parseDay(d)
		if day.IsZero() {
			continue
		}
		unique = append(unique, day)
	}
	if len(unique) == 0 {
		return 0
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].After(unique[j]) })

	today := dateOnly(now)
	yesterday := today.AddDate(0, 0, -1)

	last := unique[0]
	if !last.Equal(today) && !last.Equal(yesterday) {
		return 0
	}

	streak := 1
	current := last
	for _, prev := range unique[1:] {
		if prev.Equal(current.AddDate(0, 0, -1)) {
			streak++
			current = prev
			continue
		}
		break
	}
	return streak
}
