package service

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"study-master/internal/model"
	"study-master/internal/notify"
	"study-master/internal/repository"
)

const reminderTrigger = "study_reminder"

// ReminderService polls wall-clock time against the reminder config
// and task due times, emitting at most one notification per distinct
// trigger per minute. Dedup markers live for the process lifetime
// only; minutes missed while polling was stopped are never backfilled.
type ReminderService struct {
	store    *repository.Store
	notifier notify.Notifier
	now      func() time.Time

	mu        sync.Mutex
	lastFired map[string]string // trigger -> HH:MM it last fired at
}

func NewReminderService(store *repository.Store, notifier notify.Notifier) *ReminderService {
	return &ReminderService{
		store:     store,
		notifier:  notifier,
		now:       time.Now,
		lastFired: make(map[string]string),
	}
}

// WithClock substitutes the wall clock, so tests can walk minute
// boundaries deterministically.
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.now = now
	return s
}

// Tick runs one poll: the scheduled study reminder first, then task
// due times. Called every 30 seconds while polling is active.
func (s *ReminderService) Tick(ctx context.Context) {
	settings := s.store.Settings(ctx)
	if !settings.Notifications {
		return
	}

	now := s.now()
	minute := now.Format("15:04")
	today := now.Format(dayFormat)
	dayLabel := weekdayLabels[now.Weekday()]

	s.rearm(minute)
	s.checkStudyReminder(ctx, minute, dayLabel)
	s.checkTaskDueTimes(ctx, now, minute, today)
}

// rearm drops markers from earlier minutes, so every trigger may fire
// again the next time it matches.
func (s *ReminderService) rearm(minute string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for trigger, at := range s.lastFired {
		if at != minute {
			delete(s.lastFired, trigger)
		}
	}
}

func (s *ReminderService) checkStudyReminder(ctx context.Context, minute, dayLabel string) {
	cfg := s.store.ReminderConfig(ctx)
	if !cfg.Enabled || cfg.Time != minute {
		return
	}
	switch cfg.Frequency {
	case model.FrequencyDaily:
	case model.FrequencyWeekly:
		if !slices.Contains(cfg.Days, dayLabel) {
			return
		}
	default:
		return
	}
	s.fire(reminderTrigger, minute, "Time to Study!",
		"Your scheduled study session starts now. Keep up the streak!")
}

func (s *ReminderService) checkTaskDueTimes(ctx context.Context, now time.Time, minute, today string) {
	clock := clock12(now)
	for _, task := range s.store.Tasks(ctx) {
		if task.Completed || !task.DueOn(today) {
			continue
		}
		// Exact string match against the stored 12-hour display time.
		// Past-due tasks missed between ticks are not caught up.
		if task.Time != clock {
			continue
		}
		s.fire("task_remind_"+task.ID, minute,
			"Task Due: "+task.Title, "It's time for "+task.Subject+".")
	}
}

// fire emits one notification unless the trigger already fired this
// minute. The marker is armed even when emission is dropped, so a
// denied permission never turns into a burst once granted mid-minute.
func (s *ReminderService) fire(trigger, minute, title, body string) {
	s.mu.Lock()
	if s.lastFired[trigger] == minute {
		s.mu.Unlock()
		return
	}
	s.lastFired[trigger] = minute
	s.mu.Unlock()

	if !s.notifier.Permitted() {
		log.Printf("[info] notification dropped (no permission): %s", title)
		return
	}
	if err := s.notifier.Send(title, body); err != nil {
		log.Printf("[warn] %v", err)
	}
}
