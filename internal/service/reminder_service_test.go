package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-master/internal/model"
	"study-master/internal/notify"
	"study-master/internal/repository"
)

// recordingNotifier captures every emitted alert.
type recordingNotifier struct {
	mu        sync.Mutex
	permitted bool
	sent      []string
}

func (n *recordingNotifier) Permitted() bool { return n.permitted }

func (n *recordingNotifier) Send(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, title)
	return nil
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.sent...)
}

func setupReminder(t *testing.T) (*repository.Store, *recordingNotifier, *ReminderService, *time.Time) {
	t.Helper()
	store := repository.NewStore(repository.NewMemoryKV())
	notifier := &recordingNotifier{permitted: true}
	now := time.Date(2025, 3, 10, 8, 0, 1, 0, time.UTC) // Monday 08:00:01
	svc := NewReminderService(store, notifier).WithClock(func() time.Time { return now })
	return store, notifier, svc, &now
}

func TestReminderService_DailyReminderDedup(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc, now := setupReminder(t)
	store.SaveReminderConfig(ctx, model.ReminderConfig{
		Enabled: true, Frequency: model.FrequencyDaily, Time: "08:00",
	})

	svc.Tick(ctx) // 08:00:01
	*now = now.Add(28 * time.Second)
	svc.Tick(ctx) // 08:00:29, same minute

	assert.Equal(t, []string{"Time to Study!"}, notifier.titles(),
		"a trigger fires at most once per matching minute")

	// A tick in a later minute re-arms the trigger.
	*now = time.Date(2025, 3, 10, 8, 1, 1, 0, time.UTC)
	svc.Tick(ctx)
	assert.Len(t, notifier.titles(), 1, "08:01 does not match the 08:00 rule")

	// Next day at 08:00 the reminder fires again.
	*now = time.Date(2025, 3, 11, 8, 0, 2, 0, time.UTC)
	svc.Tick(ctx)
	assert.Len(t, notifier.titles(), 2)
}

func TestReminderService_WeeklyHonorsDayLabels(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc, now := setupReminder(t)
	store.SaveReminderConfig(ctx, model.ReminderConfig{
		Enabled: true, Frequency: model.FrequencyWeekly, Time: "08:00",
		Days: []string{"S"}, // weekend label only
	})

	svc.Tick(ctx) // Monday: label M not configured
	assert.Empty(t, notifier.titles())

	*now = time.Date(2025, 3, 15, 8, 0, 3, 0, time.UTC) // Saturday
	svc.Tick(ctx)
	assert.Equal(t, []string{"Time to Study!"}, notifier.titles())
}

func TestReminderService_DisabledConfigNeverFires(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc, _ := setupReminder(t)
	store.SaveReminderConfig(ctx, model.ReminderConfig{
		Enabled: false, Frequency: model.FrequencyDaily, Time: "08:00",
	})

	svc.Tick(ctx)
	assert.Empty(t, notifier.titles())
}

func TestReminderService_TaskDueMatch(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc, now := setupReminder(t)

	_, err := store.SaveTask(ctx, model.Task{ID: "t1", Title: "Mock Test", Subject: "Physics",
		Time: "8:00 AM", Date: "Today"})
	require.NoError(t, err)
	_, err = store.SaveTask(ctx, model.Task{ID: "t2", Title: "Done already", Subject: "Maths",
		Time: "8:00 AM", Date: "Today", Completed: true})
	require.NoError(t, err)
	_, err = store.SaveTask(ctx, model.Task{ID: "t3", Title: "Later", Subject: "Maths",
		Time: "9:30 AM", Date: "Today"})
	require.NoError(t, err)
	_, err = store.SaveTask(ctx, model.Task{ID: "t4", Title: "Other day", Subject: "Maths",
		Time: "8:00 AM", RawDate: "2025-03-12T08:00:00Z"})
	require.NoError(t, err)
	// Saved yesterday as "Tomorrow"; the stale label must not stop the
	// raw date, which is today, from firing.
	_, err = store.SaveTask(ctx, model.Task{ID: "t5", Title: "Saved yesterday", Subject: "Chemistry",
		Time: "8:00 AM", Date: "Tomorrow", RawDate: "2025-03-10T08:00:00Z"})
	require.NoError(t, err)

	svc.Tick(ctx)
	assert.Equal(t, []string{"Task Due: Saved yesterday", "Task Due: Mock Test"}, notifier.titles())

	// Same minute again: suppressed per task id.
	*now = now.Add(29 * time.Second)
	svc.Tick(ctx)
	assert.Len(t, notifier.titles(), 2)
}

func TestReminderService_TwelveHourClockMatching(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc, now := setupReminder(t)

	_, err := store.SaveTask(ctx, model.Task{ID: "pm", Title: "Afternoon revision", Subject: "Maths",
		Time: "2:05 PM", Date: "Today"})
	require.NoError(t, err)

	*now = time.Date(2025, 3, 10, 14, 5, 10, 0, time.UTC)
	svc.Tick(ctx)
	assert.Equal(t, []string{"Task Due: Afternoon revision"}, notifier.titles())
}

func TestReminderService_MasterSwitchGatesEverything(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc, _ := setupReminder(t)
	store.SaveSettings(ctx, model.Settings{DailyGoal: 6, Notifications: false})
	store.SaveReminderConfig(ctx, model.ReminderConfig{
		Enabled: true, Frequency: model.FrequencyDaily, Time: "08:00",
	})

	svc.Tick(ctx)
	assert.Empty(t, notifier.titles())
}

func TestReminderService_NoPermissionDropsSilently(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(repository.NewMemoryKV())
	store.SaveReminderConfig(ctx, model.ReminderConfig{
		Enabled: true, Frequency: model.FrequencyDaily, Time: "08:00",
	})
	now := time.Date(2025, 3, 10, 8, 0, 1, 0, time.UTC)
	svc := NewReminderService(store, notify.Disabled{}).WithClock(func() time.Time { return now })

	// Must not panic, queue, or retry.
	svc.Tick(ctx)
	svc.Tick(ctx)
}
