package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-master/internal/model"
)

func newTestStore() *Store {
	return NewStore(NewMemoryKV())
}

func TestStore_SaveTask_PrependsAndReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	first, err := store.SaveTask(ctx, model.Task{ID: "a", Title: "first"})
	require.NoError(t, err)
	second, err := store.SaveTask(ctx, model.Task{ID: "b", Title: "second"})
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 2)
	assert.Equal(t, "b", second[0].ID, "newest task lists first")
	assert.Equal(t, "a", second[1].ID)

	// Upsert by id keeps position.
	updated, err := store.SaveTask(ctx, model.Task{ID: "a", Title: "renamed", Completed: true})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, "renamed", updated[1].Title)
	assert.True(t, updated[1].Completed)
}

func TestStore_SaveTask_GeneratesID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	tasks, err := store.SaveTask(ctx, model.Task{Title: "no id"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.NotEmpty(t, tasks[0].ID)
}

func TestStore_SaveSubject_AppendsAndRecalcs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	_, err := store.SaveSubject(ctx, model.SubjectProgress{ID: "1", Subject: "Physics"})
	require.NoError(t, err)
	subjects, err := store.SaveSubject(ctx, model.SubjectProgress{
		ID: "2", Subject: "Maths",
		Chapters: []model.Chapter{
			{ID: "c1", IsCompleted: true},
			{ID: "c2", IsCompleted: true},
			{ID: "c3", IsCompleted: false},
		},
	})
	require.NoError(t, err)

	require.Len(t, subjects, 2)
	assert.Equal(t, "1", subjects[0].ID, "subjects append in insertion order")
	assert.Equal(t, 67, subjects[1].Progress)
	assert.Equal(t, 1, subjects[1].ChaptersLeft)
}

func TestStore_AttachmentCap(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	oversized := model.Attachment{Name: "big.pdf", Size: 600 * 1024}
	_, err := store.SaveTask(ctx, model.Task{ID: "t", Attachments: []model.Attachment{oversized}})
	assert.ErrorIs(t, err, model.ErrAttachmentTooLarge)
	assert.Empty(t, store.Tasks(ctx), "rejected upload must not touch the collection")

	_, err = store.SaveSubject(ctx, model.SubjectProgress{ID: "s", Attachments: []model.Attachment{oversized}})
	assert.ErrorIs(t, err, model.ErrAttachmentTooLarge)
	assert.Empty(t, store.Subjects(ctx))

	accepted := model.Attachment{Name: "ok.pdf", Size: 400 * 1024}
	tasks, err := store.SaveTask(ctx, model.Task{ID: "t", Attachments: []model.Attachment{accepted}})
	require.NoError(t, err)
	assert.Equal(t, int64(400*1024), tasks[0].Attachments[0].Size)
}

func TestStore_AddLog_AppendsWithTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	fixed := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	logs, err := store.AddLog(ctx, "Physics", 1.5, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.NotEmpty(t, logs[0].ID)
	assert.Equal(t, fixed.UnixMilli(), logs[0].Timestamp)

	_, err = store.AddLog(ctx, "", 1, "2025-03-10")
	assert.Error(t, err)
	_, err = store.AddLog(ctx, "Physics", -1, "2025-03-10")
	assert.Error(t, err)
}

func TestStore_MarkAttendance_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.now = func() time.Time { return time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC) }

	first := store.MarkAttendance(ctx)
	second := store.MarkAttendance(ctx)

	assert.Equal(t, []string{"2025-03-10"}, first)
	assert.Equal(t, first, second, "marking twice the same day adds nothing")
	assert.True(t, store.HasMarkedAttendanceToday(ctx))
}

func TestStore_CorruptValueFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv)

	require.NoError(t, kv.Set(ctx, keyTasks, "{not json"))
	require.NoError(t, kv.Set(ctx, keyUser, `"also wrong shape"`))

	assert.Empty(t, store.Tasks(ctx))
	assert.Equal(t, model.DefaultSettings(), store.Settings(ctx))
}

func TestStore_SettingsWithoutNotificationsKeyStaysEnabled(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv)

	// Legacy-browser exports store the settings singleton without a
	// notifications field.
	require.NoError(t, kv.Set(ctx, keyUser, `{"dailyGoal":4,"darkMode":true}`))

	settings := store.Settings(ctx)
	assert.True(t, settings.Notifications, "missing key must not disable reminders")
	assert.Equal(t, 4.0, settings.DailyGoal)
}

func TestStore_InvalidSingletonFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv)

	require.NoError(t, kv.Set(ctx, keyUser, `{"dailyGoal":0,"darkMode":true}`))
	require.NoError(t, kv.Set(ctx, keyReminder, `{"enabled":true,"frequency":"Hourly","time":"09:00"}`))

	assert.Equal(t, model.DefaultSettings(), store.Settings(ctx))
	assert.Equal(t, model.DefaultReminderConfig(), store.ReminderConfig(ctx))
}

// failingKV accepts nothing; reads also fail.
type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store unavailable")
}
func (failingKV) Set(context.Context, string, string) error { return errors.New("store full") }
func (failingKV) Delete(context.Context, string) error      { return errors.New("store unavailable") }
func (failingKV) Clear(context.Context) error               { return errors.New("store unavailable") }

func TestStore_WriteFailureStillReturnsResult(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingKV{})

	tasks, err := store.SaveTask(ctx, model.Task{ID: "x", Title: "best effort"})
	require.NoError(t, err, "write failures must not crash the caller")
	require.Len(t, tasks, 1)
	assert.Equal(t, "best effort", tasks[0].Title)
}
