package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-master/internal/model"
)

func TestEnsureInitialized_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.EnsureInitialized(ctx)

	subjects := store.Subjects(ctx)
	require.Len(t, subjects, 3)
	assert.Equal(t, "Physics", subjects[0].Subject)
	require.Len(t, store.Tasks(ctx), 3)
	require.Len(t, store.Logs(ctx), 2)
	assert.Equal(t, []string{"2025-03-09", "2025-03-08"}, store.Attendance(ctx),
		"seed backdates attendance to yesterday and the day before")
	require.Len(t, store.Exams(ctx), 1)

	// Second call is a no-op even after the user changed data.
	store.DeleteTask(ctx, "1")
	store.EnsureInitialized(ctx)
	assert.Len(t, store.Tasks(ctx), 2, "re-initialization must not re-seed")
}

func TestEnsureInitialized_MigratesLegacyExam(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv)

	require.NoError(t, kv.Set(ctx, keyInit, "true"))
	require.NoError(t, kv.Set(ctx, keyLegacyExam, `{"examName":"NEET 2025","date":"2025-05-04"}`))

	store.EnsureInitialized(ctx)

	exams := store.Exams(ctx)
	require.Len(t, exams, 1)
	assert.Equal(t, "migrated_1", exams[0].ID)
	assert.Equal(t, "NEET 2025", exams[0].Title)
	assert.Equal(t, "2025-05-04", exams[0].Date)

	_, hasLegacy, err := kv.Get(ctx, keyLegacyExam)
	require.NoError(t, err)
	assert.False(t, hasLegacy, "legacy record is removed after migration")

	// Running again must not clobber the migrated list.
	store.SaveExam(ctx, model.Exam{ID: "e2", Title: "Boards"})
	store.EnsureInitialized(ctx)
	assert.Len(t, store.Exams(ctx), 2)
}

func TestEnsureInitialized_LegacyExamDefaults(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, kv.Set(ctx, keyInit, "true"))
	require.NoError(t, kv.Set(ctx, keyLegacyExam, `{}`))

	store.EnsureInitialized(ctx)

	exams := store.Exams(ctx)
	require.Len(t, exams, 1)
	assert.Equal(t, "Exam", exams[0].Title, "missing legacy fields get defaults")
	assert.Equal(t, "2025-03-10", exams[0].Date)
}

func TestEnsureInitialized_CorruptLegacyExamSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv)

	require.NoError(t, kv.Set(ctx, keyInit, "true"))
	require.NoError(t, kv.Set(ctx, keyLegacyExam, "{broken"))

	store.EnsureInitialized(ctx)

	exams := store.Exams(ctx)
	require.Len(t, exams, 1)
	assert.Equal(t, "JEE Main 2025", exams[0].Title)
}

func TestWipe_RequiresReInitialization(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	store.EnsureInitialized(ctx)
	require.NotEmpty(t, store.Subjects(ctx))

	require.NoError(t, store.Wipe(ctx))
	assert.Empty(t, store.Subjects(ctx))
	assert.Empty(t, store.Attendance(ctx))

	store.EnsureInitialized(ctx)
	assert.Len(t, store.Subjects(ctx), 3, "wipe is followed by a fresh seed")
}
