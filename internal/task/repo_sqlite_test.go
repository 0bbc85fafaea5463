package task

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

func openTestSQLite(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLiteRepo(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepo_RoundTrip(t *testing.T) {
	repo := openTestSQLite(t)

	due := time.Date(2024, time.June, 3, 14, 30, 0, 0, time.Local)
	created, err := repo.Create(model.Task{
		Name:         "physio session",
		Kind:         model.KindResident,
		ResidentID:   "res1",
		ResidentName: "Marie Dubois",
		DueDate:      due,
		Recurrence:   model.RecurEvery2Days,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "physio session", got.Name)
	assert.Equal(t, model.RecurEvery2Days, got.Recurrence)
	assert.True(t, got.DueDate.Equal(due))

	_, err = repo.Get("task_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRepo_UpdateAndList(t *testing.T) {
	repo := openTestSQLite(t)

	first, err := repo.Create(model.Task{Name: "a", DueDate: time.Now().Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = repo.Create(model.Task{Name: "b", DueDate: time.Now()})
	require.NoError(t, err)

	day := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.Local)
	done := model.StatusCompleted
	updated, err := repo.Update(first.ID, Patch{
		Status:         &done,
		AddSkippedDate: &day,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.True(t, updated.IsSkipped(day))

	list, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// Skip markers survive the round trip through the stored document.
	reloaded, err := repo.Get(first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsSkipped(day))
}
