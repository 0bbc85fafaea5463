package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

func TestMemoryRepo_CreateGetList(t *testing.T) {
	repo := NewMemoryRepo()

	t1, err := repo.Create(model.Task{Name: "morning round", DueDate: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, t1.ID)
	assert.Equal(t, model.StatusPending, t1.Status)

	got, err := repo.Get(t1.ID)
	require.NoError(t, err)
	assert.Equal(t, t1, got)

	_, err = repo.Create(model.Task{Name: "evening round", DueDate: time.Now()})
	require.NoError(t, err)

	list, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMemoryRepo_GetUnknown(t *testing.T) {
	repo := NewMemoryRepo()
	_, err := repo.Get("task_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_UpdatePatchSemantics(t *testing.T) {
	repo := NewMemoryRepo()
	created, err := repo.Create(model.Task{
		Name:       "bath",
		Kind:       model.KindResident,
		ResidentID: "res1",
		DueDate:    time.Now(),
	})
	require.NoError(t, err)

	name := "assisted bath"
	day := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.Local)
	updated, err := repo.Update(created.ID, Patch{
		Name:           &name,
		AddSkippedDate: &day,
	})
	require.NoError(t, err)
	assert.Equal(t, "assisted bath", updated.Name)
	assert.True(t, updated.IsSkipped(day))

	// Adding the same day twice keeps the set a set.
	updated, err = repo.Update(created.ID, Patch{AddSkippedDate: &day})
	require.NoError(t, err)
	assert.Len(t, updated.SkippedDates, 1)

	// Clearing the resident link also resets the kind.
	empty := ""
	updated, err = repo.Update(created.ID, Patch{ResidentID: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.ResidentID)
	assert.Equal(t, model.KindGeneral, updated.Kind)

	_, err = repo.Update("task_nope", Patch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}
