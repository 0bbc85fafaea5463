package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

func TestCreateAndListNewestFirst(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	first, err := repo.Create(model.Report{Title: "Morning round", ResidentID: "res1"})
	require.NoError(t, err)
	second, err := repo.Create(model.Report{Title: "Evening round", ResidentID: "res1"})
	require.NoError(t, err)

	out, err := repo.List("")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, second.ID, out[0].ID)
	assert.Equal(t, first.ID, out[1].ID)
}

func TestListFiltersByResident(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Create(model.Report{Title: "A", ResidentID: "res1"})
	require.NoError(t, err)
	_, err = repo.Create(model.Report{Title: "B", ResidentID: "res2"})
	require.NoError(t, err)

	out, err := repo.List("res2")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].Title)
}

func TestUpdateKeepsEmptyFields(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	created, err := repo.Create(model.Report{Title: "Fall report", Body: "tripped in hallway"})
	require.NoError(t, err)

	updated, err := repo.Update(created.ID, "", "no injuries found")
	require.NoError(t, err)
	assert.Equal(t, "Fall report", updated.Title)
	assert.Equal(t, "no injuries found", updated.Body)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)
	created, err := repo.Create(model.Report{Title: "Handover"})
	require.NoError(t, err)

	reopened, err := NewFileRepo(dir)
	require.NoError(t, err)
	got, err := reopened.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Handover", got.Title)
}

func TestDeleteUnknown(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete("rep_missing"), ErrNotFound)
}
