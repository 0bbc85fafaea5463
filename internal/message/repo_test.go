package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

func TestCreateAndList(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	created, err := repo.Create(model.Message{Body: "fridge in unit B is down"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	out, err := repo.List()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "fridge in unit B is down", out[0].Body)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	created, err := repo.Create(model.Message{Body: "shift swap Friday"})
	require.NoError(t, err)

	m, err := repo.MarkRead(created.ID, "u1")
	require.NoError(t, err)
	assert.True(t, m.HasRead("u1"))

	m, err = repo.MarkRead(created.ID, "u1")
	require.NoError(t, err)
	assert.Len(t, m.ReadBy, 1)

	assert.False(t, m.HasRead("u2"))
}

func TestMarkReadUnknown(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	_, err = repo.MarkRead("msg_missing", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)
	created, err := repo.Create(model.Message{Body: "order more gloves"})
	require.NoError(t, err)
	_, err = repo.MarkRead(created.ID, "u1")
	require.NoError(t, err)

	reopened, err := NewFileRepo(dir)
	require.NoError(t, err)
	out, err := reopened.List()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].HasRead("u1"))
}
