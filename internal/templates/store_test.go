package templates

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmdang/querypad/internal/apperrors"
	"github.com/vmdang/querypad/internal/db"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "templates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	// Clear the seeded defaults so list assertions are exact
	seeded, err := store.List("")
	require.NoError(t, err)
	for _, tmpl := range seeded {
		require.NoError(t, store.Delete(tmpl.ID))
	}
	return store
}

func TestSeedsDefaultsOnFirstOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.db")

	store, err := Open(path)
	require.NoError(t, err)

	all, err := store.List("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Select All Records", all[0].Name)
	require.NoError(t, store.Close())

	// Emptying the store must stick across reopens
	store, err = Open(path)
	require.NoError(t, err)
	all, err = store.List("")
	require.NoError(t, err)
	for _, tmpl := range all {
		require.NoError(t, store.Delete(tmpl.ID))
	}
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	all, err = store.List("")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateValidation(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Create("", db.Postgres, "SELECT 1")
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	_, err = store.Create("my template", db.Postgres, "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	_, err = store.Create("my template", "oracle", "SELECT 1")
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	tmpl, err := store.Create("my template", db.Postgres, "SELECT 1")
	require.NoError(t, err)
	assert.NotZero(t, tmpl.ID)
}

func TestListOrderAndFilter(t *testing.T) {
	store := openTestStore(t)

	first, err := store.Create("pg select", db.Postgres, "SELECT * FROM {table_name}")
	require.NoError(t, err)
	second, err := store.Create("mongo find", db.MongoDB, `{"find": "{table_name}"}`)
	require.NoError(t, err)
	third, err := store.Create("pg count", db.Postgres, "SELECT COUNT(*) FROM {table_name}")
	require.NoError(t, err)

	all, err := store.List("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{first.ID, second.ID, third.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	pgOnly, err := store.List(db.Postgres)
	require.NoError(t, err)
	require.Len(t, pgOnly, 2)
	assert.Equal(t, "pg select", pgOnly[0].Name)
	assert.Equal(t, "pg count", pgOnly[1].Name)

	mongoOnly, err := store.List(db.MongoDB)
	require.NoError(t, err)
	require.Len(t, mongoOnly, 1)
	assert.Equal(t, second.ID, mongoOnly[0].ID)
}

func TestUpdate(t *testing.T) {
	store := openTestStore(t)

	tmpl, err := store.Create("old name", db.Postgres, "SELECT 1")
	require.NoError(t, err)

	newName := "new name"
	newQuery := "SELECT 2"
	updated, err := store.Update(tmpl.ID, UpdateParams{Name: &newName, QueryText: &newQuery})
	require.NoError(t, err)
	assert.Equal(t, "new name", updated.Name)
	assert.Equal(t, "SELECT 2", updated.QueryText)
	assert.Equal(t, db.Postgres, updated.DatabaseType)

	// Persisted, not just returned
	got, err := store.Get(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "new name", got.Name)

	empty := ""
	_, err = store.Update(tmpl.ID, UpdateParams{Name: &empty})
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	_, err = store.Update(9999, UpdateParams{Name: &newName})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteTwiceFails(t *testing.T) {
	store := openTestStore(t)

	tmpl, err := store.Create("doomed", db.MySQL, "SELECT 1")
	require.NoError(t, err)

	require.NoError(t, store.Delete(tmpl.ID))
	assert.ErrorIs(t, store.Delete(tmpl.ID), apperrors.ErrNotFound)
}
