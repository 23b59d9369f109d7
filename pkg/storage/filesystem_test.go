package storage

import (
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("draft.json", []byte(`{"problema":"x"}`))
	require.NoError(t, err)
	require.Equal(t, "draft.json", name)

	data, err := store.Read("draft.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"problema":"x"}`, string(data))

	_, err = store.Save("draft.json", []byte(`{}`))
	require.NoError(t, err)
	data, err = store.Read("draft.json")
	require.NoError(t, err)
	require.Equal(t, "{}", string(data))

	require.NoError(t, store.Delete("draft.json"))
	require.NoError(t, store.Delete("draft.json"))
	_, err = store.Read("draft.json")
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../etc/passwd", "a/b.pdf", `a\b.pdf`} {
		_, err := store.Open(name)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("fresh.pdf", []byte("fresh"))
	require.NoError(t, err)
	_, err = store.Save("old.json", []byte("{}"))
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path("old.pdf"), past, past))
	require.NoError(t, os.Chtimes(store.Path("old.json"), past, past))

	deleted, err := store.CleanupOlderThan(time.Hour, ".pdf")
	require.NoError(t, err)
	require.Equal(t, []string{"old.pdf"}, deleted)

	_, err = store.Read("fresh.pdf")
	require.NoError(t, err)
	_, err = store.Read("old.json")
	require.NoError(t, err)
}
