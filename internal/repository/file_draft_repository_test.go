package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
	"github.com/noah-isme/research-guide-api/pkg/storage"
)

func TestFileDraftRepositoryRoundTrip(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileDraftRepository(files)
	ctx := context.Background()

	_, err = repo.Load(ctx, "research-guide-v1")
	require.True(t, appErrors.Is(err, appErrors.ErrDraftNotFound))

	require.NoError(t, repo.Save(ctx, "research-guide-v1", []byte(`{"refs":"a"}`)))
	payload, err := repo.Load(ctx, "research-guide-v1")
	require.NoError(t, err)
	require.Equal(t, `{"refs":"a"}`, string(payload))

	raw, err := files.Read("research-guide-v1.json")
	require.NoError(t, err)
	require.Equal(t, payload, raw)
}

func TestFileDraftRepositoryRejectsPathKeys(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileDraftRepository(files)

	require.Error(t, repo.Save(context.Background(), "../escape", []byte("{}")))
	_, err = repo.Load(context.Background(), "../escape")
	require.Error(t, err)
	require.False(t, appErrors.Is(err, appErrors.ErrDraftNotFound))
}

func TestFileDraftRepositoryHonoursCancelledContext(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileDraftRepository(files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, repo.Save(ctx, "k", []byte("{}")), context.Canceled)
}
