package service

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/research-guide-api/internal/dto"
	"github.com/noah-isme/research-guide-api/internal/models"
	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
	"github.com/noah-isme/research-guide-api/pkg/export"
	"github.com/noah-isme/research-guide-api/pkg/storage"
)

type failingRenderer struct{}

func (failingRenderer) RenderDocument(export.Document) ([]byte, error) {
	return nil, errors.New("font missing")
}

func newRenderServiceForTest(t *testing.T, signer *storage.SignedURLSigner, cfg RenderConfig) (*RenderService, *storage.LocalStorage, *MetricsService) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	metrics := NewMetricsService()
	svc := NewRenderService(store, signer, cfg, metrics, zap.NewNop(), nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }
	return svc, store, metrics
}

func TestRenderServiceGenerateStoresPDF(t *testing.T) {
	svc, store, metrics := newRenderServiceForTest(t, nil, RenderConfig{})

	result, err := svc.Generate(context.Background(), BuildDocumentRequest(models.ExampleFormState()))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.FileName, "proyecto_investigacion_20250314_092653_"))
	assert.True(t, strings.HasSuffix(result.FileName, ".pdf"))
	assert.Len(t, result.FileName, len("proyecto_investigacion_20250314_092653_12345678.pdf"))
	assert.Equal(t, "/api/research/download/"+result.FileName, result.FilePath)

	data, err := store.Read(result.FileName)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	assert.Equal(t, uint64(1), metrics.Snapshot().DocumentsRendered)
}

func TestRenderServiceRejectsInvalidPayload(t *testing.T) {
	svc, _, metrics := newRenderServiceForTest(t, nil, RenderConfig{MaxSectionLength: 30})

	req := BuildDocumentRequest(models.DefaultFormState())
	req.Marco = strings.Repeat("a", 31)
	_, err := svc.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = BuildDocumentRequest(models.DefaultFormState())
	req.Problema = ""
	_, err = svc.Generate(context.Background(), req)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))

	assert.Equal(t, uint64(2), metrics.Snapshot().DocumentsFailed)
}

func TestRenderServiceSectionLimitCountsRunes(t *testing.T) {
	svc, _, _ := newRenderServiceForTest(t, nil, RenderConfig{MaxSectionLength: 3})
	req := dto.ResearchProject{
		Problema: "ñññ", ObjGeneral: "a", ObjEspecificos: "a", Marco: "a",
		Metodologia: "a", Resultados: "a", Conclusiones: "a", Referencias: "a",
	}
	_, err := svc.Generate(context.Background(), req)
	assert.NoError(t, err)
}

func TestRenderServiceRendererFailure(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewRenderService(store, nil, RenderConfig{}, nil, nil, failingRenderer{})

	_, err = svc.Generate(context.Background(), BuildDocumentRequest(models.DefaultFormState()))
	require.True(t, appErrors.Is(err, appErrors.ErrRenderFailed))
	assert.Equal(t, "No fue posible generar el PDF.", appErrors.FromError(err).Message)
}

func TestRenderServiceOpen(t *testing.T) {
	svc, _, _ := newRenderServiceForTest(t, nil, RenderConfig{})
	result, err := svc.Generate(context.Background(), BuildDocumentRequest(models.ExampleFormState()))
	require.NoError(t, err)

	file, err := svc.Open(result.FileName, "")
	require.NoError(t, err)
	head := make([]byte, 5)
	_, err = io.ReadFull(file, head)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "%PDF-", string(head))

	for _, name := range []string{"nope.pdf", "../secret.pdf", "a/b.pdf", "notes.txt"} {
		_, err := svc.Open(name, "")
		assert.True(t, appErrors.Is(err, appErrors.ErrNotFound), name)
	}
}

func TestRenderServiceSignedDownloads(t *testing.T) {
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	svc, _, _ := newRenderServiceForTest(t, signer, RenderConfig{})

	result, err := svc.Generate(context.Background(), BuildDocumentRequest(models.ExampleFormState()))
	require.NoError(t, err)

	parsed, err := url.Parse(result.FilePath)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)
	assert.False(t, result.ExpiresAt.IsZero())

	file, err := svc.Open(result.FileName, token)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	_, err = svc.Open(result.FileName, "")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	_, err = svc.Open(result.FileName, token+"x")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestRenderServiceCleanup(t *testing.T) {
	svc, store, metrics := newRenderServiceForTest(t, nil, RenderConfig{FileTTL: time.Minute})

	result, err := svc.Generate(context.Background(), BuildDocumentRequest(models.ExampleFormState()))
	require.NoError(t, err)
	_, err = store.Save("keep.txt", []byte("x"))
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path(result.FileName), old, old))
	require.NoError(t, os.Chtimes(store.Path("keep.txt"), old, old))

	removed, err := svc.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, []string{result.FileName}, removed)
	assert.Equal(t, uint64(1), metrics.Snapshot().FilesCleaned)

	_, err = store.Read("keep.txt")
	assert.NoError(t, err)
}

func TestBuildDocumentLayout(t *testing.T) {
	doc := BuildDocument(BuildDocumentRequest(models.DefaultFormState()), time.Date(2025, 1, 2, 15, 4, 0, 0, time.UTC))
	require.Len(t, doc.Sections, 8)
	assert.Equal(t, DocumentTitle, doc.Title)
	assert.Equal(t, "Planteamiento del Problema", doc.Sections[0].Title)
	assert.Equal(t, "Referencias", doc.Sections[7].Title)
	assert.Equal(t, "Generado automáticamente el 02/01/2025 15:04.", doc.Footer)
}
