package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/research-guide-api/internal/models"
)

func newGuideForTest(t *testing.T, handler http.HandlerFunc) (*GuideService, *memoryDraftStore, *[]models.Intent) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	drafts := newMemoryDraftStore()
	client := NewDocumentClient(DocumentClientConfig{BaseURL: srv.URL}, srv.Client(), nil)
	guide := NewGuideService(drafts, client, GuideConfig{
		Persistence: PersistenceConfig{RestoredDuration: time.Hour},
	}, nil)
	t.Cleanup(guide.Close)

	intents := &[]models.Intent{}
	guide.OnIntent(func(intent models.Intent) { *intents = append(*intents, intent) })
	return guide, drafts, intents
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, `{"message":"PDF generado exitosamente","file_path":"/api/research/download/x.pdf"}`)
}

func TestGuideStartRestoresSavedDraft(t *testing.T) {
	guide, drafts, _ := newGuideForTest(t, okHandler)
	drafts.data[DefaultStorageKey], _ = EncodeFormState(models.ExampleFormState())

	require.True(t, guide.Start(context.Background()))
	assert.True(t, guide.Restored())
	assert.Equal(t, models.ExampleFormState(), guide.Snapshot())
	assert.Zero(t, drafts.writeCount())

	guide.SetField(models.FieldSample, "50 residentes")
	require.Equal(t, 1, drafts.writeCount())
}

func TestGuideLoadExampleThenResetYieldsDefault(t *testing.T) {
	guide, _, intents := newGuideForTest(t, okHandler)
	guide.Start(context.Background())

	guide.SelectStep(models.StepResults)
	guide.LoadExample()
	require.Equal(t, models.ExampleFormState(), guide.Snapshot())
	require.Equal(t, models.StepProblem, guide.ActiveStep())

	guide.SelectStep(models.StepResults)
	guide.ResetAll()

	state := guide.Snapshot()
	assert.Equal(t, models.DefaultFormState(), state)
	assert.Equal(t, models.ApproachQuantitative, state.Approach)
	assert.Equal(t, models.Checklist{}, state.Checklist)
	assert.Equal(t, models.StepProblem, guide.ActiveStep())
	assert.Equal(t, models.Intent{Kind: models.IntentScrollTop}, (*intents)[len(*intents)-1])
}

func TestGuideGenerateConclusionSelectsConclusionsStep(t *testing.T) {
	guide, drafts, intents := newGuideForTest(t, okHandler)
	guide.Start(context.Background())
	guide.LoadExample()

	first := guide.GenerateConclusion()
	second := guide.GenerateConclusion()

	require.Equal(t, first, second)
	assert.Equal(t, first, guide.Snapshot().Conclusion)
	assert.Equal(t, models.StepConclusions, guide.ActiveStep())
	assert.Equal(t, models.Intent{Kind: models.IntentScrollTo, Target: models.StepConclusions}, (*intents)[len(*intents)-1])
	assert.Equal(t, 100, guide.Progress())

	saved, err := DecodeFormState(drafts.data[DefaultStorageKey])
	require.NoError(t, err)
	assert.Equal(t, first, saved.Conclusion)
}

func TestGuideSubmitNavigatesToToolsAndEditsClearFeedback(t *testing.T) {
	guide, _, intents := newGuideForTest(t, okHandler)
	guide.Start(context.Background())

	fb, err := guide.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, fb.Status)
	assert.Equal(t, models.PanelTools, guide.ActiveStep())
	assert.Equal(t, models.Intent{Kind: models.IntentScrollTo, Target: models.PanelTools}, (*intents)[len(*intents)-1])
	assert.False(t, guide.Feedback().Empty())

	guide.ToggleChecklist(models.ChecklistConsent)
	assert.True(t, guide.Feedback().Empty())
	assert.False(t, guide.Busy())
}

func TestGuideSubmitFailureLeavesStateUntouched(t *testing.T) {
	guide, _, _ := newGuideForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"Error al generar el PDF: sin espacio"}`)
	})
	guide.Start(context.Background())
	guide.LoadExample()
	before := guide.Snapshot()

	fb, err := guide.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, fb.Status)
	assert.Equal(t, "Error al generar el PDF: sin espacio", fb.Message)
	assert.Equal(t, before, guide.Snapshot())
	assert.Equal(t, models.PanelTools, guide.ActiveStep())

	seen := guide.AcknowledgeFeedback()
	assert.Equal(t, fb, seen)
}

func TestGuideWithoutDraftStore(t *testing.T) {
	guide := NewGuideService(nil, nil, GuideConfig{}, nil)
	defer guide.Close()

	assert.False(t, guide.Start(context.Background()))
	guide.SetField(models.FieldProblem, "x")
	assert.Equal(t, "x", guide.Snapshot().Problem)
	assert.Len(t, guide.Steps(), 9)
	assert.Len(t, guide.Panels(), 3)
	assert.True(t, guide.KnownStep(models.PanelTools))
}

func TestGuideUsesInjectedPresets(t *testing.T) {
	example := models.DefaultFormState()
	example.Problem = "preset"
	guide := NewGuideService(nil, nil, GuideConfig{
		Presets: &models.Presets{Default: models.DefaultFormState(), Example: example},
	}, nil)
	defer guide.Close()

	guide.LoadExample()
	assert.Equal(t, "preset", guide.Snapshot().Problem)
}
