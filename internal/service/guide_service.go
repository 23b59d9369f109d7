package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/research-guide-api/internal/models"
	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
)

// GuideConfig wires a GuideService.
type GuideConfig struct {
	Persistence PersistenceConfig
	Client      DocumentClientConfig
	Presets     *models.Presets
	Steps       []models.Step
	Panels      []models.StepID
}

// GuideService is the presentation-free core of the authoring guide. Views
// call its operations and consume the intents it emits.
type GuideService struct {
	form        *FormStore
	persistence *PersistenceService
	navigator   *StepNavigator
	client      *DocumentClient
	drafts      DraftStore
	presets     models.Presets
	logger      *zap.Logger
}

// NewGuideService builds the guide around a draft store. A nil client is
// created from cfg.Client.
func NewGuideService(drafts DraftStore, client *DocumentClient, cfg GuideConfig, logger *zap.Logger) *GuideService {
	if logger == nil {
		logger = zap.NewNop()
	}
	presets := models.DefaultPresets()
	if cfg.Presets != nil {
		presets = *cfg.Presets
	}
	if client == nil {
		client = NewDocumentClient(cfg.Client, nil, logger)
	}

	form := NewFormStore(presets.Default)
	svc := &GuideService{
		form:        form,
		persistence: NewPersistenceService(form, cfg.Persistence, logger),
		navigator:   NewStepNavigator(cfg.Steps, cfg.Panels),
		client:      client,
		drafts:      drafts,
		presets:     presets,
		logger:      logger,
	}
	// Any edit invalidates a shown submission outcome.
	form.OnChange(func(models.FormState) { client.ClearFeedback() })
	return svc
}

// OnIntent registers the view's intent consumer.
func (s *GuideService) OnIntent(sink IntentSink) {
	s.navigator.SetSink(sink)
}

// Start restores the saved draft and begins persisting mutations. The
// restored indicator timer is bound to ctx.
func (s *GuideService) Start(ctx context.Context) bool {
	if s.drafts == nil {
		return false
	}
	restored := s.persistence.Restore(ctx, s.drafts)
	s.persistence.Attach(ctx, s.drafts)
	return restored
}

// Close releases the pending restored-indicator timer.
func (s *GuideService) Close() {
	s.persistence.Close()
}

// SetField updates one field of the form.
func (s *GuideService) SetField(field models.Field, value string) {
	s.form.SetField(field, value)
}

// ToggleChecklist flips one checklist flag.
func (s *GuideService) ToggleChecklist(key models.ChecklistKey) {
	s.form.ToggleChecklist(key)
}

// SelectStep activates a step or panel and emits its scroll intent.
func (s *GuideService) SelectStep(id models.StepID) models.Intent {
	return s.navigator.Select(id)
}

// GenerateConclusion replaces the conclusion with the synthesized paragraph
// and moves to the conclusions step.
func (s *GuideService) GenerateConclusion() string {
	conclusion := SynthesizeConclusion(s.form.Snapshot())
	s.form.SetField(models.FieldConclusion, conclusion)
	s.navigator.Select(models.StepConclusions)
	return conclusion
}

// LoadExample swaps in the sample document.
func (s *GuideService) LoadExample() {
	s.replace(s.presets.Example)
}

// ResetAll swaps in the empty default document.
func (s *GuideService) ResetAll() {
	s.replace(s.presets.Default)
}

func (s *GuideService) replace(state models.FormState) {
	s.form.ReplaceAll(state)
	s.navigator.ScrollTop()
	s.navigator.Reset()
}

// Submit sends the current document to the rendering service and then
// brings the tools panel, where the outcome is shown, into view.
func (s *GuideService) Submit(ctx context.Context) (Feedback, error) {
	fb, err := s.client.Submit(ctx, s.form.Snapshot())
	if err != nil {
		if appErrors.Is(err, appErrors.ErrSubmissionInProgress) {
			s.logger.Debug("submission ignored while busy")
		}
		return fb, err
	}
	s.navigator.Select(models.PanelTools)
	return fb, nil
}

// Progress returns the completion percentage of the current document.
func (s *GuideService) Progress() int {
	return Progress(s.form.Snapshot())
}

// Snapshot returns the current document.
func (s *GuideService) Snapshot() models.FormState {
	return s.form.Snapshot()
}

// ActiveStep returns the selected step or panel.
func (s *GuideService) ActiveStep() models.StepID {
	return s.navigator.Active()
}

// Steps returns the content steps in order.
func (s *GuideService) Steps() []models.Step {
	return s.navigator.Steps()
}

// Panels returns the auxiliary panel ids.
func (s *GuideService) Panels() []models.StepID {
	return s.navigator.Panels()
}

// KnownStep reports whether id is a step or panel of this guide.
func (s *GuideService) KnownStep(id models.StepID) bool {
	return s.navigator.Known(id)
}

// Restored reports whether a saved draft was restored recently.
func (s *GuideService) Restored() bool {
	return s.persistence.Restored()
}

// Busy reports whether a submission is in flight.
func (s *GuideService) Busy() bool {
	return s.client.Busy()
}

// Feedback returns the last submission outcome.
func (s *GuideService) Feedback() Feedback {
	return s.client.Feedback()
}

// AcknowledgeFeedback marks the last outcome as seen.
func (s *GuideService) AcknowledgeFeedback() Feedback {
	return s.client.Acknowledge()
}
