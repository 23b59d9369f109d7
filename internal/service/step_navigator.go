package service

import (
	"sync"

	"github.com/noah-isme/research-guide-api/internal/models"
)

// IntentSink receives navigation intents for a view to fulfil.
type IntentSink func(intent models.Intent)

// StepNavigator tracks the active step and turns selections into intents.
// It never touches the view itself.
type StepNavigator struct {
	steps  []models.Step
	panels []models.StepID

	mu     sync.Mutex
	active models.StepID
	sink   IntentSink
}

// NewStepNavigator builds a navigator over the given steps and panels. Nil
// arguments fall back to the built-in course map.
func NewStepNavigator(steps []models.Step, panels []models.StepID) *StepNavigator {
	if len(steps) == 0 {
		steps = models.DefaultSteps()
	}
	if panels == nil {
		panels = models.DefaultPanels()
	}
	n := &StepNavigator{
		steps:  append([]models.Step(nil), steps...),
		panels: append([]models.StepID(nil), panels...),
	}
	n.active = n.steps[0].ID
	return n
}

// SetSink registers the intent consumer. A nil sink drops intents.
func (n *StepNavigator) SetSink(sink IntentSink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = sink
}

// Select makes id the active step and emits a scroll intent for it. Unknown
// ids are accepted; the resulting intent simply has no target to land on.
func (n *StepNavigator) Select(id models.StepID) models.Intent {
	n.mu.Lock()
	n.active = id
	sink := n.sink
	n.mu.Unlock()

	intent := models.Intent{Kind: models.IntentScrollTo, Target: id}
	emit(sink, intent)
	return intent
}

// ScrollTop emits a scroll-to-top intent without changing the active step.
func (n *StepNavigator) ScrollTop() models.Intent {
	n.mu.Lock()
	sink := n.sink
	n.mu.Unlock()

	intent := models.Intent{Kind: models.IntentScrollTop}
	emit(sink, intent)
	return intent
}

// Reset makes the first content step active.
func (n *StepNavigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = n.steps[0].ID
}

// Active returns the current selection.
func (n *StepNavigator) Active() models.StepID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// Steps returns a copy of the content steps.
func (n *StepNavigator) Steps() []models.Step {
	return append([]models.Step(nil), n.steps...)
}

// Panels returns a copy of the auxiliary panel ids.
func (n *StepNavigator) Panels() []models.StepID {
	return append([]models.StepID(nil), n.panels...)
}

// Known reports whether id names a content step or a panel.
func (n *StepNavigator) Known(id models.StepID) bool {
	for _, step := range n.steps {
		if step.ID == id {
			return true
		}
	}
	for _, panel := range n.panels {
		if panel == id {
			return true
		}
	}
	return false
}

func emit(sink IntentSink, intent models.Intent) {
	if sink != nil {
		sink(intent)
	}
}
