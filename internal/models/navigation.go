package models

// StepID identifies a content step or an auxiliary panel.
type StepID string

const (
	StepProblem     StepID = "paso1"
	StepObjectives  StepID = "paso2"
	StepFramework   StepID = "paso3"
	StepMethodology StepID = "paso4"
	StepCollection  StepID = "paso5"
	StepAnalysis    StepID = "paso6"
	StepResults     StepID = "paso7"
	StepConclusions StepID = "paso8"
	StepReferences  StepID = "paso9"
	PanelAbout      StepID = "acerca"
	PanelSteps      StepID = "pasos"
	PanelTools      StepID = "herramientas"
)

// Step is one entry of the course map.
type Step struct {
	ID    StepID `json:"id"`
	Title string `json:"title"`
}

// DefaultSteps returns the nine content steps in order.
func DefaultSteps() []Step {
	return []Step{
		{ID: StepProblem, Title: "1. Problema"},
		{ID: StepObjectives, Title: "2. Objetivos"},
		{ID: StepFramework, Title: "3. Marco teórico"},
		{ID: StepMethodology, Title: "4. Metodología"},
		{ID: StepCollection, Title: "5. Recolección"},
		{ID: StepAnalysis, Title: "6. Análisis"},
		{ID: StepResults, Title: "7. Resultados"},
		{ID: StepConclusions, Title: "8. Conclusiones"},
		{ID: StepReferences, Title: "9. Referencias"},
	}
}

// DefaultPanels returns the auxiliary panel ids.
func DefaultPanels() []StepID {
	return []StepID{PanelAbout, PanelSteps, PanelTools}
}

// IntentKind tells the view layer what to do with an Intent.
type IntentKind string

const (
	IntentScrollTo  IntentKind = "scroll_to"
	IntentScrollTop IntentKind = "scroll_top"
)

// Intent asks the view layer to bring a target into view. The core never
// scrolls itself; a view with no matching target simply ignores it.
type Intent struct {
	Kind   IntentKind `json:"kind"`
	Target StepID     `json:"target,omitempty"`
}
