package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/noah-isme/research-guide-api/internal/models"
	"github.com/noah-isme/research-guide-api/internal/service"
)

var fieldLabels = map[models.Field]string{
	models.FieldProblem:              "Problema",
	models.FieldGeneralObjective:     "Objetivo general",
	models.FieldSpecificObjectives:   "Objetivos específicos",
	models.FieldTheoreticalFramework: "Marco teórico",
	models.FieldApproach:             "Enfoque",
	models.FieldDesign:               "Diseño",
	models.FieldSample:               "Muestra",
	models.FieldInstruments:          "Instrumentos",
	models.FieldResults:              "Resultados",
	models.FieldConclusion:           "Conclusión",
	models.FieldReferences:           "Referencias",
}

var panelTitles = map[models.StepID]string{
	models.PanelAbout: "Acerca de la guía",
	models.PanelSteps: "Mapa del curso",
	models.PanelTools: "Herramientas",
}

// stepFields maps each content step to the fields it edits. The collection
// step shows the checklist; the analysis step has no fields.
var stepFields = map[models.StepID][]models.Field{
	models.StepProblem:     {models.FieldProblem},
	models.StepObjectives:  {models.FieldGeneralObjective, models.FieldSpecificObjectives},
	models.StepFramework:   {models.FieldTheoreticalFramework},
	models.StepMethodology: {models.FieldApproach, models.FieldDesign, models.FieldSample, models.FieldInstruments},
	models.StepResults:     {models.FieldResults},
	models.StepConclusions: {models.FieldConclusion},
	models.StepReferences:  {models.FieldReferences},
}

// renderIntent fulfils a navigation intent by printing the target section.
// Targets this view does not know are ignored.
func renderIntent(w io.Writer, guide *service.GuideService, intent models.Intent) {
	if intent.Kind != models.IntentScrollTo {
		return
	}
	if title, ok := panelTitles[intent.Target]; ok {
		fmt.Fprintf(w, "» %s\n", TitleStyle.Render(title))
		return
	}
	for _, step := range guide.Steps() {
		if step.ID == intent.Target {
			renderStep(w, step, guide.Snapshot())
			return
		}
	}
}

func renderHeader(w io.Writer, guide *service.GuideService) {
	header := TitleStyle.Render("Guía de investigación")
	if guide.Restored() {
		header += "  " + BadgeStyle.Render("[borrador restaurado]")
	}
	fmt.Fprintln(w, header)
	renderProgress(w, guide.Progress())
}

func renderProgress(w io.Writer, pct int) {
	fmt.Fprintf(w, "%s %s %d%%\n", LabelStyle.Render("Progreso"), progressBar(pct), pct)
}

func renderStep(w io.Writer, step models.Step, state models.FormState) {
	fmt.Fprintf(w, "\n%s\n", SectionStyle.Render(step.Title))
	if step.ID == models.StepCollection {
		renderChecklist(w, state.Checklist)
		return
	}
	fields := stepFields[step.ID]
	if len(fields) == 0 {
		fmt.Fprintf(w, "  %s\n", EmptyStyle.Render("(sin campos)"))
		return
	}
	for _, field := range fields {
		value, _ := state.Get(field)
		renderField(w, field, value)
	}
}

func renderField(w io.Writer, field models.Field, value string) {
	fmt.Fprintf(w, "  %s\n", LabelStyle.Render(fieldLabels[field]+":"))
	if strings.TrimSpace(value) == "" {
		fmt.Fprintf(w, "    %s\n", EmptyStyle.Render("(vacío)"))
		return
	}
	for _, line := range strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n") {
		fmt.Fprintf(w, "    %s\n", ValueStyle.Render(line))
	}
}

func renderChecklist(w io.Writer, checklist models.Checklist) {
	for _, key := range models.ChecklistKeys {
		mark := "[ ]"
		if checklist.Get(key) {
			mark = ActiveStyle.Render("[x]")
		}
		fmt.Fprintf(w, "  %s %s %s\n", mark, models.ChecklistLabels[key], LabelStyle.Render("("+string(key)+")"))
	}
}

func renderDocument(w io.Writer, guide *service.GuideService) {
	renderHeader(w, guide)
	state := guide.Snapshot()
	for _, step := range guide.Steps() {
		renderStep(w, step, state)
	}
}

func renderFeedback(w io.Writer, fb service.Feedback) {
	switch fb.Status {
	case service.StatusSucceeded:
		fmt.Fprintln(w, SuccessStyle.Render(fb.Message))
		if fb.DownloadURL != "" {
			fmt.Fprintf(w, "%s %s\n", LabelStyle.Render("Descargar PDF:"), fb.DownloadURL)
		}
	case service.StatusFailed:
		fmt.Fprintln(w, ErrorStyle.Render(fb.Message))
	}
}
