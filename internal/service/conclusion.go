package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/research-guide-api/internal/models"
)

const (
	conclusionProblemFmt      = "Este estudio abordó la problemática: %s."
	conclusionProblemFallback = "Este estudio abordó la problemática planteada al inicio."
	conclusionObjectiveFmt    = "El estudio se desarrolló acorde al objetivo general: %s."
	conclusionSpecificPrefix  = "Se cumplieron los objetivos específicos: "
	conclusionAnswer          = "Los resultados permitieron responder la pregunta de investigación y aportan elementos relevantes para la mejora y toma de decisiones."
	conclusionFuture          = "Como líneas futuras se sugiere ampliar la muestra, explorar nuevas variables y replicar el estudio en otros contextos."
)

// ParseObjectives splits an enumerated objectives text into items.
//
//	list  = line { newline { newline } line }
//	line  = [ digits ")" { space } ] text
//
// Lines are trimmed, blank lines are dropped and the optional "n) " marker
// is discarded.
func ParseObjectives(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		line = stripEnumerator(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

// stripEnumerator drops a leading "<digits>)" token and the blanks after it.
func stripEnumerator(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != ')' {
		return line
	}
	return strings.TrimLeft(line[i+1:], " \t")
}

// FormatObjectives renders items as "1) a; 2) b".
func FormatObjectives(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = strconv.Itoa(i+1) + ") " + item
	}
	return strings.Join(parts, "; ")
}

// SynthesizeConclusion assembles the closing paragraph from the problem,
// the general objective and the specific objectives. The existing
// conclusion is never read, so the output depends only on those inputs.
func SynthesizeConclusion(state models.FormState) string {
	sentences := make([]string, 0, 5)

	if problem := strings.TrimSpace(state.Problem); problem != "" {
		sentences = append(sentences, fmt.Sprintf(conclusionProblemFmt, problem))
	} else {
		sentences = append(sentences, conclusionProblemFallback)
	}

	if objective := strings.TrimSpace(state.GeneralObjective); objective != "" {
		sentences = append(sentences, fmt.Sprintf(conclusionObjectiveFmt, objective))
	}

	if items := ParseObjectives(state.SpecificObjectives); len(items) > 0 {
		sentences = append(sentences, conclusionSpecificPrefix+FormatObjectives(items)+".")
	}

	sentences = append(sentences, conclusionAnswer, conclusionFuture)
	return strings.Join(sentences, " ")
}
