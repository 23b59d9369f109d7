package models

import "strings"

// Approach enumerates the methodological approach of a research project.
type Approach string

const (
	ApproachQuantitative Approach = "cuantitativo"
	ApproachQualitative  Approach = "cualitativo"
	ApproachMixed        Approach = "mixto"
)

// DefaultApproach is used for fresh and repaired states.
const DefaultApproach = ApproachQuantitative

// Approaches lists the accepted values in display order.
var Approaches = []Approach{ApproachQuantitative, ApproachQualitative, ApproachMixed}

// Valid reports whether a is one of the enumerated approaches.
func (a Approach) Valid() bool {
	switch a {
	case ApproachQuantitative, ApproachQualitative, ApproachMixed:
		return true
	default:
		return false
	}
}

// ParseApproach accepts the stored values and their English names.
func ParseApproach(raw string) (Approach, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cuantitativo", "quantitative":
		return ApproachQuantitative, true
	case "cualitativo", "qualitative":
		return ApproachQualitative, true
	case "mixto", "mixed":
		return ApproachMixed, true
	default:
		return "", false
	}
}

// ChecklistKey names one fixed checklist flag.
type ChecklistKey string

const (
	ChecklistConsent       ChecklistKey = "consentimiento"
	ChecklistTimeline      ChecklistKey = "cronograma"
	ChecklistProtocols     ChecklistKey = "protocolos"
	ChecklistDataSafeguard ChecklistKey = "resguardo"
)

// ChecklistKeys is the complete, ordered key set.
var ChecklistKeys = []ChecklistKey{ChecklistConsent, ChecklistTimeline, ChecklistProtocols, ChecklistDataSafeguard}

// ChecklistLabels are the user-facing captions.
var ChecklistLabels = map[ChecklistKey]string{
	ChecklistConsent:       "Consentimiento informado",
	ChecklistTimeline:      "Cronograma y responsables",
	ChecklistProtocols:     "Protocolos de calidad",
	ChecklistDataSafeguard: "Resguardo de datos",
}

// Checklist holds the data-collection readiness flags. The key set is fixed
// by the struct shape.
type Checklist struct {
	Consent       bool `json:"consentimiento" yaml:"consentimiento"`
	Timeline      bool `json:"cronograma" yaml:"cronograma"`
	Protocols     bool `json:"protocolos" yaml:"protocolos"`
	DataSafeguard bool `json:"resguardo" yaml:"resguardo"`
}

// ParseChecklistKey validates a key name.
func ParseChecklistKey(raw string) (ChecklistKey, bool) {
	key := ChecklistKey(strings.TrimSpace(raw))
	for _, k := range ChecklistKeys {
		if k == key {
			return key, true
		}
	}
	return "", false
}

// Get returns the flag for key; unknown keys read as false.
func (c Checklist) Get(key ChecklistKey) bool {
	if p := c.flag(key); p != nil {
		return *p
	}
	return false
}

// Toggle flips the flag for key and reports whether the key exists.
func (c *Checklist) Toggle(key ChecklistKey) bool {
	p := c.flag(key)
	if p == nil {
		return false
	}
	*p = !*p
	return true
}

func (c *Checklist) flag(key ChecklistKey) *bool {
	switch key {
	case ChecklistConsent:
		return &c.Consent
	case ChecklistTimeline:
		return &c.Timeline
	case ChecklistProtocols:
		return &c.Protocols
	case ChecklistDataSafeguard:
		return &c.DataSafeguard
	default:
		return nil
	}
}

// Field identifies one textual field of FormState.
type Field string

const (
	FieldProblem              Field = "problema"
	FieldGeneralObjective     Field = "objGeneral"
	FieldSpecificObjectives   Field = "objEspecificos"
	FieldTheoreticalFramework Field = "marco"
	FieldApproach             Field = "enfoque"
	FieldDesign               Field = "diseno"
	FieldSample               Field = "muestra"
	FieldInstruments          Field = "instrumentos"
	FieldResults              Field = "resultados"
	FieldConclusion           Field = "conclusion"
	FieldReferences           Field = "refs"
)

// Fields lists every field in form order.
var Fields = []Field{
	FieldProblem,
	FieldGeneralObjective,
	FieldSpecificObjectives,
	FieldTheoreticalFramework,
	FieldApproach,
	FieldDesign,
	FieldSample,
	FieldInstruments,
	FieldResults,
	FieldConclusion,
	FieldReferences,
}

// ParseField resolves a field by its stored name.
func ParseField(raw string) (Field, bool) {
	field := Field(strings.TrimSpace(raw))
	for _, f := range Fields {
		if f == field {
			return field, true
		}
	}
	return "", false
}

// FormState is the whole authored document plus its checklist.
type FormState struct {
	Problem              string    `json:"problema" yaml:"problema"`
	GeneralObjective     string    `json:"objGeneral" yaml:"objGeneral"`
	SpecificObjectives   string    `json:"objEspecificos" yaml:"objEspecificos"`
	TheoreticalFramework string    `json:"marco" yaml:"marco"`
	Approach             Approach  `json:"enfoque" yaml:"enfoque"`
	Design               string    `json:"diseno" yaml:"diseno"`
	Sample               string    `json:"muestra" yaml:"muestra"`
	Instruments          string    `json:"instrumentos" yaml:"instrumentos"`
	Results              string    `json:"resultados" yaml:"resultados"`
	Conclusion           string    `json:"conclusion" yaml:"conclusion"`
	References           string    `json:"refs" yaml:"refs"`
	Checklist            Checklist `json:"checklist" yaml:"checklist"`
}

// Get returns the value of a field. The second result is false for unknown fields.
func (s FormState) Get(field Field) (string, bool) {
	if field == FieldApproach {
		return string(s.Approach), true
	}
	if p := s.text(field); p != nil {
		return *p, true
	}
	return "", false
}

// text returns a pointer to a free-text field. Approach is not free text.
func (s *FormState) text(field Field) *string {
	switch field {
	case FieldProblem:
		return &s.Problem
	case FieldGeneralObjective:
		return &s.GeneralObjective
	case FieldSpecificObjectives:
		return &s.SpecificObjectives
	case FieldTheoreticalFramework:
		return &s.TheoreticalFramework
	case FieldDesign:
		return &s.Design
	case FieldSample:
		return &s.Sample
	case FieldInstruments:
		return &s.Instruments
	case FieldResults:
		return &s.Results
	case FieldConclusion:
		return &s.Conclusion
	case FieldReferences:
		return &s.References
	default:
		return nil
	}
}

// With returns a copy with one field replaced. An approach value outside the
// enumeration leaves the approach untouched. ok is false for unknown fields.
func (s FormState) With(field Field, value string) (next FormState, ok bool) {
	next = s
	if field == FieldApproach {
		if approach, valid := ParseApproach(value); valid {
			next.Approach = approach
		}
		return next, true
	}
	p := next.text(field)
	if p == nil {
		return s, false
	}
	*p = value
	return next, true
}

// Normalize repairs the approach invariant on decoded input.
func (s FormState) Normalize() FormState {
	if !s.Approach.Valid() {
		if approach, ok := ParseApproach(string(s.Approach)); ok {
			s.Approach = approach
		} else {
			s.Approach = DefaultApproach
		}
	}
	return s
}

// DefaultFormState returns the zero-value document.
func DefaultFormState() FormState {
	return FormState{Approach: DefaultApproach}
}

// ExampleFormState returns the canned, fully populated sample document.
func ExampleFormState() FormState {
	return FormState{
		Problem:              "En el conjunto residencial Nova, el uso del gimnasio es bajo pese a la alta inscripción de residentes.",
		GeneralObjective:     "Analizar los factores que influyen en el bajo uso del gimnasio por parte de los residentes de Nova.",
		SpecificObjectives:   "1) Identificar barreras percibidas.\n2) Comparar uso entre grupos.\n3) Evaluar impacto de recordatorios.",
		TheoreticalFramework: "Teoría del comportamiento planificado; adherencia a actividad física; diseño centrado en el usuario.",
		Approach:             ApproachMixed,
		Design:               "explicativo secuencial",
		Sample:               "200 residentes; muestreo estratificado.",
		Instruments:          "Encuesta Likert; entrevistas; conteo electrónico de accesos.",
		Results:              "Se observaron picos horarios; las barreras principales fueron ventilación, horarios y normas poco claras.",
		Conclusion:           "",
		References:           "Ajzen (1991). The theory of planned behavior...",
		Checklist: Checklist{
			Consent:       true,
			Timeline:      true,
			Protocols:     true,
			DataSafeguard: true,
		},
	}
}

// Presets bundles the two canned states the guide can swap in.
type Presets struct {
	Default FormState
	Example FormState
}

// DefaultPresets returns the built-in presets.
func DefaultPresets() Presets {
	return Presets{Default: DefaultFormState(), Example: ExampleFormState()}
}
