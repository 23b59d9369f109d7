package dto

// Placeholder fills every empty section of a generation request.
const Placeholder = "Pendiente por definir."

// ResearchProject is the POST /api/research/generate payload: eight flattened,
// placeholder-filled sections. The section rule bounds each one's length and
// is registered by the rendering service.
type ResearchProject struct {
	Problema       string `json:"problema" validate:"required,section" example:"En el conjunto residencial Nova..."`
	ObjGeneral     string `json:"obj_general" validate:"required,section"`
	ObjEspecificos string `json:"obj_especificos" validate:"required,section"`
	Marco          string `json:"marco" validate:"required,section"`
	Metodologia    string `json:"metodologia" validate:"required,section"`
	Resultados     string `json:"resultados" validate:"required,section"`
	Conclusiones   string `json:"conclusiones" validate:"required,section"`
	Referencias    string `json:"referencias" validate:"required,section"`
}

// GenerateResponse is returned after a document was rendered.
type GenerateResponse struct {
	Message  string `json:"message,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// ErrorResponse is the error body of a non-2xx reply. Detail is a string for
// domain errors but may be structured for framework validation errors.
type ErrorResponse struct {
	Detail  interface{} `json:"detail,omitempty"`
	Message string      `json:"message,omitempty"`
}
