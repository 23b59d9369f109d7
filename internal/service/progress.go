package service

import (
	"math"
	"strings"

	"github.com/noah-isme/research-guide-api/internal/models"
)

// AnchorFields are the six fields that make up the completion percentage.
var AnchorFields = []models.Field{
	models.FieldProblem,
	models.FieldGeneralObjective,
	models.FieldTheoreticalFramework,
	models.FieldDesign,
	models.FieldResults,
	models.FieldConclusion,
}

// Progress returns the rounded percentage (0-100) of non-blank anchor fields.
// Checklist flags do not count.
func Progress(state models.FormState) int {
	filled := 0
	for _, field := range AnchorFields {
		if value, _ := state.Get(field); strings.TrimSpace(value) != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(AnchorFields)) * 100))
}
