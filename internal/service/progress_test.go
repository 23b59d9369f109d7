package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/research-guide-api/internal/models"
)

func TestProgressBounds(t *testing.T) {
	require.Equal(t, 0, Progress(models.DefaultFormState()))

	state := models.DefaultFormState()
	for _, field := range AnchorFields {
		var ok bool
		state, ok = state.With(field, "x")
		require.True(t, ok)
	}
	require.Equal(t, 100, Progress(state))
}

func TestProgressIsMonotonic(t *testing.T) {
	state := models.DefaultFormState()
	expected := []int{17, 33, 50, 67, 83, 100}
	previous := Progress(state)
	for i, field := range AnchorFields {
		state, _ = state.With(field, "contenido")
		current := Progress(state)
		assert.GreaterOrEqual(t, current, previous)
		assert.Equal(t, expected[i], current)
		previous = current
	}
}

func TestProgressIgnoresBlankAndNonAnchorFields(t *testing.T) {
	state := models.ExampleFormState()
	state.Conclusion = ""
	state.Problem = "   \n\t"
	state.Sample = ""
	state.References = ""
	state.Checklist = models.Checklist{}

	// theoretical framework, design, general objective and results remain
	assert.Equal(t, 67, Progress(state))

	state.Checklist = models.Checklist{Consent: true, Timeline: true, Protocols: true, DataSafeguard: true}
	assert.Equal(t, 67, Progress(state))
}
