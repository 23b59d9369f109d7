package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/research-guide-api/internal/models"
)

// LoadPresets returns the built-in presets, with the example replaced by the
// YAML document at path when path is set. The default preset is fixed.
func LoadPresets(path string) (models.Presets, error) {
	presets := models.DefaultPresets()
	if path == "" {
		return presets, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return presets, fmt.Errorf("read example preset: %w", err)
	}
	var example models.FormState
	if err := yaml.Unmarshal(raw, &example); err != nil {
		return presets, fmt.Errorf("decode example preset %s: %w", path, err)
	}
	presets.Example = example.Normalize()
	return presets, nil
}
