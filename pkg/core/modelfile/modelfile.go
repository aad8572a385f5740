// Package modelfile reads and writes model files on disk. Files are parsed
// as Hjson, so hand-written models may use comments, unquoted keys and
// trailing commas; files written back are plain JSON.
package modelfile

import (
	"encoding/json"
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"

	"finmodel/pkg/models"
)

// Load reads a model file and returns a normalized model.
func Load(path string) (*models.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes Hjson (or plain JSON) model data.
func Parse(data []byte) (*models.Model, error) {
	var m models.Model
	if err := hjson.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.Normalize()
	return &m, nil
}

// Save writes the model as indented JSON.
func Save(path string, m *models.Model) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}
