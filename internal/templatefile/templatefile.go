// ABOUTME: Reads and writes workout templates as YAML or JSON files.
// ABOUTME: Decoding is strict; writes go through a temp file and rename.
package templatefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const formatVersion = 1

// Document is the on-disk shape of a template file.
type Document struct {
	Version   int                       `json:"version" yaml:"version"`
	Templates []*models.WorkoutTemplate `json:"templates" yaml:"templates"`
}

// Validation errors.
var (
	ErrNoTemplates    = errors.New("file contains no templates")
	ErrUnnamed        = errors.New("template name is required")
	ErrUnnamedEntry   = errors.New("template exercise name is required")
	ErrUnknownVersion = errors.New("unsupported template file version")
)

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Encode renders templates as YAML, or JSON when asJSON is set.
func Encode(templates []*models.WorkoutTemplate, asJSON bool) ([]byte, error) {
	doc := Document{Version: formatVersion, Templates: templates}
	if asJSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	return yaml.Marshal(doc)
}

// Decode parses a template document. Unknown fields are rejected. Every
// template is validated and normalized; missing IDs are generated.
func Decode(data []byte, asJSON bool) ([]*models.WorkoutTemplate, error) {
	var doc Document
	if asJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
	}

	if doc.Version != 0 && doc.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, doc.Version)
	}
	if len(doc.Templates) == 0 {
		return nil, ErrNoTemplates
	}
	for i, t := range doc.Templates {
		if err := prepare(t); err != nil {
			return nil, fmt.Errorf("template %d: %w", i+1, err)
		}
	}
	return doc.Templates, nil
}

func prepare(t *models.WorkoutTemplate) error {
	if t == nil || strings.TrimSpace(t.Name) == "" {
		return ErrUnnamed
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Exercises {
		te := &t.Exercises[i]
		if strings.TrimSpace(te.ExerciseName) == "" {
			return fmt.Errorf("%s: %w", t.Name, ErrUnnamedEntry)
		}
		if te.ID == uuid.Nil {
			te.ID = uuid.New()
		}
		if te.SuggestedSets <= 0 {
			te.SuggestedSets = len(te.RepRanges)
		}
	}
	t.Normalize()
	return nil
}

// Read loads templates from path. The format follows the extension.
func Read(fsys afero.Fs, path string) ([]*models.WorkoutTemplate, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, isJSON(path))
}

// Write stores templates at path atomically. The format follows the extension.
func Write(fsys afero.Fs, path string, templates []*models.WorkoutTemplate) error {
	data, err := Encode(templates, isJSON(path))
	if err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}
	return writeAtomic(fsys, path, data)
}

func writeAtomic(fsys afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fsys, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = fsys.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	return nil
}
