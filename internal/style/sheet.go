// Package style provides a StylePublisher backed by an in-memory style
// scope that renders as CSS custom properties, JSON or TOML.
package style

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"text/template"

	"github.com/BurntSushi/toml"
)

//go:embed *.tmpl
var templates embed.FS

// Format is an output format for a rendered sheet.
type Format string

const (
	FormatCSS  Format = "css"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ValidFormats returns the supported output formats.
func ValidFormats() []Format {
	return []Format{FormatCSS, FormatJSON, FormatTOML}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !slices.Contains(ValidFormats(), f) {
		return "", fmt.Errorf("invalid format: %s (valid: %v)", s, ValidFormats())
	}
	return f, nil
}

// Variable is one named style variable.
type Variable struct {
	Name  string `json:"name" toml:"name"`
	Value string `json:"value" toml:"value"`
}

// Sheet is a single global style scope. Variables keep the order in which
// they were first set. It is safe for concurrent use.
type Sheet struct {
	mu     sync.Mutex
	order  []string
	values map[string]string
	source string
}

// NewSheet creates an empty Sheet.
func NewSheet() *Sheet {
	return &Sheet{values: make(map[string]string)}
}

// SetVariable sets name to value.
func (s *Sheet) SetVariable(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = value
}

// ClearVariable removes name. Clearing an unset variable is a no-op.
func (s *Sheet) ClearVariable(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
}

// SetSource records what the sheet was derived from, for the CSS header.
func (s *Sheet) SetSource(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Get returns the value of a variable.
func (s *Sheet) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	return v, ok
}

// Variables returns the current variables in order.
func (s *Sheet) Variables() []Variable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Sheet) snapshotLocked() []Variable {
	vars := make([]Variable, 0, len(s.order))
	for _, name := range s.order {
		vars = append(vars, Variable{Name: name, Value: s.values[name]})
	}
	return vars
}

// Render renders the sheet in the given format.
func (s *Sheet) Render(format Format) ([]byte, error) {
	s.mu.Lock()
	vars := s.snapshotLocked()
	source := s.source
	s.mu.Unlock()

	switch format {
	case FormatCSS:
		return renderCSS(vars, source)
	case FormatJSON:
		out := make(map[string]string, len(vars))
		for _, v := range vars {
			out[v.Name] = v.Value
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(struct {
			Variables []Variable `toml:"variable"`
		}{Variables: vars}); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("invalid format: %s", format)
	}
}

func renderCSS(vars []Variable, source string) ([]byte, error) {
	tmplContent, err := templates.ReadFile("root.css.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read CSS template: %w", err)
	}

	tmpl, err := template.New("root.css").Parse(string(tmplContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSS template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		Source    string
		Variables []Variable
	}{Source: source, Variables: vars}); err != nil {
		return nil, fmt.Errorf("failed to execute CSS template: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile renders the sheet and replaces path with the result.
func (s *Sheet) WriteFile(path string, format Format) error {
	data, err := s.Render(format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directory needs standard permissions
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".covertint-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { // #nosec G302 - Stylesheets need standard read permissions
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
