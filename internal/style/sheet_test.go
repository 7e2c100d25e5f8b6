package style

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestSheet_SetAndClear(t *testing.T) {
	s := NewSheet()
	s.SetVariable("primary", "#ff0000")
	s.SetVariable("ring", "#ff0000")
	s.SetVariable("primary", "#00ff00")

	vars := s.Variables()
	if len(vars) != 2 {
		t.Fatalf("Variables() = %v, want 2 entries", vars)
	}
	if vars[0].Name != "primary" || vars[0].Value != "#00ff00" {
		t.Errorf("Variables()[0] = %+v, want primary=#00ff00", vars[0])
	}

	s.ClearVariable("primary")
	s.ClearVariable("missing")
	if _, ok := s.Get("primary"); ok {
		t.Error("Get(primary) after ClearVariable should miss")
	}
	if v, ok := s.Get("ring"); !ok || v != "#ff0000" {
		t.Errorf("Get(ring) = %q, %v", v, ok)
	}
}

func TestSheet_RenderCSS(t *testing.T) {
	s := NewSheet()
	s.SetSource("https://img.example/cover.jpg")
	s.SetVariable("primary", "#1a2b3c")
	s.SetVariable("highlight-rgb", "26, 43, 60")

	out, err := s.Render(FormatCSS)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	css := string(out)

	for _, want := range []string{":root {", "--primary: #1a2b3c;", "--highlight-rgb: 26, 43, 60;", "cover.jpg"} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q:\n%s", want, css)
		}
	}
}

func TestSheet_RenderEmptyCSS(t *testing.T) {
	out, err := NewSheet().Render(FormatCSS)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(out), "--") {
		t.Errorf("empty sheet rendered variables:\n%s", out)
	}
}

func TestSheet_RenderJSON(t *testing.T) {
	s := NewSheet()
	s.SetVariable("primary", "#1a2b3c")

	out, err := s.Render(FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["primary"] != "#1a2b3c" {
		t.Errorf("primary = %q, want #1a2b3c", got["primary"])
	}
}

func TestSheet_RenderTOML(t *testing.T) {
	s := NewSheet()
	s.SetVariable("ring", "#abcdef")

	out, err := s.Render(FormatTOML)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var got struct {
		Variable []Variable `toml:"variable"`
	}
	if _, err := toml.Decode(string(out), &got); err != nil {
		t.Fatalf("invalid TOML: %v\n%s", err, out)
	}
	if len(got.Variable) != 1 || got.Variable[0].Value != "#abcdef" {
		t.Errorf("decoded %+v", got.Variable)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range ValidFormats() {
		if _, err := ParseFormat(string(f)); err != nil {
			t.Errorf("ParseFormat(%s) error = %v", f, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("ParseFormat(yaml) expected error")
	}
}

func TestSheet_WriteFile(t *testing.T) {
	s := NewSheet()
	s.SetVariable("primary", "#000000")

	path := filepath.Join(t.TempDir(), "nested", "theme.css")
	if err := s.WriteFile(path, FormatCSS); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "--primary: #000000;") {
		t.Errorf("written file = %s", data)
	}
}
