package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"

	"github.com/jmylchreest/covertint/internal/config"
	"github.com/jmylchreest/covertint/internal/style"
	"github.com/jmylchreest/covertint/internal/theme"
)

// coverServer serves a solid red PNG at /red.png and 404s elsewhere.
func coverServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/red.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)
	return server
}

// emptyConfig writes a config file so tests never read $HOME.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "covertint.yaml")
	if err := os.WriteFile(path, []byte("log_level: off\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", emptyConfig(t)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAdjustCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "dark mode brightens red",
			args: []string{"adjust", "#ff0000"},
			want: []string{"--primary: #ff0606;", "--primary-foreground: #ffffff;", "--highlight-rgb: 255, 6, 6;", "--track-hover-bg: rgba(255, 6, 6, 0.15);"},
		},
		{
			name: "light mode keeps red",
			args: []string{"--mode", "light", "adjust", "ff0000"},
			want: []string{"--primary: #ff0000;", "--ring: #ff0000;", "--active-highlight: #ff0000;"},
		},
		{
			name: "shorthand",
			args: []string{"--mode", "light", "adjust", "#abc"},
			want: []string{"--highlight-rgb: 170, 187, 204;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestAdjustCmd_RejectsMalformedHex(t *testing.T) {
	if _, err := execute(t, "adjust", "#12"); err == nil {
		t.Error("Execute() expected error for malformed hex")
	}
}

func TestAdjustCmd_JSON(t *testing.T) {
	out, err := execute(t, "-f", "json", "adjust", "#336699")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, `"primary": "#`) {
		t.Errorf("JSON output = %s", out)
	}
}

func TestThemeCmd(t *testing.T) {
	server := coverServer(t, nil)

	out, err := execute(t, "theme", server.URL+"/red.png")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "--primary: #ff0606;") {
		t.Errorf("output missing dark-adjusted red:\n%s", out)
	}
}

func TestThemeCmd_LastRequestWins(t *testing.T) {
	server := coverServer(t, nil)

	out, err := execute(t, "theme", server.URL+"/red.png", server.URL+"/missing.png")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.Contains(out, "--primary") {
		t.Errorf("last artwork has no colour but variables were published:\n%s", out)
	}
}

func TestThemeCmd_Disabled(t *testing.T) {
	var hits atomic.Int32
	server := coverServer(t, &hits)

	out, err := execute(t, "--disable", "theme", server.URL+"/red.png")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.Contains(out, "--primary") {
		t.Errorf("disabled theming published variables:\n%s", out)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times while disabled", hits.Load())
	}
}

func TestThemeCmd_OutputFile(t *testing.T) {
	server := coverServer(t, nil)
	path := filepath.Join(t.TempDir(), "theme.toml")

	if _, err := execute(t, "-o", path, "-f", "toml", "theme", server.URL+"/red.png"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "#ff0606") {
		t.Errorf("TOML output = %s", data)
	}
}

func TestSession_NegativeCacheAcrossRequests(t *testing.T) {
	var hits atomic.Int32
	server := coverServer(t, &hits)
	s := newSession(config.Default(), hclog.NewNullLogger(), nil, nil)

	url := server.URL + "/cover-123"
	for i := 0; i < 3; i++ {
		<-s.apply(context.Background(), url)
		if _, ok := s.sheet.Get(theme.VarPrimary); ok {
			t.Fatalf("pass %d: variables published for failed artwork", i)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestSession_UpdateReapplies(t *testing.T) {
	server := coverServer(t, nil)
	s := newSession(config.Default(), hclog.NewNullLogger(), nil, nil)

	<-s.apply(context.Background(), server.URL+"/red.png")
	if v, _ := s.sheet.Get(theme.VarPrimary); v != "#ff0606" {
		t.Fatalf("primary = %q, want #ff0606", v)
	}

	light := config.Default()
	light.Mode = "light"
	<-s.update(context.Background(), light)
	if v, _ := s.sheet.Get(theme.VarPrimary); v != "#ff0000" {
		t.Errorf("primary after mode change = %q, want #ff0000", v)
	}

	off := config.Default()
	off.Mode = "light"
	off.Enabled = false
	<-s.update(context.Background(), off)
	if _, ok := s.sheet.Get(theme.VarPrimary); ok {
		t.Error("variables remain after disabling")
	}
}

func TestRunWatch_ReadsNavigation(t *testing.T) {
	server := coverServer(t, nil)
	s := newSession(config.Default(), hclog.NewNullLogger(), nil, nil)

	in := strings.NewReader(server.URL + "/missing.png\n" + server.URL + "/red.png\n")
	var out bytes.Buffer
	if err := runWatch(context.Background(), viper.New(), s, nil, in, &out); err != nil {
		t.Fatalf("runWatch() error = %v", err)
	}

	if v, _ := s.sheet.Get(theme.VarPrimary); v != "#ff0606" {
		t.Errorf("primary = %q, want #ff0606", v)
	}
	if s.engine.Current() != server.URL+"/red.png" {
		t.Errorf("Current() = %q", s.engine.Current())
	}
}

func TestRenderPreview(t *testing.T) {
	sheet := style.NewSheet()
	if got := renderPreview(sheet); !strings.Contains(got, "no accent") {
		t.Errorf("renderPreview(empty) = %q", got)
	}

	sheet.SetVariable(theme.VarPrimary, "#336699")
	sheet.SetVariable(theme.VarPrimaryForeground, "#ffffff")
	sheet.SetVariable(theme.VarTrackHoverBg, "rgba(51, 102, 153, 0.15)")
	got := renderPreview(sheet)
	if !strings.Contains(got, "#336699") || !strings.Contains(got, "hover: rgba(51, 102, 153, 0.15)") {
		t.Errorf("renderPreview() = %q", got)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "covertint version") {
		t.Errorf("version output = %q", out)
	}
}
