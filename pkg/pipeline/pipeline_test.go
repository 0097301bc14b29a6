package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/cache"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/observability"
)

const lightCurve = `time,flux [mJy]
2018-06-01T12:00:00,1.5
2018-06-01T13:00:00,2.5
2018-06-01T14:00:00,3.5
`

const description = `
title = "Light curve"

[[data]]
id = "lc"
path = "lc.csv"

[[layers]]
type = "markers"
data = "lc"
column = "flux"
label = "Flux"

[[layers]]
type = "horizontal_line"
value = "2 mJy"

[[views]]
title = "Markers only"
include = ["Flux"]
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{"lc.csv": lightCurve, "figure.toml": description}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "figure.toml")
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"zip", false},
		{"svg", false},
		{"png", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"json", "pdf"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Config: filepath.Join("plots", "lc.yaml")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(opts.Formats, []string{FormatJSON}) {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.OutDir != "plots" || opts.Name != "lc" {
		t.Errorf("OutDir=%q Name=%q", opts.OutDir, opts.Name)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if got := opts.OutputPath(FormatSVG); got != filepath.Join("plots", "lc.svg") {
		t.Errorf("OutputPath = %q", got)
	}

	// Second call should be idempotent
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call revalidated: %v", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing config", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Config: "a.toml", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"negative size", Options{Config: "a.toml", Width: -1}, errors.ErrCodeInvalidInput},
		{"bad name", Options{Config: "a.toml", Name: "../x"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCacheable(t *testing.T) {
	opts := Options{}
	if opts.Cacheable(FormatJSON) {
		t.Error("json with side files should not be cacheable")
	}
	if !opts.Cacheable(FormatSVG) || !opts.Cacheable(FormatBundle) {
		t.Error("single-file formats should be cacheable")
	}
	opts.Embed = true
	if !opts.Cacheable(FormatJSON) {
		t.Error("embedded json should be cacheable")
	}
}

func TestExecute(t *testing.T) {
	path := setup(t)
	out := t.TempDir()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Config:  path,
		OutDir:  out,
		Formats: []string{FormatJSON, FormatBundle, FormatSVG},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"figure.json", "data_lc.csv", "figure.zip", "figure.svg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if result.Outputs[FormatSVG] != filepath.Join(out, "figure.svg") {
		t.Errorf("Outputs = %v", result.Outputs)
	}
	if result.Stats.LayerCount != 2 || result.Stats.ViewCount != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	svg, _ := os.ReadFile(filepath.Join(out, "figure.svg"))
	if !strings.Contains(string(svg), "<svg") {
		t.Error("svg output is not an SVG document")
	}
}

func TestExecuteCache(t *testing.T) {
	path := setup(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil)
	defer runner.Close()

	opts := Options{Config: path, OutDir: t.TempDir(), Formats: []string{FormatSVG, FormatJSON}, Embed: true}
	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Cached) != 0 {
		t.Errorf("first run cached = %v", first.Cached)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(second.Cached, []string{FormatSVG, FormatJSON}) {
		t.Errorf("second run cached = %v", second.Cached)
	}
	if second.Stats.LayerCount != 0 {
		t.Error("a full cache hit should not load the figure")
	}

	// Changing the data invalidates the entries.
	csv := filepath.Join(filepath.Dir(path), "lc.csv")
	if err := os.WriteFile(csv, []byte(lightCurve+"2018-06-01T15:00:00,4.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(third.Cached) != 0 {
		t.Errorf("stale cache hit: %v", third.Cached)
	}

	opts.Refresh = true
	fourth, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(fourth.Cached) != 0 {
		t.Errorf("refresh served from cache: %v", fourth.Cached)
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil)
	_, err := runner.Execute(context.Background(), Options{Config: filepath.Join(t.TempDir(), "none.toml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, layers int, _ time.Duration, err error) {
	h.events = append(h.events, "load")
}

func (h *recordingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.events = append(h.events, "render:"+strings.Join(formats, ","))
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	h.events = append(h.events, "done")
}

func TestPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	_, err := NewRunner(nil, nil).Execute(context.Background(), Options{
		Config:  setup(t),
		OutDir:  t.TempDir(),
		Formats: []string{FormatBundle},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"load", "render:zip", "done"}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestSummarize(t *testing.T) {
	fig, err := Load(context.Background(), setup(t))
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(fig)
	if s.Title != "Light curve" || s.YUnit != "mJy" {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Layers) != 2 || s.Layers[0].Kind != "markers" || s.Layers[0].Data != "lc" {
		t.Errorf("layers = %+v", s.Layers)
	}
	if len(s.Views) != 1 || len(s.Views[0].Layers) != 1 {
		t.Errorf("views = %+v", s.Views)
	}
}
