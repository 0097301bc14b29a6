// Package pipeline runs the load → export pipeline behind the command line.
//
// A run reads a figure description (see package config), builds the
// figure and writes it in one or more formats:
//
//   - json: the Vega document, with one CSV side file per data source
//     unless the data is embedded
//   - zip: a self-contained bundle with the document, its data and an
//     HTML page that displays it
//   - svg: a static rendering without interactivity
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config:  "figure.toml",
//	    OutDir:  "out",
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Outputs["json"])
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aperiosoftware/aas-timeseries/pkg/cache"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/export"
)

// Output formats.
const (
	FormatJSON   = "json"
	FormatBundle = "zip"
	FormatSVG    = "svg"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatBundle, FormatSVG}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats...)
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// Config is the path of the figure description.
	Config string
	// OutDir receives the outputs. Defaults to the description's directory.
	OutDir string
	// Name is the base name of the outputs. Defaults to the description's
	// file name without extension.
	Name string
	// Formats lists the outputs to write. Defaults to json.
	Formats []string

	// Embed writes the data inline in the Vega document.
	Embed bool
	// FullData exports every column, not only the ones layers read.
	FullData bool
	// OverrideStyle replaces explicit layer colors with automatic ones.
	OverrideStyle bool

	// Width and Height override the figure size for svg output.
	Width  int
	Height int

	// Refresh ignores cached artifacts.
	Refresh bool

	Logger *log.Logger

	validated bool
}

// Result describes a pipeline run.
type Result struct {
	// Outputs maps each format to the path written.
	Outputs map[string]string
	Stats   Stats
	// Cached lists the formats served from the cache.
	Cached []string
}

// Stats holds counts and timings of a run.
type Stats struct {
	LayerCount int
	ViewCount  int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults. It
// is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == "" {
		return errors.New(errors.ErrCodeInvalidInput, "config path is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height cannot be negative")
	}
	if o.OutDir == "" {
		o.OutDir = filepath.Dir(o.Config)
	}
	if o.Name == "" {
		base := filepath.Base(o.Config)
		o.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := errors.ValidateIdentifier(o.Name); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// OutputPath returns where format is written.
func (o *Options) OutputPath(format string) string {
	return filepath.Join(o.OutDir, o.Name+"."+format)
}

// ExportOptions translates the options for package export.
func (o *Options) ExportOptions() []export.Option {
	opts := []export.Option{export.WithLogger(o.Logger)}
	if o.Embed {
		opts = append(opts, export.WithEmbeddedData())
	}
	if o.FullData {
		opts = append(opts, export.WithFullData())
	}
	if o.OverrideStyle {
		opts = append(opts, export.WithOverrideStyle())
	}
	return opts
}

// Cacheable reports whether format produces a single file that can be
// stored in the cache. JSON with side files cannot.
func (o *Options) Cacheable(format string) bool {
	return format != FormatJSON || o.Embed
}

// ArtifactKeyOpts returns the cache key options for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Embed:    o.Embed,
		FullData: o.FullData,
		Override: o.OverrideStyle,
	}
	if format == FormatSVG {
		opts.Width, opts.Height = o.Width, o.Height
	}
	return opts
}
