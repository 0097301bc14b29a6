// Package config reads figure descriptions from TOML or YAML files.
//
// A description names the CSV files holding the data, the figure options,
// the layers drawn from that data and any views:
//
//	title = "Light curve"
//	y_unit = "mJy"
//
//	[[data]]
//	id = "lc"
//	path = "lc.csv"
//	units = { flux = "mJy" }
//
//	[[layers]]
//	type = "markers"
//	data = "lc"
//	column = "flux"
//	label = "Flux"
//
//	[[views]]
//	title = "Zoom"
//	include = ["Flux"]
//	xlim = [2018-06-01T00:00:00Z, 2018-06-02T00:00:00Z]
//
// Paths in a description are relative to the file itself.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
)

// Supported description formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Config is a parsed figure description.
type Config struct {
	Title   string `toml:"title" yaml:"title"`
	Width   int    `toml:"width" yaml:"width"`
	Height  int    `toml:"height" yaml:"height"`
	Padding *int   `toml:"padding" yaml:"padding"`
	Resize  *bool  `toml:"resize" yaml:"resize"`
	YUnit   string `toml:"y_unit" yaml:"y_unit"`

	Axes `yaml:",inline"`

	Data   []Source `toml:"data" yaml:"data"`
	Layers []Layer  `toml:"layers" yaml:"layers"`
	Views  []View   `toml:"views" yaml:"views"`

	// dir resolves relative source paths.
	dir string
}

// Axes holds the axis settings shared by the figure and its views.
type Axes struct {
	XLabel     string `toml:"xlabel" yaml:"xlabel"`
	YLabel     string `toml:"ylabel" yaml:"ylabel"`
	YLog       bool   `toml:"ylog" yaml:"ylog"`
	TimeMode   string `toml:"time_mode" yaml:"time_mode"`
	TimeFormat string `toml:"time_format" yaml:"time_format"`
	XLim       []any  `toml:"xlim" yaml:"xlim"`
	YLim       []any  `toml:"ylim" yaml:"ylim"`
}

// Source is a CSV file read into a time series.
type Source struct {
	ID         string            `toml:"id" yaml:"id"`
	Path       string            `toml:"path" yaml:"path"`
	TimeColumn string            `toml:"time_column" yaml:"time_column"`
	Units      map[string]string `toml:"units" yaml:"units"`
	Types      map[string]string `toml:"types" yaml:"types"`
}

// Layer describes one layer. Which fields apply depends on Type:
// data layers read Data and Column (or ColumnLower and ColumnUpper),
// literal layers read Time, Value and their bounds.
type Layer struct {
	Type        string         `toml:"type" yaml:"type"`
	Label       string         `toml:"label" yaml:"label"`
	Data        string         `toml:"data" yaml:"data"`
	Column      string         `toml:"column" yaml:"column"`
	ColumnLower string         `toml:"column_lower" yaml:"column_lower"`
	ColumnUpper string         `toml:"column_upper" yaml:"column_upper"`
	Time        any            `toml:"time" yaml:"time"`
	TimeLower   any            `toml:"time_lower" yaml:"time_lower"`
	TimeUpper   any            `toml:"time_upper" yaml:"time_upper"`
	Value       any            `toml:"value" yaml:"value"`
	ValueLower  any            `toml:"value_lower" yaml:"value_lower"`
	ValueUpper  any            `toml:"value_upper" yaml:"value_upper"`
	Text        string         `toml:"text" yaml:"text"`
	Hidden      bool           `toml:"hidden" yaml:"hidden"`
	Attributes  map[string]any `toml:"attributes" yaml:"attributes"`
}

// View describes a view. Include and Exclude name figure layers by label.
type View struct {
	Title       string   `toml:"title" yaml:"title"`
	Description string   `toml:"description" yaml:"description"`
	Include     []string `toml:"include" yaml:"include"`
	Exclude     []string `toml:"exclude" yaml:"exclude"`
	Empty       bool     `toml:"empty" yaml:"empty"`
	Hide        []string `toml:"hide" yaml:"hide"`

	Axes `yaml:",inline"`

	Layers []Layer `toml:"layers" yaml:"layers"`
}

// Load reads a description, choosing the format from the file extension.
func Load(path string) (*Config, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes a description. Relative source paths resolve against the
// working directory.
func Parse(data []byte, format string) (*Config, error) {
	if err := errors.ValidateFormat(format, FormatTOML, FormatYAML); err != nil {
		return nil, err
	}
	var cfg Config
	var err error
	if format == FormatTOML {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", format)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDir sets the directory relative source paths resolve against.
func (c *Config) SetDir(dir string) { c.dir = dir }

func formatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unsupported config extension %q (must be .toml, .yaml or .yml)", ext)
	}
}

func (c *Config) validate() error {
	ids := make(map[string]bool)
	for i, s := range c.Data {
		if s.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "data[%d]: path is required", i)
		}
		id := s.id()
		if err := errors.ValidateIdentifier(id); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "data[%d]", i)
		}
		if ids[id] {
			return errors.New(errors.ErrCodeInvalidConfig, "data[%d]: duplicate id '%s'", i, id)
		}
		ids[id] = true
	}
	labels := make(map[string]bool)
	for i, l := range c.Layers {
		if err := l.validate(ids); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layers[%d]", i)
		}
		if l.Label != "" {
			if labels[l.Label] {
				return errors.New(errors.ErrCodeInvalidConfig, "layers[%d]: duplicate label '%s'", i, l.Label)
			}
			labels[l.Label] = true
		}
	}
	for i, v := range c.Views {
		for _, name := range append(append(append([]string{}, v.Include...), v.Exclude...), v.Hide...) {
			if !labels[name] {
				return errors.New(errors.ErrCodeInvalidConfig, "views[%d]: no layer labelled '%s'", i, name)
			}
		}
		for j, l := range v.Layers {
			if err := l.validate(ids); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "views[%d].layers[%d]", i, j)
			}
		}
	}
	return nil
}

// id defaults to the file name without its extension.
func (s Source) id() string {
	if s.ID != "" {
		return s.ID
	}
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
