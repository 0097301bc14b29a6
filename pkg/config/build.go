package config

import (
	"os"
	"path/filepath"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// adder is implemented by *figure.Figure and *figure.View.
type adder interface {
	AddMarkers(ts *timeseries.TimeSeries, column string, attrs layer.Attrs) (*layer.Layer, error)
	AddLine(ts *timeseries.TimeSeries, column string, attrs layer.Attrs) (*layer.Layer, error)
	AddRange(ts *timeseries.TimeSeries, lower, upper string, attrs layer.Attrs) (*layer.Layer, error)
	AddVerticalLine(t any, attrs layer.Attrs) (*layer.Layer, error)
	AddVerticalRange(lower, upper any, attrs layer.Attrs) (*layer.Layer, error)
	AddHorizontalLine(value any, attrs layer.Attrs) (*layer.Layer, error)
	AddHorizontalRange(lower, upper any, attrs layer.Attrs) (*layer.Layer, error)
	AddText(t, value any, text string, attrs layer.Attrs) (*layer.Layer, error)
	Hide(layers ...*layer.Layer) error

	SetXLabel(string)
	SetYLabel(string)
	SetYLog(bool)
	SetTimeMode(figure.TimeMode) error
	SetTimeFormat(string)
	SetXLim(lim ...any) error
	SetYLim(lim ...any) error
}

// ReadSources reads every data source, keyed by identifier.
func (c *Config) ReadSources() (map[string]*timeseries.TimeSeries, error) {
	out := make(map[string]*timeseries.TimeSeries, len(c.Data))
	for _, s := range c.Data {
		ts, err := c.readSource(s)
		if err != nil {
			return nil, err
		}
		out[s.id()] = ts
	}
	return out, nil
}

// SourcePaths returns the resolved path of every data file, in order.
func (c *Config) SourcePaths() []string {
	out := make([]string, len(c.Data))
	for i, s := range c.Data {
		out[i] = c.sourcePath(s)
	}
	return out
}

func (c *Config) sourcePath(s Source) string {
	if filepath.IsAbs(s.Path) || c.dir == "" {
		return s.Path
	}
	return filepath.Join(c.dir, s.Path)
}

func (c *Config) readSource(s Source) (*timeseries.TimeSeries, error) {
	f, err := os.Open(c.sourcePath(s))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "data '%s'", s.id())
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "data '%s'", s.id())
	}
	defer f.Close()

	ts, err := timeseries.ReadCSV(f, timeseries.CSVOptions{
		ID:         s.id(),
		TimeColumn: s.TimeColumn,
		Units:      s.Units,
		Types:      s.Types,
	})
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "data '%s'", s.id())
	}
	return ts, nil
}

// Figure reads the data sources and builds the described figure.
func (c *Config) Figure() (*figure.Figure, error) {
	sources, err := c.ReadSources()
	if err != nil {
		return nil, err
	}
	return c.Build(sources)
}

// Build builds the described figure from already loaded sources.
func (c *Config) Build(sources map[string]*timeseries.TimeSeries) (*figure.Figure, error) {
	opts := []figure.Option{figure.WithTitle(c.Title)}
	if c.Width > 0 || c.Height > 0 {
		w, h := c.Width, c.Height
		if w <= 0 || h <= 0 {
			dw, dh := figure.New().Size()
			if w <= 0 {
				w = dw
			}
			if h <= 0 {
				h = dh
			}
		}
		opts = append(opts, figure.WithSize(w, h))
	}
	if c.Padding != nil {
		opts = append(opts, figure.WithPadding(*c.Padding))
	}
	if c.Resize != nil {
		opts = append(opts, figure.WithResize(*c.Resize))
	}
	fig := figure.New(opts...)

	if c.YUnit != "" {
		if err := fig.SetYUnit(c.YUnit); err != nil {
			return nil, err
		}
	}
	if err := c.Axes.apply(fig); err != nil {
		return nil, err
	}

	byLabel := make(map[string]*layer.Layer)
	for i, spec := range c.Layers {
		l, err := spec.add(fig, sources)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "layers[%d]", i)
		}
		if spec.Label != "" {
			byLabel[spec.Label] = l
		}
	}

	for i, vc := range c.Views {
		if err := vc.add(fig, sources, byLabel); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "views[%d]", i)
		}
	}
	return fig, nil
}

func (v View) add(fig *figure.Figure, sources map[string]*timeseries.TimeSeries, byLabel map[string]*layer.Layer) error {
	var opts []figure.ViewOption
	if v.Description != "" {
		opts = append(opts, figure.Description(v.Description))
	}
	if v.Include != nil {
		opts = append(opts, figure.Include(lookup(byLabel, v.Include)...))
	}
	if v.Exclude != nil {
		opts = append(opts, figure.Exclude(lookup(byLabel, v.Exclude)...))
	}
	if v.Empty {
		opts = append(opts, figure.Empty())
	}
	view, err := fig.AddView(v.Title, opts...)
	if err != nil {
		return err
	}
	if err := v.Axes.apply(view); err != nil {
		return err
	}
	if err := view.Hide(lookup(byLabel, v.Hide)...); err != nil {
		return err
	}
	for j, spec := range v.Layers {
		if _, err := spec.add(view, sources); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "layers[%d]", j)
		}
	}
	return nil
}

func lookup(byLabel map[string]*layer.Layer, labels []string) []*layer.Layer {
	out := make([]*layer.Layer, 0, len(labels))
	for _, name := range labels {
		out = append(out, byLabel[name])
	}
	return out
}

func (a Axes) apply(target adder) error {
	if a.XLabel != "" {
		target.SetXLabel(a.XLabel)
	}
	if a.YLabel != "" {
		target.SetYLabel(a.YLabel)
	}
	if a.YLog {
		target.SetYLog(true)
	}
	if a.TimeMode != "" {
		if err := target.SetTimeMode(figure.TimeMode(a.TimeMode)); err != nil {
			return err
		}
	}
	if a.TimeFormat != "" {
		target.SetTimeFormat(a.TimeFormat)
	}
	if a.XLim != nil {
		if err := target.SetXLim(a.XLim...); err != nil {
			return err
		}
	}
	if a.YLim != nil {
		lim, err := quantities(a.YLim)
		if err != nil {
			return err
		}
		if err := target.SetYLim(lim...); err != nil {
			return err
		}
	}
	return nil
}

// quantities parses string limits such as "3 mJy". Numbers pass through.
func quantities(lim []any) ([]any, error) {
	out := make([]any, len(lim))
	for i, v := range lim {
		s, ok := v.(string)
		if !ok {
			out[i] = v
			continue
		}
		q, err := units.ParseQuantity(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLimits, err, "ylim")
		}
		out[i] = q
	}
	return out, nil
}

func (l Layer) validate(ids map[string]bool) error {
	kind, ok := layer.ParseKind(l.Type)
	if !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown layer type %q", l.Type)
	}
	if !kind.DataBound() {
		if l.Data != "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s layers do not read data", kind)
		}
		return nil
	}
	if l.Data == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "%s layers need a data source", kind)
	}
	if !ids[l.Data] {
		return errors.New(errors.ErrCodeInvalidConfig, "no data source with id '%s'", l.Data)
	}
	if kind == layer.Range {
		if l.ColumnLower == "" || l.ColumnUpper == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "range layers need column_lower and column_upper")
		}
	} else if l.Column == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "%s layers need a column", kind)
	}
	return nil
}

func (l Layer) attrs() layer.Attrs {
	attrs := make(layer.Attrs, len(l.Attributes)+1)
	for k, v := range l.Attributes {
		attrs[k] = v
	}
	if l.Label != "" {
		attrs["label"] = l.Label
	}
	return attrs
}

func (l Layer) add(target adder, sources map[string]*timeseries.TimeSeries) (*layer.Layer, error) {
	kind, _ := layer.ParseKind(l.Type)
	var ts *timeseries.TimeSeries
	if kind.DataBound() {
		var ok bool
		if ts, ok = sources[l.Data]; !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "no data source with id '%s'", l.Data)
		}
	}

	attrs := l.attrs()
	var (
		out *layer.Layer
		err error
	)
	switch kind {
	case layer.Markers:
		out, err = target.AddMarkers(ts, l.Column, attrs)
	case layer.Line:
		out, err = target.AddLine(ts, l.Column, attrs)
	case layer.Range:
		out, err = target.AddRange(ts, l.ColumnLower, l.ColumnUpper, attrs)
	case layer.VerticalLine:
		out, err = target.AddVerticalLine(l.Time, attrs)
	case layer.VerticalRange:
		out, err = target.AddVerticalRange(l.TimeLower, l.TimeUpper, attrs)
	case layer.HorizontalLine:
		out, err = target.AddHorizontalLine(l.Value, attrs)
	case layer.HorizontalRange:
		out, err = target.AddHorizontalRange(l.ValueLower, l.ValueUpper, attrs)
	case layer.Text:
		out, err = target.AddText(l.Time, l.Value, l.Text, attrs)
	}
	if err != nil {
		return nil, err
	}
	if l.Hidden {
		if err := target.Hide(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
