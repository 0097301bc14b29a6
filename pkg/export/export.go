package export

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/colors"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
	"github.com/aperiosoftware/aas-timeseries/pkg/observability"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
	"github.com/aperiosoftware/aas-timeseries/pkg/vega"
)

// Default axis titles per time mode.
var xTitles = map[figure.TimeMode]string{
	figure.Absolute: "Time",
	figure.Relative: "Relative Time (s)",
	figure.Phase:    "Phase",
}

// Document is a figure serialized to Vega, with the tables it reads.
type Document struct {
	Spec   *vega.Spec
	Tables []*Table
	YUnit  units.Unit

	embedded bool
}

// Build serializes fig. It fails, before anything is written, if a layer
// or an explicit limit cannot be expressed in the resolved y unit.
func Build(fig *figure.Figure, opts ...Option) (*Document, error) {
	s := newSettings(opts)
	logger := s.logger

	yunit := ResolveYUnit(fig)
	logger.Debug("resolved y unit", "unit", unitName(yunit))

	population := fig.Population()
	if err := checkUnits(population, yunit); err != nil {
		return nil, err
	}
	palette := colors.Assign(population, s.override)

	doc := &Document{YUnit: yunit, embedded: s.embed}
	width, height := fig.Size()
	spec := &vega.Spec{
		Schema:   vega.SchemaURL,
		Width:    width,
		Height:   height,
		Padding:  fig.Padding(),
		Autosize: &vega.Autosize{Type: "fit", Resize: fig.Resize()},
		Data:     []vega.Data{},
		Marks:    []vega.Mark{},
	}
	if title := fig.Title(); title != "" {
		spec.Title = &vega.Title{Text: title}
	}
	doc.Spec = spec

	for _, req := range requirements(population) {
		t, err := buildTable(req, yunit, s.minimize)
		if err != nil {
			return nil, err
		}
		entry := vega.Data{Name: t.Name, Format: &vega.Format{Type: "csv", Parse: t.Types}}
		if s.embed {
			if entry.Values, err = t.CSV(); err != nil {
				return nil, err
			}
		} else {
			entry.URL = t.FileName()
		}
		logger.Debug("exported data", "id", t.Name, "rows", len(t.Rows), "columns", len(t.Columns))
		doc.Tables = append(doc.Tables, t)
		spec.Data = append(spec.Data, entry)
	}

	var err error
	if spec.Scales, spec.Axes, err = scales(fig, fig.Layers(), yunit); err != nil {
		return nil, err
	}

	emitted := make(map[*layer.Layer]bool)
	for _, e := range fig.Entries() {
		marks, err := render(e.Layer, fig, yunit, palette)
		if err != nil {
			return nil, err
		}
		// Hidden layers stay available to views but are not drawn.
		if e.Visible {
			spec.Marks = append(spec.Marks, marks...)
		} else {
			spec.ExtraMarks = append(spec.ExtraMarks, marks...)
		}
		emitted[e.Layer] = true
	}

	for _, v := range fig.Views() {
		view := vega.View{Title: v.Title(), Description: v.Description(), Markers: []vega.ViewMark{}}
		if view.Scales, view.Axes, err = scales(v, v.Layers(), yunit); err != nil {
			return nil, err
		}
		for _, e := range v.Entries() {
			if !emitted[e.Layer] {
				marks, err := render(e.Layer, v, yunit, palette)
				if err != nil {
					return nil, err
				}
				spec.ExtraMarks = append(spec.ExtraMarks, marks...)
				emitted[e.Layer] = true
			}
			for _, name := range e.Layer.IDs() {
				view.Markers = append(view.Markers, vega.ViewMark{Name: name, Visible: e.Visible})
			}
		}
		spec.Views = append(spec.Views, view)
	}

	return doc, nil
}

func render(l *layer.Layer, axes axisState, yunit units.Unit, palette map[*layer.Layer]string) ([]vega.Mark, error) {
	return l.VisualSpec(layer.RenderContext{
		YUnit:        yunit,
		Color:        palette[l],
		AbsoluteTime: axes.TimeMode() == figure.Absolute,
		TimeFormat:   axes.TimeFormat(),
	})
}

func scales(axes axisState, layers []*layer.Layer, yunit units.Unit) ([]vega.Scale, []vega.Axis, error) {
	x, err := xScale(axes, layers)
	if err != nil {
		return nil, nil, err
	}
	y, err := yScale(axes, layers, yunit)
	if err != nil {
		return nil, nil, err
	}

	xAxis := vega.Axis{Orient: "bottom", Scale: vega.XScale, Title: axes.XLabel()}
	if xAxis.Title == "" {
		xAxis.Title = xTitles[axes.TimeMode()]
	}
	if axes.TimeMode() == figure.Absolute {
		xAxis.Format = axes.TimeFormat()
	}
	yAxis := vega.Axis{Orient: "left", Scale: vega.YScale, Title: axes.YLabel()}
	if yAxis.Title == "" {
		yAxis.Title = yunit.String()
	}
	return []vega.Scale{x, y}, []vega.Axis{xAxis, yAxis}, nil
}

func unitName(u units.Unit) string {
	if u.String() == "" {
		return "dimensionless"
	}
	return u.String()
}

// Embedded reports whether the tables are inline in the document.
func (d *Document) Embedded() bool { return d.embedded }

// WriteJSON writes the Vega document to w, indented.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Spec); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}

// Save writes the document to path and, unless the data is embedded, one
// CSV side file per table in the same directory.
func (d *Document) Save(ctx context.Context, path string) error {
	hooks := observability.Export()
	dir := filepath.Dir(path)
	for _, t := range d.Tables {
		hooks.OnDataExported(ctx, t.Name, len(t.Rows), len(t.Columns), d.embedded)
		if d.embedded {
			continue
		}
		if err := writeFile(ctx, filepath.Join(dir, t.FileName()), t.WriteCSV); err != nil {
			return err
		}
	}
	return writeFile(ctx, path, d.WriteJSON)
}

// Save serializes fig and writes it to path, see [Document.Save].
func Save(ctx context.Context, fig *figure.Figure, path string, opts ...Option) (err error) {
	start := time.Now()
	hooks := observability.Export()
	hooks.OnExportStart(ctx, len(fig.Population()), len(fig.Views()))
	defer func() { hooks.OnExportComplete(ctx, time.Since(start), err) }()

	doc, err := Build(fig, opts...)
	if err != nil {
		return err
	}
	return doc.Save(ctx, path)
}

func writeFile(ctx context.Context, path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	cw := &countingWriter{w: f}
	if err := write(cw); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", path)
	}
	observability.Export().OnFileWritten(ctx, path, cw.n)
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
