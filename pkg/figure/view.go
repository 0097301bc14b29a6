package figure

import (
	"github.com/aperiosoftware/aas-timeseries/pkg/data"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
)

// BaseView holds the state shared by figures and views: an ordered set of
// layers and the axis settings.
type BaseView struct {
	registry *data.Registry
	scope    string
	local    layerList

	xlim       *XLim
	ylim       *YLim
	ylog       bool
	xlabel     string
	ylabel     string
	timeMode   TimeMode
	timeFormat string
}

func newBaseView(registry *data.Registry, scope string) BaseView {
	return BaseView{registry: registry, scope: scope, timeMode: Absolute}
}

func (v *BaseView) push(l *layer.Layer, err error) (*layer.Layer, error) {
	if err != nil {
		return nil, err
	}
	v.local = append(v.local, Entry{Layer: l, Visible: true})
	return l, nil
}

// AddMarkers adds markers for column of ts, optionally with error bars
// set through the "error" attribute.
func (v *BaseView) AddMarkers(ts *timeseries.TimeSeries, column string, attrs layer.Attrs) (*layer.Layer, error) {
	d, err := v.registry.Register(ts)
	if err != nil {
		return nil, err
	}
	return v.push(layer.NewMarkers(d, column, attrs))
}

// AddLine adds a line through column of ts.
func (v *BaseView) AddLine(ts *timeseries.TimeSeries, column string, attrs layer.Attrs) (*layer.Layer, error) {
	d, err := v.registry.Register(ts)
	if err != nil {
		return nil, err
	}
	return v.push(layer.NewLine(d, column, attrs))
}

// AddRange adds a band between the lower and upper columns of ts.
func (v *BaseView) AddRange(ts *timeseries.TimeSeries, lower, upper string, attrs layer.Attrs) (*layer.Layer, error) {
	d, err := v.registry.Register(ts)
	if err != nil {
		return nil, err
	}
	return v.push(layer.NewRange(d, lower, upper, attrs))
}

// AddVerticalLine adds a vertical rule at time t.
func (v *BaseView) AddVerticalLine(t any, attrs layer.Attrs) (*layer.Layer, error) {
	return v.push(layer.NewVerticalLine(t, attrs))
}

// AddVerticalRange adds a shaded interval between two times.
func (v *BaseView) AddVerticalRange(lower, upper any, attrs layer.Attrs) (*layer.Layer, error) {
	return v.push(layer.NewVerticalRange(lower, upper, attrs))
}

// AddHorizontalLine adds a horizontal rule at value.
func (v *BaseView) AddHorizontalLine(value any, attrs layer.Attrs) (*layer.Layer, error) {
	return v.push(layer.NewHorizontalLine(value, attrs))
}

// AddHorizontalRange adds a shaded band between two y values.
func (v *BaseView) AddHorizontalRange(lower, upper any, attrs layer.Attrs) (*layer.Layer, error) {
	return v.push(layer.NewHorizontalRange(lower, upper, attrs))
}

// AddText adds a text label at (t, value).
func (v *BaseView) AddText(t, value any, text string, attrs layer.Attrs) (*layer.Layer, error) {
	return v.push(layer.NewText(t, value, text, attrs))
}

// SetXLim sets the x limits: two instants (time.Time or ISO-8601 strings)
// for absolute axes, or two numbers for relative and phase axes.
func (v *BaseView) SetXLim(lim ...any) error {
	x, err := parseXLim(lim)
	if err != nil {
		return err
	}
	v.xlim = x
	return nil
}

// SetYLim sets the y limits: two plain numbers in the figure's y unit, or
// two units.Quantity values with compatible units.
func (v *BaseView) SetYLim(lim ...any) error {
	y, err := parseYLim(lim)
	if err != nil {
		return err
	}
	v.ylim = y
	return nil
}

// ClearLimits removes explicit axis limits.
func (v *BaseView) ClearLimits() {
	v.xlim, v.ylim = nil, nil
}

// XLim returns the explicit x limits, or nil.
func (v *BaseView) XLim() *XLim { return v.xlim }

// YLim returns the explicit y limits, or nil.
func (v *BaseView) YLim() *YLim { return v.ylim }

// SetYLog switches the y axis between linear and logarithmic.
func (v *BaseView) SetYLog(log bool) { v.ylog = log }

// YLog reports whether the y axis is logarithmic.
func (v *BaseView) YLog() bool { return v.ylog }

// SetXLabel sets the x axis title.
func (v *BaseView) SetXLabel(label string) { v.xlabel = label }

// XLabel returns the x axis title.
func (v *BaseView) XLabel() string { return v.xlabel }

// SetYLabel sets the y axis title.
func (v *BaseView) SetYLabel(label string) { v.ylabel = label }

// YLabel returns the y axis title.
func (v *BaseView) YLabel() string { return v.ylabel }

// SetTimeMode selects absolute, relative or phase x values.
func (v *BaseView) SetTimeMode(mode TimeMode) error {
	switch mode {
	case Absolute, Relative, Phase:
		v.timeMode = mode
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput,
		"time mode should be one of 'absolute', 'relative', 'phase'")
}

// TimeMode returns the x axis mode.
func (v *BaseView) TimeMode() TimeMode { return v.timeMode }

// SetTimeFormat sets the d3 time format of absolute x axis labels.
func (v *BaseView) SetTimeFormat(format string) { v.timeFormat = format }

// TimeFormat returns the x axis label format, or "" for the renderer
// default.
func (v *BaseView) TimeFormat() string { return v.timeFormat }

// LocalLayers returns the layers added to this container, in order.
func (v *BaseView) LocalLayers() []*layer.Layer {
	return v.local.layers()
}

func (v *BaseView) notFound(l *layer.Layer) error {
	return errors.New(errors.ErrCodeLayerNotFound, "Layer '%s' is not in %s", name(l), v.scope)
}

// View is a derived presentation of a Figure: a snapshot of some of the
// figure's layers followed by its own layers, with independent axis
// settings.
type View struct {
	BaseView
	title       string
	description string
	inherited   layerList
}

// Title returns the view title.
func (v *View) Title() string { return v.title }

// Description returns the view description.
func (v *View) Description() string { return v.description }

// Layers returns the inherited layers followed by the view's own layers.
func (v *View) Layers() []*layer.Layer {
	return append(v.inherited.layers(), v.local.layers()...)
}

// Entries returns Layers with their visibility in this view.
func (v *View) Entries() []Entry {
	out := make([]Entry, 0, len(v.inherited)+len(v.local))
	out = append(out, v.inherited...)
	return append(out, v.local...)
}

// Inherited reports whether l is part of the view's snapshot of the
// figure.
func (v *View) Inherited(l *layer.Layer) bool {
	return v.inherited.contains(l)
}

// Remove detaches l from the view only.
func (v *View) Remove(l *layer.Layer) error {
	if v.local.remove(l) || v.inherited.remove(l) {
		return nil
	}
	return v.notFound(l)
}

// Show makes layers visible in the view.
func (v *View) Show(layers ...*layer.Layer) error { return v.setVisible(layers, true) }

// Hide makes layers invisible in the view.
func (v *View) Hide(layers ...*layer.Layer) error { return v.setVisible(layers, false) }

func (v *View) setVisible(layers []*layer.Layer, visible bool) error {
	for _, l := range layers {
		if !v.local.contains(l) && !v.inherited.contains(l) {
			return v.notFound(l)
		}
	}
	for _, l := range layers {
		if !v.local.setVisible(l, visible) {
			v.inherited.setVisible(l, visible)
		}
	}
	return nil
}
