package figure

import (
	"slices"

	"github.com/aperiosoftware/aas-timeseries/pkg/data"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// Default rendering hints.
const (
	DefaultWidth  = 800
	DefaultHeight = 450
)

// AutoUnit asks the exporter to infer the y unit from the layers.
const AutoUnit = "auto"

// Figure is the top-level container. It owns the data registry and the
// list of views.
type Figure struct {
	BaseView
	views []*View

	title   string
	width   int
	height  int
	padding int
	resize  bool
	yunit   *units.Unit
}

// Option configures a Figure.
type Option func(*Figure)

// WithTitle sets the chart title.
func WithTitle(title string) Option { return func(f *Figure) { f.title = title } }

// WithSize sets the chart size in pixels.
func WithSize(width, height int) Option {
	return func(f *Figure) { f.width, f.height = width, height }
}

// WithPadding sets the chart padding in pixels.
func WithPadding(padding int) Option { return func(f *Figure) { f.padding = padding } }

// WithResize sets whether the chart resizes with its container.
func WithResize(resize bool) Option { return func(f *Figure) { f.resize = resize } }

// New creates an empty figure.
func New(opts ...Option) *Figure {
	f := &Figure{
		BaseView: newBaseView(data.NewRegistry(), "figure"),
		width:    DefaultWidth,
		height:   DefaultHeight,
		resize:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Title returns the chart title.
func (f *Figure) Title() string { return f.title }

// SetTitle sets the chart title.
func (f *Figure) SetTitle(title string) { f.title = title }

// Size returns the chart width and height in pixels.
func (f *Figure) Size() (int, int) { return f.width, f.height }

// Padding returns the chart padding in pixels.
func (f *Figure) Padding() int { return f.padding }

// Resize reports whether the chart resizes with its container.
func (f *Figure) Resize() bool { return f.resize }

// SetYUnit sets the y unit from an expression, or AutoUnit to infer it
// from the layers when the figure is exported.
func (f *Figure) SetYUnit(expr string) error {
	if expr == AutoUnit {
		f.yunit = nil
		return nil
	}
	u, err := units.Parse(expr)
	if err != nil {
		return err
	}
	f.yunit = &u
	return nil
}

// YUnit returns the explicit y unit. ok is false when the unit is inferred.
func (f *Figure) YUnit() (u units.Unit, ok bool) {
	if f.yunit == nil {
		return units.Dimensionless, false
	}
	return *f.yunit, true
}

// Data returns the figure's data registry.
func (f *Figure) Data() *data.Registry { return f.registry }

// Layers returns the figure's layers in insertion order.
func (f *Figure) Layers() []*layer.Layer { return f.local.layers() }

// Entries returns Layers with their visibility.
func (f *Figure) Entries() []Entry { return slices.Clone(f.local) }

// Views returns the views in creation order.
func (f *Figure) Views() []*View { return f.views }

// Population returns every distinct layer of the figure and its views:
// the figure's layers followed by each view's own layers, in order.
func (f *Figure) Population() []*layer.Layer {
	out := f.local.layers()
	for _, v := range f.views {
		out = append(out, v.local.layers()...)
	}
	return out
}

// Remove removes l from the figure and from every view holding it.
func (f *Figure) Remove(l *layer.Layer) error {
	if !f.local.remove(l) {
		return f.notFound(l)
	}
	for _, v := range f.views {
		v.local.remove(l)
		v.inherited.remove(l)
	}
	return nil
}

// Show makes layers visible in the figure.
func (f *Figure) Show(layers ...*layer.Layer) error { return f.setVisible(layers, true) }

// Hide makes layers invisible in the figure.
func (f *Figure) Hide(layers ...*layer.Layer) error { return f.setVisible(layers, false) }

func (f *Figure) setVisible(layers []*layer.Layer, visible bool) error {
	for _, l := range layers {
		if !f.local.contains(l) {
			return f.notFound(l)
		}
	}
	for _, l := range layers {
		f.local.setVisible(l, visible)
	}
	return nil
}

// ViewOption configures AddView.
type ViewOption func(*viewConfig)

type viewConfig struct {
	description string
	include     []*layer.Layer
	including   bool
	exclude     []*layer.Layer
	empty       bool
	selections  int
}

// Description sets the view description.
func Description(text string) ViewOption {
	return func(c *viewConfig) { c.description = text }
}

// Include starts the view with only the given figure layers, in the given
// order.
func Include(layers ...*layer.Layer) ViewOption {
	return func(c *viewConfig) { c.include = layers; c.including = true; c.selections++ }
}

// Exclude starts the view with all figure layers except the given ones.
func Exclude(layers ...*layer.Layer) ViewOption {
	return func(c *viewConfig) { c.exclude = layers; c.selections++ }
}

// Empty starts the view with no figure layers.
func Empty() ViewOption {
	return func(c *viewConfig) { c.empty = true; c.selections++ }
}

// AddView creates a view holding a snapshot of the figure's current
// layers, or the subset selected by Include, Exclude or Empty. At most one
// of those may be given. The view starts with the figure's axis labels,
// scale and time settings but no limits.
func (f *Figure) AddView(title string, opts ...ViewOption) (*View, error) {
	var cfg viewConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.selections > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"only one of include, exclude or empty can be set")
	}

	for _, l := range append(slices.Clone(cfg.include), cfg.exclude...) {
		if !f.local.contains(l) {
			return nil, errors.New(errors.ErrCodeLayerNotFound,
				"Layer '%s' does not exist in base figure", name(l))
		}
	}

	var inherited layerList
	switch {
	case cfg.empty:
	case cfg.including:
		for _, l := range cfg.include {
			if !inherited.contains(l) {
				inherited = append(inherited, f.local[f.local.index(l)])
			}
		}
	default:
		for _, e := range f.local {
			if !slices.Contains(cfg.exclude, e.Layer) {
				inherited = append(inherited, e)
			}
		}
	}

	v := &View{
		BaseView:    newBaseView(f.registry, "view"),
		title:       title,
		description: cfg.description,
		inherited:   inherited,
	}
	v.xlabel, v.ylabel, v.ylog = f.xlabel, f.ylabel, f.ylog
	v.timeMode, v.timeFormat = f.timeMode, f.timeFormat
	f.views = append(f.views, v)
	return v, nil
}
