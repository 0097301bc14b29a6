package figure

import "github.com/aperiosoftware/aas-timeseries/pkg/layer"

// Entry is a layer with its visibility in one container.
type Entry struct {
	Layer   *layer.Layer
	Visible bool
}

// layerList is an ordered layer set with per-layer visibility.
type layerList []Entry

func (ll layerList) index(l *layer.Layer) int {
	for i, e := range ll {
		if e.Layer == l {
			return i
		}
	}
	return -1
}

func (ll layerList) contains(l *layer.Layer) bool {
	return ll.index(l) >= 0
}

func (ll *layerList) remove(l *layer.Layer) bool {
	i := ll.index(l)
	if i < 0 {
		return false
	}
	*ll = append((*ll)[:i:i], (*ll)[i+1:]...)
	return true
}

func (ll layerList) setVisible(l *layer.Layer, visible bool) bool {
	i := ll.index(l)
	if i < 0 {
		return false
	}
	ll[i].Visible = visible
	return true
}

func (ll layerList) layers() []*layer.Layer {
	out := make([]*layer.Layer, len(ll))
	for i, e := range ll {
		out[i] = e.Layer
	}
	return out
}

// name identifies a layer in error messages: its label, or its id when
// it has none.
func name(l *layer.Layer) string {
	if label := l.Label(); label != "" {
		return label
	}
	return l.ID()
}
