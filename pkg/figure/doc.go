// Package figure holds the layer composition model: a Figure with an
// ordered set of layers and axis state, and any number of Views derived
// from it.
//
// # Layers
//
// The Add* methods build a layer, register its data source and append it
// with visibility on:
//
//	fig := figure.New(figure.WithTitle("Light curve"))
//	m, err := fig.AddMarkers(ts, "flux", layer.Attrs{"error": "flux_err"})
//	_, err = fig.AddHorizontalLine(units.Q(1, "mJy"), layer.Attrs{"label": "threshold"})
//
// Data sources are registered once per table identifier and shared by all
// layers that read the table.
//
// # Views
//
// A View starts with a snapshot of the figure's layers taken when it is
// created. Layers added to the figure afterwards do not appear in the view.
// Views can also carry their own layers and axis state:
//
//	zoom, err := fig.AddView("Flare", figure.Include(m))
//	zoom.SetXLim("2018-06-01T12:00:00", "2018-06-01T18:00:00")
//
// Removing a layer from the figure removes it from every view. Removing it
// from a view only affects that view.
package figure
