// Package pkg provides the libraries behind aas-timeseries.
//
// # Overview
//
// aas-timeseries builds interactive figures of astronomical time series. A
// figure holds layers (markers, lines, ranges, reference lines and bands,
// text) drawn from tables of timestamped values, plus any number of views:
// alternative snapshots of the same figure with their own layers and axis
// limits. Figures are written as Vega JSON documents with their data in CSV
// form, so they can be displayed by any Vega-capable page.
//
// # Architecture
//
// The typical data flow:
//
//	CSV files + figure description
//	         ↓
//	    [timeseries] / [config]  (read tables, decode TOML or YAML)
//	         ↓
//	    [figure]                 (layers, views, axis settings)
//	         ↓
//	    [export]                 (unit reconciliation, colors, Vega + CSV)
//	         ↓
//	    figure.json + data_*.csv, a zip bundle, or an SVG via [static]
//
// # Quick Start
//
// Build a figure in code and save it:
//
//	f, _ := os.Open("lc.csv")
//	ts, _ := timeseries.ReadCSV(f, timeseries.CSVOptions{ID: "lc"})
//
//	fig := figure.New(figure.WithTitle("Light curve"))
//	markers, _ := fig.AddMarkers(ts, "flux", layer.Attrs{"error": "flux_err"})
//	fig.AddHorizontalLine("2 mJy", layer.Attrs{"label": "Threshold"})
//
//	zoom, _ := fig.AddView("Zoom", figure.Include(markers))
//	zoom.SetXLim("2018-06-01T12:00:00", "2018-06-01T18:00:00")
//
//	_ = export.Save(ctx, fig, "out/figure.json")
//
// # Main Packages
//
// ## Data
//
// [units] - Unit expressions, quantities and conversions.
//
// [timeseries] - Tables with a time column and typed value columns, read
// from CSV with units given in headers or options.
//
// [data] - Data sources as seen by layers, registered per figure.
//
// ## Figures
//
// [attr] - Validated layer attributes (colors, opacities, columns, times,
// quantities).
//
// [layer] - The eight layer kinds and their Vega marks.
//
// [colors] - Automatic color assignment for layers without one.
//
// [figure] - Figures, views and axis settings.
//
// [vega] - The subset of the Vega document model that figures use.
//
// ## Output
//
// [export] - Vega JSON with CSV side files or embedded data, and zip
// bundles with a viewer page.
//
// [static] - Static SVG rendering.
//
// ## Orchestration
//
// [config] - TOML and YAML figure descriptions.
//
// [pipeline] - The load → export pipeline used by the command line.
//
// [cache] - Rendered artifact cache keyed by content hashes.
//
// [observability] - Hooks for logging and metrics.
//
// [errors] - Structured errors with machine-readable codes.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/export/...    # Specific package
package pkg
