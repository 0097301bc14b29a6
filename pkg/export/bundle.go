package export

import (
	"context"
	_ "embed"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/observability"
)

// Bundle member names.
const (
	BundleJSON  = "figure.json"
	BundleIndex = "index.html"
)

// indexHTML loads figure.json with vega-embed and offers a view selector.
//
//go:embed static/index.html
var indexHTML []byte

// IndexHTML returns the page shipped in bundles.
func IndexHTML() []byte { return indexHTML }

// WriteBundle writes a zip archive holding the JSON document, the CSV side
// files unless the data is embedded, and an index.html page.
func (d *Document) WriteBundle(ctx context.Context, w io.Writer) error {
	zw := zip.NewWriter(w)
	add := func(name string, write func(io.Writer) error) error {
		if err := errors.ValidatePath(name); err != nil {
			return err
		}
		f, err := zw.Create(name)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "add %s", name)
		}
		return write(f)
	}

	hooks := observability.Export()
	for _, t := range d.Tables {
		hooks.OnDataExported(ctx, t.Name, len(t.Rows), len(t.Columns), d.embedded)
		if d.embedded {
			continue
		}
		if err := add(t.FileName(), t.WriteCSV); err != nil {
			return err
		}
	}
	if err := add(BundleJSON, d.WriteJSON); err != nil {
		return err
	}
	if err := add(BundleIndex, func(w io.Writer) error {
		_, err := w.Write(indexHTML)
		return err
	}); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close bundle")
	}
	return nil
}

// SaveBundle serializes fig to a zip archive at path, see
// [Document.WriteBundle].
func SaveBundle(ctx context.Context, fig *figure.Figure, path string, opts ...Option) (err error) {
	start := time.Now()
	hooks := observability.Export()
	hooks.OnExportStart(ctx, len(fig.Population()), len(fig.Views()))
	defer func() { hooks.OnExportComplete(ctx, time.Since(start), err) }()

	doc, err := Build(fig, opts...)
	if err != nil {
		return err
	}
	return writeFile(ctx, path, func(w io.Writer) error {
		return doc.WriteBundle(ctx, w)
	})
}

// OpenBundle opens a bundle written by SaveBundle for reading.
func OpenBundle(path string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open %s", path)
	}
	return r, nil
}
