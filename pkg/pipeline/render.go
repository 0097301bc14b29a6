package pipeline

import (
	"bytes"
	"context"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/export"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/static"
)

// Render serializes fig in a single-file format: svg, zip, or json with
// embedded data.
func Render(ctx context.Context, fig *figure.Figure, format string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		if err := static.WriteSVG(fig, &buf, opts.Width, opts.Height); err != nil {
			return nil, err
		}
	case FormatBundle, FormatJSON:
		if format == FormatJSON && !opts.Embed {
			return nil, errors.New(errors.ErrCodeUnsupported, "json with side files cannot be rendered to a single artifact")
		}
		doc, err := export.Build(fig, opts.ExportOptions()...)
		if err != nil {
			return nil, err
		}
		if format == FormatJSON {
			err = doc.WriteJSON(&buf)
		} else {
			err = doc.WriteBundle(ctx, &buf)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, ValidateFormat(format)
	}
	return buf.Bytes(), nil
}
