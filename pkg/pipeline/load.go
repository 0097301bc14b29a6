package pipeline

import (
	"context"
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/config"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/observability"
)

// Load reads the description at path and builds its figure.
func Load(ctx context.Context, path string) (fig *figure.Figure, err error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	defer func() {
		n := 0
		if fig != nil {
			n = len(fig.Population())
		}
		hooks.OnLoadComplete(ctx, path, n, time.Since(start), err)
	}()

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Figure()
}
