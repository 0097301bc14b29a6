package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aperiosoftware/aas-timeseries/pkg/cache"
	"github.com/aperiosoftware/aas-timeseries/pkg/config"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/export"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/observability"
)

// Runner executes the pipeline with artifact caching.
//
// The Runner holds no per-run state. Multiple goroutines can use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute loads the description and writes every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	result := &Result{Outputs: make(map[string]string)}
	result.Stats.ViewCount = len(cfg.Views)

	artifacts := make(map[string][]byte)
	keys := make(map[string]string)
	if _, null := r.Cache.(*cache.NullCache); !null {
		inputs, err := readInputs(opts.Config, cfg.SourcePaths())
		if err != nil {
			return nil, err
		}
		for _, format := range opts.Formats {
			if !opts.Cacheable(format) {
				continue
			}
			keys[format] = cache.ArtifactKey(inputs, opts.ArtifactKeyOpts(format))
			if opts.Refresh {
				continue
			}
			if data, hit, err := r.Cache.Get(ctx, keys[format]); err == nil && hit {
				artifacts[format] = data
				result.Cached = append(result.Cached, format)
			}
		}
	}

	var fig *figure.Figure
	if len(artifacts) < len(opts.Formats) {
		loadStart := time.Now()
		if fig, err = Load(ctx, opts.Config); err != nil {
			return nil, err
		}
		result.Stats.LoadTime = time.Since(loadStart)
		result.Stats.LayerCount = len(fig.Population())
		r.Logger.Info("loaded figure",
			"layers", result.Stats.LayerCount,
			"views", len(fig.Views()),
			"duration", result.Stats.LoadTime)
	}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.OutDir)
	}

	renderStart := time.Now()
	if err := r.render(ctx, fig, opts, artifacts, keys, result); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)
	r.Logger.Info("wrote outputs",
		"formats", opts.Formats,
		"cached", len(result.Cached),
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) render(ctx context.Context, fig *figure.Figure, opts Options, artifacts map[string][]byte, keys map[string]string, result *Result) (err error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	for _, format := range opts.Formats {
		path := opts.OutputPath(format)
		if !opts.Cacheable(format) {
			if err := export.Save(ctx, fig, path, opts.ExportOptions()...); err != nil {
				return err
			}
			result.Outputs[format] = path
			continue
		}

		data, ok := artifacts[format]
		if !ok {
			if data, err = Render(ctx, fig, format, opts); err != nil {
				return err
			}
			if key, ok := keys[format]; ok {
				if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
					r.Logger.Warn("cache write failed", "format", format, "error", err)
				}
			}
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		observability.Export().OnFileWritten(ctx, path, int64(len(data)))
		result.Outputs[format] = path
		r.Logger.Debug("wrote artifact", "format", format, "path", path, "bytes", len(data))
	}
	return nil
}

// readInputs returns the bytes of the description followed by its data
// files.
func readInputs(configPath string, sources []string) ([][]byte, error) {
	paths := append([]string{configPath}, sources...)
	out := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", p)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", p)
		}
		out[i] = data
	}
	return out, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
