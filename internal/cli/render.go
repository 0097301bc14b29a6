package cli

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/observability"
	"github.com/aperiosoftware/aas-timeseries/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string // output directory
	name          string // base name of the outputs
	formats       string // comma-separated: json, zip, svg
	embed         bool   // inline data in the Vega document
	fullData      bool   // export every column
	overrideStyle bool   // replace explicit colors with automatic ones
	width         int    // svg width override
	height        int    // svg height override
	noCache       bool
	refresh       bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [config]",
		Short: "Render a figure description",
		Long: `Render a TOML or YAML figure description.

Formats:
  json  Vega document, with one CSV file per data source unless --embed is set
  zip   bundle holding the document, its data and an index.html viewer
  svg   static rendering`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: next to the config)")
	cmd.Flags().StringVar(&opts.name, "name", "", "base name of the outputs (default: config file name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "json", "output formats: json, zip, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.embed, "embed", false, "embed the data in the Vega document")
	cmd.Flags().BoolVar(&opts.fullData, "full-data", false, "export every column, not only the ones layers read")
	cmd.Flags().BoolVar(&opts.overrideStyle, "override-style", false, "replace explicit layer colors with automatic ones")
	cmd.Flags().IntVar(&opts.width, "width", 0, "svg width in pixels (default: figure width)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "svg height in pixels (default: figure height)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Checking cache for "+filepath.Base(path)+"...")
	installHooks(c.Logger, spinner)
	defer observability.Reset()
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Config:        path,
		OutDir:        opts.output,
		Name:          opts.name,
		Formats:       parseFormats(opts.formats),
		Embed:         opts.embed,
		FullData:      opts.fullData,
		OverrideStyle: opts.overrideStyle,
		Width:         opts.width,
		Height:        opts.height,
		Refresh:       opts.refresh,
		Logger:        c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return fmt.Errorf("%s", errors.UserMessage(err))
	}
	spinner.StopWithSuccess("Rendered " + path)

	formats := make([]string, 0, len(result.Outputs))
	for f := range result.Outputs {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	for _, f := range formats {
		printFile(result.Outputs[f])
	}
	printStats(result.Stats.LayerCount, result.Stats.ViewCount, len(result.Cached) == len(result.Outputs))
	prog.done(fmt.Sprintf("Wrote %d outputs", len(result.Outputs)))
	return nil
}
