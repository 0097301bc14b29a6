package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "inspect [config]",
		Short:             "Show the layers and views of a figure description",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			installHooks(c.Logger, nil)
			fig, err := pipeline.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s", errors.UserMessage(err))
			}
			s := pipeline.Summarize(fig)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			printSummary(s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func printSummary(s pipeline.Summary) {
	if s.Title != "" {
		fmt.Println(StyleTitle.Render(s.Title))
	}
	printKeyValue("y unit", s.YUnit)
	printKeyValue("layers", fmt.Sprint(len(s.Layers)))
	printLayers(s.Layers)
	for _, v := range s.Views {
		printNewline()
		printInfo("View %s", StyleHighlight.Render(v.Title))
		printLayers(v.Layers)
	}
}

func printLayers(layers []pipeline.LayerSummary) {
	for _, l := range layers {
		line := l.Kind
		if l.Label != "" {
			line += " " + StyleValue.Render(l.Label)
		}
		if l.Data != "" {
			line += StyleDim.Render(" ← " + l.Data)
		}
		if !l.Visible {
			line += " " + StyleWarning.Render("(hidden)")
		}
		fmt.Println("  " + line)
	}
}
