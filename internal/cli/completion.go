package cli

import (
	"github.com/spf13/cobra"

	"github.com/aperiosoftware/aas-timeseries/pkg/pipeline"
)

// descriptionExts are the file extensions offered when completing a figure
// description argument.
var descriptionExts = []string{"toml", "yaml", "yml"}

// completeDescription completes the single figure description argument of
// render and inspect.
func completeDescription(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return descriptionExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the comma-separated --format flag.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return pipeline.ValidFormats, cobra.ShellCompDirectiveNoFileComp
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for aas-timeseries.

Completion offers .toml and .yaml figure descriptions for render and inspect,
and the output formats for --format.

  $ source <(aas-timeseries completion bash)
  $ aas-timeseries completion zsh > "${fpath[1]}/_aas-timeseries"
  $ aas-timeseries completion fish > ~/.config/fish/completions/aas-timeseries.fish
  PS> aas-timeseries completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
