package cli

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestCompleteDescription(t *testing.T) {
	got, dir := completeDescription(nil, nil, "")
	if !slices.Equal(got, []string{"toml", "yaml", "yml"}) || dir != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("first argument = %v, %v", got, dir)
	}
	got, dir = completeDescription(nil, []string{"fig.toml"}, "")
	if got != nil || dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second argument = %v, %v", got, dir)
	}
	if got, _ := completeFormats(nil, nil, ""); !slices.Equal(got, []string{"json", "zip", "svg"}) {
		t.Errorf("formats = %v", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}

	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("unsupported shell should fail")
	}
}
