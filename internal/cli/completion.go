package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for filtergraph.

To load completions:

Bash:
  $ source <(filtergraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ filtergraph completion bash > /etc/bash_completion.d/filtergraph
  # macOS:
  $ filtergraph completion bash > $(brew --prefix)/etc/bash_completion.d/filtergraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ filtergraph completion zsh > "${fpath[1]}/_filtergraph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ filtergraph completion fish | source

  # To load completions for each session, execute once:
  $ filtergraph completion fish > ~/.config/fish/completions/filtergraph.fish

PowerShell:
  PS> filtergraph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> filtergraph completion powershell > filtergraph.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeFormats completes comma-separated render formats.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, 0, len(render.Formats))
	for _, f := range render.Formats {
		out = append(out, prefix+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeReportIDs completes IDs of archived reports, labelled by name.
func completeReportIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := newStore()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer store.Close()
	reports, err := store.List(context.Background(), 0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, r := range reports {
		if strings.HasPrefix(r.ID, toComplete) {
			ids = append(ids, r.ID+"\t"+r.Name)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
