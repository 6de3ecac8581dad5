package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell. Tag arguments complete
from the manifest selected by --manifest or the config file.

  $ source <(extras completion bash)
  $ extras completion zsh > "${fpath[1]}/_extras"
  $ extras completion fish | source
  PS> extras completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeTags offers the manifest's tags plus "all", skipping those already
// given. Completion runs without the root pre-run hook, so the config is
// loaded here.
func (c *CLI) completeTags(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	idx, err := manifest.LoadFile(c.cfg.Manifest)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var out []string
	for _, t := range append(idx.Tags(), errs.ReservedTag) {
		if strings.HasPrefix(t, toComplete) && !slices.Contains(args, t) {
			out = append(out, t)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
