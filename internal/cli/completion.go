package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dropkit/pkg/cache"
	"github.com/matzehuels/dropkit/pkg/placement"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints a completion script for one of completionShells.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for dropkit. Completions cover subcommands,
flags and the fixed values of --policy and --cache.

  bash:        source <(dropkit completion bash)
  zsh:         dropkit completion zsh > "${fpath[1]}/_dropkit"
  fish:        dropkit completion fish > ~/.config/fish/completions/dropkit.fish
  powershell:  dropkit completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// completeFixed offers a closed set of values for a flag.
func completeFixed(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func registerPolicyCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("policy", completeFixed(placement.PolicySpace, placement.PolicyRows))
}

func registerCacheCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("cache", completeFixed(cache.BackendNone, cache.BackendFile, cache.BackendRedis))
}
