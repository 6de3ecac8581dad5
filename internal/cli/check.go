package cli

import (
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
)

// checkCommand creates the check command, which validates the manifest and
// reports constraint conflicts independent of any tag request.
func (c *CLI) checkCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest and report constraint conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			idx, err := manifest.LoadFile(c.cfg.Manifest)
			if err != nil {
				printError(out, "%s", errs.UserMessage(err))
				return err
			}
			printSuccess(out, "%s: %d entries, %d packages, %d tags",
				c.cfg.Manifest, idx.Entries(), idx.Len(), len(idx.Tags()))

			// Names pip would reject are advisory; the manifest still loads.
			for _, name := range idx.Names() {
				if err := errs.ValidatePythonPackageName(name); err != nil {
					printWarning(out, "%s", errs.UserMessage(err))
				}
			}

			conflicts := idx.Conflicts()
			if len(conflicts) == 0 {
				printSuccess(out, "No constraint conflicts")
				return nil
			}

			for _, cf := range conflicts {
				printWarning(out, "%s: %s", cf.Package, strings.Join(cf.Constraints, " vs "))
				printDetail(out, "using %s (tags: %s)", cf.Chosen, strings.Join(idx.TagsOf(cf.Package), ", "))
			}
			if strict || c.cfg.Strict {
				return errs.New(errs.ErrCodeUnresolved, "%d package(s) with conflicting constraints", len(conflicts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when conflicts are found")
	return cmd
}
