package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/pipeline"
)

// tagsCommand creates the tags command.
func (c *CLI) tagsCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the tags declared in the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := manifest.LoadFile(c.cfg.Manifest)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if plain {
				for _, t := range idx.Tags() {
					fmt.Fprintln(out, t)
				}
				return nil
			}

			tags := idx.Tags()
			runner := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context()))
			results, err := runner.ResolveEach(cmd.Context(), idx, tags)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, t := range tags {
				res := results[t]
				rows = append(rows, []string{
					t,
					strconv.Itoa(len(res.Packages)),
					strconv.Itoa(len(res.Warnings)),
					preview(idx.Packages(t), 4),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Tag", "Packages", "Conflicts", "Includes"}, rows))
			printDetail(out, "%d packages across %d tags in %s", idx.Len(), len(rows), c.cfg.Manifest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print tag names only, one per line")
	return cmd
}

// preview joins the first n names and summarizes the rest.
func preview(names []string, n int) string {
	if len(names) <= n {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:n], ", ") + fmt.Sprintf(", +%d more", len(names)-n)
}
