package cli

import (
	"os"

	"github.com/spf13/cobra"

	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/render"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format string
		output string
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the tag → package graph as DOT or SVG",
		Example: `  extras graph | dot -Tpng > extras.png
  extras graph --tag core --tag test --format svg -o extras.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := manifest.LoadFile(c.cfg.Manifest)
			if err != nil {
				return err
			}

			dot := render.ToDOT(idx, render.GraphOptions{Tags: tags})
			data := []byte(dot)
			switch format {
			case "dot":
			case "svg":
				prog := newProgress(loggerFromContext(cmd.Context()))
				data, err = render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return errs.Wrap(errs.ErrCodeInternal, err, "render graph")
				}
				prog.done("Rendered SVG")
			default:
				return errs.New(errs.ErrCodeInvalidFormat, "invalid graph format: %q (must be dot or svg)", format)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return errs.Wrap(errs.ErrCodeInternal, err, "write %s", output)
			}
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "limit the graph to these tags")
	_ = cmd.RegisterFlagCompletionFunc("tag", c.completeTags)
	return cmd
}
