package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/pipeline"
	"github.com/hiroksarker/jina/pkg/render"
)

type resolveOpts struct {
	format  string
	output  string
	strict  bool
	refresh bool
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve [tags...]",
		Short: "Resolve tags into an install list",
		Long: `Resolve one or more tags into a deduplicated install list.

With no tags the config's default_tags are used, and without those the
reserved tag "all" selects every tagged package. Unknown tags and
conflicting constraints are reported as warnings; --strict turns them
into a failure.`,
		Example: `  extras resolve core
  extras resolve http test --format requirements -o requirements-http.txt
  extras resolve all --format json`,
		ValidArgsFunction: c.completeTags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(render.Formats(), ", ")+" (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when resolution produces warnings")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(render.Formats(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, args []string, opts resolveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	tags := args
	if len(tags) == 0 {
		tags = c.cfg.DefaultTags
	}
	format := opts.format
	if format == "" {
		format = c.cfg.Format
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Manifest: c.cfg.Manifest,
		Tags:     tags,
		Format:   format,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logWarnings(logger, result.Resolution.Warnings)

	if opts.output != "" {
		if err := os.WriteFile(opts.output, result.Output, 0644); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "write %s", opts.output)
		}
		prog.done("Resolved " + strings.Join(tagsOrAll(tags), ", "))
		out := cmd.ErrOrStderr()
		printFile(out, opts.output)
		printStats(out, result.Stats.Packages, result.Stats.Warnings, result.CacheHit)
	} else {
		if _, err := cmd.OutOrStdout().Write(result.Output); err != nil {
			return err
		}
		logger.Debug("resolved", "packages", result.Stats.Packages, "cached", result.CacheHit)
	}

	if n := len(result.Resolution.Warnings); n > 0 && (opts.strict || c.cfg.Strict) {
		return errs.New(errs.ErrCodeUnresolved, "resolution produced %d warning(s)", n)
	}
	return nil
}

// logWarnings reports resolution warnings through the logger.
func logWarnings(logger *log.Logger, warnings []manifest.Warning) {
	for _, w := range warnings {
		switch w := w.(type) {
		case manifest.UnknownTagWarning:
			logger.Warn("unknown tag", "tag", w.Tag)
		case manifest.ConstraintConflictWarning:
			logger.Warn("conflicting constraints", "package", w.Package, "constraints", w.Constraints, "using", w.Chosen)
		default:
			logger.Warn(w.String())
		}
	}
}

func tagsOrAll(tags []string) []string {
	if len(tags) == 0 {
		return []string{errs.ReservedTag}
	}
	return tags
}
