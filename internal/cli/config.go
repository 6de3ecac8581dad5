package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hiroksarker/jina/pkg/config"
	errs "github.com/hiroksarker/jina/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := c.cfg
			printKeyValue(out, "file", c.configPathOrDefault())
			printKeyValue(out, "manifest", cfg.Manifest)
			printKeyValue(out, "tags", strings.Join(tagsOrAll(cfg.DefaultTags), ", "))
			printKeyValue(out, "format", cfg.Format)
			printKeyValue(out, "strict", fmt.Sprint(cfg.Strict))
			printKeyValue(out, "cache", cfg.Cache.Backend)
			printKeyValue(out, "ttl", cfg.Cache.TTL.String())
			printKeyValue(out, "server", cfg.Server.Addr)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := c.configPathOrDefault()

			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Write(path); err != nil {
				return errs.Wrap(errs.ErrCodeInternal, err, "write %s", path)
			}

			printSuccess(out, "Wrote default configuration")
			printFile(out, path)
			printNextStep(out, "Resolve your first tags", appName+" resolve core")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
