package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnresolve/pkg/cache"
	"github.com/matzehuels/mvnresolve/pkg/engine"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository metadata cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Downloaded
// artifacts in the local repository are kept.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all cached repository metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			w := cmd.ErrOrStderr()
			if _, ok := eng.Cache().(cache.Clearer); !ok {
				printInfo(w, "Metadata cache is disabled")
				return nil
			}
			if err := eng.ClearCache(cmd.Context()); err != nil {
				return err
			}
			printSuccess(w, "Cleared %s metadata cache", eng.Config().MetadataCache)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "repository", cfg.LocalRepository)
			switch cfg.MetadataCache {
			case engine.CacheFile:
				printKeyValue(w, "metadata", cfg.CacheDir)
			case engine.CacheRedis:
				printKeyValue(w, "metadata", "redis://"+cfg.RedisAddr)
			default:
				printKeyValue(w, "metadata", "disabled")
			}
			return nil
		},
	}
}
