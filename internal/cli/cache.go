package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/webern/pkg/cache"
	"github.com/matzehuels/webern/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
		Long: `Manage rendered artifacts cached by "webern render" and "webern serve".

The backend is chosen by [cache] backend in the config file:
file (default), sqlite, redis or none.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cachePurgeCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, err := cache.Open(ctx, c.cfg.CacheOptions())
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "backend %q cannot be cleared", c.cfg.Cache.Backend)
			}
			if err := clearer.Clear(ctx); err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "clear cache")
			}

			w := cmd.OutOrStdout()
			printSuccess(w, "Cleared %s cache", c.cfg.Cache.Backend)
			if loc := cacheLocation(ch, c.cfg.Cache.RedisAddr); loc != "" {
				printKeyValue(w, "Location", loc)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := cache.Open(cmd.Context(), c.cfg.CacheOptions())
			if err != nil {
				return err
			}
			defer ch.Close()

			loc := cacheLocation(ch, c.cfg.Cache.RedisAddr)
			if loc == "" {
				printInfo(cmd.ErrOrStderr(), "Caching is disabled")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// cachePurgeCommand creates the "cache purge" subcommand.
func (c *CLI) cachePurgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired entries from the file or sqlite cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, err := cache.Open(ctx, c.cfg.CacheOptions())
			if err != nil {
				return err
			}
			defer ch.Close()

			purger, ok := ch.(cache.Purger)
			if !ok {
				printInfo(cmd.OutOrStdout(), "Backend %q keeps no expired entries", c.cfg.Cache.Backend)
				return nil
			}
			n, err := purger.Purge(ctx)
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "purge cache")
			}
			printSuccess(cmd.OutOrStdout(), "Purged %d expired entries", n)
			return nil
		},
	}
}

// cacheLocation describes where a backend stores its entries.
func cacheLocation(ch cache.Cache, redisAddr string) string {
	switch v := ch.(type) {
	case *cache.FileCache:
		return v.Dir()
	case *cache.SQLiteCache:
		return v.Path()
	case *cache.RedisCache:
		return "redis://" + redisAddr
	default:
		return ""
	}
}
