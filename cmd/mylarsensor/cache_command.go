package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mylarsensor/internal/logging"
	"mylarsensor/internal/metadatacache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the metadata cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := metadatacache.NewStore(cfg.Cache.Path, logging.NewNop())
			count, err := store.Count()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:    %s\n", store.Path())
			fmt.Fprintf(out, "Entries: %d\n", count)
			return nil
		},
	}

	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := metadatacache.NewStore(cfg.Cache.Path, logging.NewNop())
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared metadata cache at %s\n", store.Path())
			return nil
		},
	}
}
