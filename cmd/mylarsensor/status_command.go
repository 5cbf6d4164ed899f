package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mylarsensor/internal/comicvine"
	"mylarsensor/internal/daemon"
	"mylarsensor/internal/logging"
	"mylarsensor/internal/metadatacache"
	"mylarsensor/internal/mylar"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Refresh all monitored sensors once and show their state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			backend, err := mylar.New(cfg.Mylar)
			if err != nil {
				return fmt.Errorf("build mylar client: %w", err)
			}
			catalog, err := comicvine.New(cfg.ComicVine.APIKey, cfg.ComicVine.BaseURL)
			if err != nil {
				return fmt.Errorf("build comicvine client: %w", err)
			}
			logger := logging.NewNop()
			cache := metadatacache.NewStore(cfg.Cache.Path, logger)

			sensors, err := daemon.BuildSensors(cfg, backend, catalog, cache, logger)
			if err != nil {
				return err
			}

			colorize := isatty.IsTerminal(os.Stdout.Fd())
			rows := make([][]string, 0, len(sensors))
			for _, s := range sensors {
				s.Refresh(cmd.Context())
				status := s.Snapshot()
				rows = append(rows, []string{
					status.Name,
					colorizeState(status.State, status.Available, colorize),
					strconv.Itoa(status.Count),
					status.Unit,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Sensor", "State", "Count", "Unit"}, rows, 3))
			return nil
		},
	}
}

func colorizeState(state string, available, colorize bool) string {
	if !colorize {
		return state
	}
	if available {
		return ansiGreen + state + ansiReset
	}
	return ansiRed + state + ansiReset
}
