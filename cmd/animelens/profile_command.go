package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"animelens/internal/profile"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your scanning level, XP, and streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			store, err := profile.Open(cfg, logger)
			if err != nil {
				return fmt.Errorf("open profile store: %w", err)
			}
			defer store.Close()

			user := store.Profile(cmd.Context())
			if asJSON {
				return writeJSON(cmd, user)
			}

			out := cmd.OutOrStdout()
			nextLevelXP := profile.XPForNextLevel(user.Level)
			intoLevel := user.XP - (user.Level-1)*100

			fmt.Fprintf(out, "Level %d\n", user.Level)
			fmt.Fprintf(out, "  XP          %d (%d until Level %d)\n", user.XP, nextLevelXP-user.XP, user.Level+1)
			fmt.Fprintf(out, "  Progress    %s %d/100\n", progressBar(intoLevel, 100, 20), intoLevel)
			if user.CurrentStreak > 0 {
				fmt.Fprintf(out, "  Streak      %d day(s)\n", user.CurrentStreak)
			}
			if user.LastScanTimestamp != "" {
				fmt.Fprintf(out, "  Last scan   %s\n", formatTimestamp(user.LastScanTimestamp))
			}
			fmt.Fprintf(out, "  Scans kept  %d\n", len(store.History(cmd.Context())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the profile as JSON")
	return cmd
}

func formatTimestamp(value string) string {
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return at.Local().Format("2006-01-02 15:04")
}

func progressBar(value, max, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	filled := value * width / max
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
