package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"animelens/internal/profile"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously identified scenes, newest first",
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

			items := store.History(cmd.Context())
			total := len(items)
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			if asJSON {
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No scans yet. Identify a scene with: animelens scan <image>")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					item.Timestamp.Local().Format("2006-01-02 15:04"),
					ellipsize(item.Title, 40),
					ellipsize(strings.Join(item.Genres, ", "), 30),
					fmt.Sprintf("%d", item.AnilistID),
				})
			}

			fmt.Fprintln(out, renderTable(out,
				[]string{"Scanned", "Title", "Genres", "AniList ID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d of up to %d scans kept.\n", total, profile.HistoryLimit)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many entries (0 shows all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit history as JSON")
	return cmd
}
