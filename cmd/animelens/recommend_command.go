package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"animelens/internal/profile"
	"animelens/internal/recommend"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest shows similar to your most recent scan",
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
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scans yet, so nothing to recommend from. Identify a scene first.")
				return nil
			}
			seed := items[0]

			catalog, err := newCatalogClient(cfg)
			if err != nil {
				return fmt.Errorf("create catalog client: %w", err)
			}

			service := recommend.NewService(catalog, logger)
			results, err := service.ForMedia(cmd.Context(), seed.AnilistID, seed.Genres)
			if err != nil {
				return fmt.Errorf("fetch recommendations: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No recommendations found for %s.\n", seed.Title)
				return nil
			}

			fmt.Fprintf(out, "Because you scanned %s:\n\n", seed.Title)
			rows := make([][]string, 0, len(results))
			for _, media := range results {
				title := media.Title.Romaji
				if media.Title.English != "" {
					title = media.Title.English
				}
				score := ""
				if media.AverageScore > 0 {
					score = fmt.Sprintf("%.1f/10", float64(media.AverageScore)/10)
				}
				genres := media.Genres
				if len(genres) > 3 {
					genres = genres[:3]
				}
				rows = append(rows, []string{
					ellipsize(title, 40),
					ellipsize(strings.Join(genres, ", "), 30),
					score,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Title", "Genres", "Score"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit recommendations as JSON")
	return cmd
}
