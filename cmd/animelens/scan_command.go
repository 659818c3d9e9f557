package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"animelens/internal/notifications"
	"animelens/internal/profile"
	"animelens/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan <image-file-or-url>",
		Short: "Identify the anime scene shown in an image",
		Long: `Identify the anime scene shown in an image by reverse image search.

The image may be a local file or a direct image URL. A successful scan
with catalog metadata is recorded in your history and awards XP.

Examples:
  animelens scan screenshot.png
  animelens scan https://example.com/frame.jpg
  animelens scan screenshot.png --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			source := strings.TrimSpace(args[0])
			if isURL(source) && !isProbablyImageURL(source) {
				return fmt.Errorf("%q does not look like a direct image link (jpg, png, webp)", source)
			}

			searcher, err := newSearchClient(cfg)
			if err != nil {
				return fmt.Errorf("create search client: %w", err)
			}
			catalog, err := newCatalogClient(cfg)
			if err != nil {
				return fmt.Errorf("create catalog client: %w", err)
			}
			store, err := profile.Open(cfg, logger)
			if err != nil {
				return fmt.Errorf("open profile store: %w", err)
			}
			defer store.Close()

			notifier := notifications.NewService(cfg)
			scanner := scan.NewScanner(searcher, catalog, store,
				scan.WithNotifier(notifier),
				scan.WithLogger(logger),
				scan.WithXPPerScan(cfg.Leveling.XPPerScan),
			)

			var outcome *scan.Outcome
			if isURL(source) {
				outcome, err = scanner.ScanURL(cmd.Context(), source)
			} else {
				outcome, err = scanner.ScanFile(cmd.Context(), source)
			}
			if err != nil {
				if errors.Is(err, scan.ErrNoMatches) {
					fmt.Fprintln(cmd.OutOrStdout(), "No match found. Try a clearer frame or a different scene.")
					return nil
				}
				if notifyErr := notifier.NotifyError(cmd.Context(), err, "scan"); notifyErr != nil {
					logger.Warn("error notification failed", "error", notifyErr)
				}
				return err
			}

			if outcome.Recorded && outcome.Result.Media != nil {
				title := outcome.Result.Media.Title.Romaji
				if notifyErr := notifier.NotifyScanComplete(cmd.Context(), title, outcome.Result.Match.Similarity); notifyErr != nil {
					logger.Warn("scan notification failed", "error", notifyErr)
				}
			}

			if asJSON {
				return writeJSON(cmd, outcome)
			}

			renderOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the scan outcome as JSON")
	return cmd
}

func renderOutcome(out io.Writer, outcome *scan.Outcome) {
	result := outcome.Result
	match := result.Match
	media := result.Media

	if media == nil {
		fmt.Fprintf(out, "%s\n", scan.DisplayTitle(match))
		fmt.Fprintf(out, "  Scene      %s (%.1f%% match)\n", formatSegment(match.From, match.To), match.Similarity*100)
		if match.Video != "" {
			fmt.Fprintf(out, "  Preview    %s\n", match.Video)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Catalog metadata unavailable for this title; the scan was not recorded.")
		return
	}

	title := media.Title.Romaji
	if title == "" {
		title = scan.DisplayTitle(match)
	}
	fmt.Fprintf(out, "%s\n", title)
	if media.Title.English != "" && media.Title.English != title {
		fmt.Fprintf(out, "  Also known as  %s\n", media.Title.English)
	}
	fmt.Fprintf(out, "  Scene          %s (%.1f%% match)\n", formatSegment(match.From, match.To), match.Similarity*100)
	if len(media.Genres) > 0 {
		genres := media.Genres
		if len(genres) > 3 {
			genres = genres[:3]
		}
		fmt.Fprintf(out, "  Genres         %s\n", strings.Join(genres, ", "))
	}
	if media.AverageScore > 0 {
		fmt.Fprintf(out, "  Score          %.1f/10\n", float64(media.AverageScore)/10)
	}
	if media.SeasonYear > 0 {
		fmt.Fprintf(out, "  Year           %d\n", media.SeasonYear)
	}
	if media.Episodes > 0 {
		fmt.Fprintf(out, "  Episodes       %d\n", media.Episodes)
	}
	if media.CoverImage.Large != "" {
		fmt.Fprintf(out, "  Cover          %s\n", media.CoverImage.Large)
	}
	if match.Video != "" {
		fmt.Fprintf(out, "  Preview        %s\n", match.Video)
	}
	if synopsis := sanitizeSynopsis(media.Description); synopsis != "" {
		fmt.Fprintf(out, "\n%s\n", ellipsize(synopsis, 400))
	}

	if outcome.Recorded {
		fmt.Fprintln(out)
		if outcome.XP.LeveledUp {
			fmt.Fprintf(out, "Level up! You've reached Level %d.\n", outcome.XP.NewLevel)
		} else {
			fmt.Fprintf(out, "Scan recorded (Level %d).\n", outcome.XP.NewLevel)
		}
	}
}
