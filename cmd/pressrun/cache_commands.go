package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pressrun/internal/cache"
	"pressrun/internal/logging"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Content and image cache maintenance",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, images, err := openCaches(ctx)
			if err != nil {
				return err
			}

			contentCount, contentBytes := content.Stats()
			imageCount, imageBytes := images.Stats()

			rows := [][]string{
				{"content", fmt.Sprintf("%d", contentCount), formatBytes(contentBytes)},
				{"images", fmt.Sprintf("%d", imageCount), formatBytes(imageBytes)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Cache", "Entries", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight}))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached content and images",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, images, err := openCaches(ctx)
			if err != nil {
				return err
			}

			contentRemoved, err := content.Clear()
			if err != nil {
				return err
			}
			imagesRemoved, err := images.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d content entries and %d image entries\n",
				contentRemoved, imagesRemoved)
			return nil
		},
	}
}

func openCaches(ctx *commandContext) (*cache.Store, *cache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewNop()
	content := cache.NewStore(cfg.ContentCacheDir(), "json", logger)
	images := cache.NewStore(cfg.ImageCacheDir(), "jpg", logger)
	return content, images, nil
}

func formatBytes(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
