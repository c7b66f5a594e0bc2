package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pressrun/internal/assembler"
	"pressrun/internal/history"
	"pressrun/internal/logging"
	"pressrun/internal/publishing"
	"pressrun/internal/queue"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var title string
	var body string
	var bodyFile string

	cmd := &cobra.Command{
		Use:   "update <post-id>",
		Short: "Rewrite the title or body of a published post",
		Long: "Update sends new content for an existing post. Only the fields you\n" +
			"provide change; categories, tags, schedule, and the featured image stay\n" +
			"as they are. Every update is appended to the history ledger.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || postID <= 0 {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			if body != "" && bodyFile != "" {
				return errors.New("specify only one of --body or --body-file")
			}

			newBody := body
			if bodyFile != "" {
				raw, err := os.ReadFile(bodyFile)
				if err != nil {
					return fmt.Errorf("read body file: %w", err)
				}
				newBody = string(raw)
			}
			if strings.TrimSpace(title) == "" && strings.TrimSpace(newBody) == "" {
				return errors.New("nothing to update; provide --title, --body, or --body-file")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			site, err := wordpressClient(cfg)
			if err != nil {
				return err
			}
			publisher := publishing.New(site, cfg.WordPress, logging.NewNop())

			draft := assembler.GeneratedContent{
				Title:         title,
				Body:          newBody,
				SchemaVersion: assembler.SchemaVersion,
			}
			encoded, err := json.Marshal(draft)
			if err != nil {
				return fmt.Errorf("encode update payload: %w", err)
			}

			post, err := publisher.Update(cmd.Context(), postID, &queue.Item{ContentJSON: string(encoded)})
			if err != nil {
				return err
			}

			tracker, err := ctx.openTracker()
			if err != nil {
				return fmt.Errorf("post updated but history is unavailable: %w", err)
			}
			record := history.Record{
				PostID:     strconv.FormatInt(post.ID, 10),
				Title:      title,
				Status:     "published",
				UpdateType: "content_update",
				UpdatedAt:  time.Now().UTC(),
			}
			if err := tracker.Record(record); err != nil {
				return fmt.Errorf("post updated but history append failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated post %d\n", post.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New post title")
	cmd.Flags().StringVar(&body, "body", "", "New post body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the new post body from a file")
	return cmd
}
