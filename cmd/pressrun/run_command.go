package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"pressrun/internal/assembler"
	"pressrun/internal/config"
	"pressrun/internal/logging"
	"pressrun/internal/queue"
	"pressrun/internal/topics"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run [input-file]",
		Short: "Load topics and process the queue end to end",
		Long: "Run loads the topics input file, queues every new topic, and drains the\n" +
			"queue through generation, media sourcing, composition, publishing, and\n" +
			"history tracking. Topics already queued (matched by fingerprint) are\n" +
			"skipped, so rerunning after a partial batch only processes the remainder.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, ctx, args)
		},
	}
}

func runPipeline(cmd *cobra.Command, cmdCtx *commandContext, args []string) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another pressrun run is already active (lock %s)", cfg.LockPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open queue store: %w", err)
	}
	defer store.Close()

	inputPath := cfg.InputFilePath()
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		inputPath, err = config.ExpandPath(args[0])
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	queued, skipped, err := enqueueTopics(signalCtx, store, inputPath, out)
	if err != nil {
		return err
	}
	if skipped > 0 {
		fmt.Fprintf(out, "Queued %d topics from %s (%d already queued)\n", queued, inputPath, skipped)
	} else {
		fmt.Fprintf(out, "Queued %d topics from %s\n", queued, inputPath)
	}

	manager, err := buildManager(cfg, store, logger)
	if err != nil {
		return err
	}

	summary, err := manager.Run(signalCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "Run interrupted")
		}
		return err
	}

	fmt.Fprintf(out, "Processed %d topics (%d failed) in %s\n",
		summary.Processed, summary.Failed, summary.Duration.Round(time.Second))
	if summary.Failed > 0 {
		fmt.Fprintln(out, "Inspect failed topics with `pressrun queue list --status failed`")
	}
	return nil
}

// enqueueTopics loads the input file and queues every topic whose
// fingerprint is not already present. Invalid rows are reported and skipped.
func enqueueTopics(ctx context.Context, store *queue.Store, path string, out io.Writer) (int, int, error) {
	loaded, issues, err := topics.Load(path)
	if err != nil {
		return 0, 0, err
	}
	for _, issue := range issues {
		fmt.Fprintf(out, "Skipping row %d: %s\n", issue.Row, issue.Message)
	}

	queued := 0
	skipped := 0
	for _, topic := range loaded {
		fingerprint := assembler.Fingerprint(topic)
		existing, err := store.FindByFingerprint(ctx, fingerprint)
		if err != nil {
			return queued, skipped, fmt.Errorf("check for duplicate topic: %w", err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if _, err := store.NewTopic(ctx, topic, fingerprint); err != nil {
			return queued, skipped, fmt.Errorf("queue topic %q: %w", topic.Topic, err)
		}
		queued++
	}
	return queued, skipped, nil
}
