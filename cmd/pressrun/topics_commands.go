package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pressrun/internal/config"
	"pressrun/internal/topics"
)

func newTopicsCommand() *cobra.Command {
	topicsCmd := &cobra.Command{
		Use:         "topics",
		Short:       "Topic input file utilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	topicsCmd.AddCommand(newTopicsValidateCommand())
	topicsCmd.AddCommand(newTopicsSampleCommand())

	return topicsCmd
}

func newTopicsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a topics file without queueing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			loaded, issues, err := topics.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintf(out, "Row %d: %s\n", issue.Row, issue.Message)
			}
			fmt.Fprintf(out, "%d valid topics in %s\n", len(loaded), path)
			if len(issues) > 0 {
				fmt.Fprintf(out, "%d rows would be skipped\n", len(issues))
			}
			return nil
		},
	}
}

func newTopicsSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample [path]",
		Short: "Write a sample topics file",
		Long: "Sample writes a topics file with the expected header and one example\n" +
			"row. The extension picks the format: .csv or .xlsx.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "topics.csv"
			if len(args) > 0 {
				target = args[0]
			}
			path, err := config.ExpandPath(target)
			if err != nil {
				return err
			}

			if err := topics.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample topics file to %s\n", path)
			return nil
		},
	}
}
