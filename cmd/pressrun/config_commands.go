package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pressrun/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set the openai api_key and wordpress credentials before running Pressrun.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "data_dir:            %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "cache_dir:           %s\n", cfg.Paths.CacheDir)
			fmt.Fprintf(out, "log_dir:             %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "input_file:          %s\n", cfg.InputFilePath())
			fmt.Fprintf(out, "openai.model:        %s\n", cfg.OpenAI.Model)
			fmt.Fprintf(out, "openai.api_key:      %s\n", secretLabel(cfg.OpenAI.APIKey))
			fmt.Fprintf(out, "unsplash.access_key: %s\n", secretLabel(cfg.Unsplash.AccessKey))
			fmt.Fprintf(out, "youtube.api_key:     %s\n", secretLabel(cfg.YouTube.APIKey))
			fmt.Fprintf(out, "wordpress.url:       %s\n", cfg.WordPress.URL)
			fmt.Fprintf(out, "wordpress.username:  %s\n", cfg.WordPress.Username)
			fmt.Fprintf(out, "wordpress.password:  %s\n", secretLabel(cfg.WordPress.AppPassword))
			fmt.Fprintf(out, "content.word_count:  %d\n", cfg.Content.DefaultWordCount)
			fmt.Fprintf(out, "images.per_topic:    %d\n", cfg.Images.PerTopic)
			fmt.Fprintf(out, "ntfy_topic:          %s\n", secretLabel(cfg.Notifications.NtfyTopic))
			return nil
		},
	}
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file location",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			var err error
			if ctx.configFlag != nil && strings.TrimSpace(*ctx.configFlag) != "" {
				path, err = config.ExpandPath(*ctx.configFlag)
			} else {
				path, err = config.DefaultConfigPath()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
				fmt.Fprintf(out, "%s (not found; run `pressrun config init`)\n", path)
				return nil
			}
			fmt.Fprintln(out, path)
			return nil
		},
	}
}
