package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEndpoints carries the fake service URLs a test config points at.
type testEndpoints struct {
	openaiURL    string
	unsplashURL  string
	wordpressURL string
	ntfyURL      string
}

// writeTestConfig writes a complete config file rooted in base and returns
// its path. Unset endpoints fall back to placeholder hosts so commands that
// never reach the network still validate.
func writeTestConfig(t *testing.T, base string, endpoints testEndpoints) string {
	t.Helper()

	if endpoints.openaiURL == "" {
		endpoints.openaiURL = "https://api.openai.example.com"
	}
	if endpoints.unsplashURL == "" {
		endpoints.unsplashURL = "https://api.unsplash.example.com"
	}
	if endpoints.wordpressURL == "" {
		endpoints.wordpressURL = "https://blog.example.com"
	}

	content := fmt.Sprintf(`[paths]
data_dir = %q
cache_dir = %q
log_dir = %q

[openai]
api_key = "test-key"
base_url = %q
model = "gpt-4"
temperature = 0.7
timeout_seconds = 5

[unsplash]
access_key = "test-access"
base_url = %q
requests_per_minute = 1000
timeout_seconds = 5

[youtube]
api_key = ""
timeout_seconds = 5

[wordpress]
url = %q
username = "author"
app_password = "secret"
render_markdown = false
timeout_seconds = 5

[content]
default_word_count = 100
max_attempts = 2
cache_enabled = true

[images]
per_topic = 1
min_width = 10
min_height = 10
max_width = 640
quality = 80

[pipeline]
topic_delay_seconds = 0
input_file = "topics.csv"

[notifications]
ntfy_topic = %q
request_timeout = 5

[logging]
format = "json"
level = "error"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "cache"),
		filepath.Join(base, "logs"),
		endpoints.openaiURL,
		endpoints.unsplashURL,
		endpoints.wordpressURL,
		endpoints.ntfyURL,
	)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// runCLI executes the root command with the given args against configPath.
func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// writeTopicsCSV writes a topics input file with the standard header.
func writeTopicsCSV(t *testing.T, path string, rows ...string) {
	t.Helper()
	header := "topic,primary_keywords,additional_keywords,target_audience,tone_style,word_count"
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write topics file: %v", err)
	}
}
