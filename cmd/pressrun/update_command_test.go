package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// newFakePostEndpoint captures update payloads sent to a single post.
func newFakePostEndpoint(t *testing.T, postID string) (*httptest.Server, *map[string]any) {
	t.Helper()
	captured := map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/wp-json/wp/v2/posts/"+postID {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     901,
			"link":   "https://blog.example.com/?p=901",
			"status": "publish",
		})
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func TestUpdateCommandSendsTitleOnly(t *testing.T) {
	base := t.TempDir()
	server, captured := newFakePostEndpoint(t, "901")
	configPath := writeTestConfig(t, base, testEndpoints{wordpressURL: server.URL})

	out, _, err := runCLI(t, []string{"update", "901", "--title", "Refreshed Title"}, configPath)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	requireContains(t, out, "Updated post 901")

	payload := *captured
	if payload["title"] != "Refreshed Title" {
		t.Fatalf("unexpected title in payload: %v", payload["title"])
	}
	if _, ok := payload["content"]; ok {
		t.Fatalf("title-only update must not send content, got %v", payload["content"])
	}

	histOut, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	requireContains(t, histOut, "Refreshed Title")
	requireContains(t, histOut, "content_update")
}

func TestUpdateCommandReadsBodyFile(t *testing.T) {
	base := t.TempDir()
	server, captured := newFakePostEndpoint(t, "901")
	configPath := writeTestConfig(t, base, testEndpoints{wordpressURL: server.URL})

	bodyPath := filepath.Join(base, "body.md")
	if err := os.WriteFile(bodyPath, []byte("A fully rewritten article body."), 0o644); err != nil {
		t.Fatalf("write body file: %v", err)
	}

	_, _, err := runCLI(t, []string{"update", "901", "--body-file", bodyPath}, configPath)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	payload := *captured
	if payload["content"] != "A fully rewritten article body." {
		t.Fatalf("unexpected content in payload: %v", payload["content"])
	}
	if _, ok := payload["title"]; ok {
		t.Fatalf("body-only update must not send a title, got %v", payload["title"])
	}
}

func TestUpdateCommandRejectsBadArguments(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir(), testEndpoints{})

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"bad id", []string{"update", "abc", "--title", "x"}, "invalid post id"},
		{"no fields", []string{"update", "901"}, "nothing to update"},
		{"conflicting body flags", []string{"update", "901", "--body", "x", "--body-file", "y"}, "only one of"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args, configPath)
			if err == nil {
				t.Fatal("expected an error")
			}
			requireContains(t, err.Error(), tc.want)
		})
	}
}
