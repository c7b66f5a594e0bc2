package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTestNotifyWithoutTopic(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir(), testEndpoints{})

	out, _, err := runCLI(t, []string{"test-notify"}, configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications are not configured")
}

func TestTestNotifySendsToConfiguredTopic(t *testing.T) {
	var gotTitle, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	t.Cleanup(server.Close)

	configPath := writeTestConfig(t, t.TempDir(), testEndpoints{ntfyURL: server.URL + "/pressrun-test"})

	out, _, err := runCLI(t, []string{"test-notify"}, configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if gotTitle != "Pressrun - Test" {
		t.Fatalf("unexpected notification title: %q", gotTitle)
	}
	if gotBody != "Notification system test" {
		t.Fatalf("unexpected notification body: %q", gotBody)
	}
}
