package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pressrun/internal/config"
)

const userAgent = "Pressrun/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyBatchStarted(ctx context.Context, count int) error
	NotifyPostPublished(ctx context.Context, title, postID string, scheduled bool) error
	NotifyTopicFailed(ctx context.Context, topic string, cause error) error
	NotifyBatchCompleted(ctx context.Context, published, failed int, duration time.Duration) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		publish:  cfg.Notifications.Publish,
		batch:    cfg.Notifications.Batch,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	publish  bool
	batch    bool
	errors   bool
}

func (n *ntfyService) NotifyBatchStarted(ctx context.Context, count int) error {
	if !n.batch {
		return nil
	}
	data := payload{
		title:   "Pressrun - Batch Started",
		message: fmt.Sprintf("Started processing %d topics", count),
		tags:    []string{"pressrun", "batch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPostPublished(ctx context.Context, title, postID string, scheduled bool) error {
	if !n.publish {
		return nil
	}
	title = strings.TrimSpace(title)
	verb := "Published"
	if scheduled {
		verb = "Scheduled"
	}
	message := fmt.Sprintf("%s: %s", verb, title)
	if postID = strings.TrimSpace(postID); postID != "" {
		message = fmt.Sprintf("%s (post %s)", message, postID)
	}
	data := payload{
		title:   "Pressrun - " + verb,
		message: message,
		tags:    []string{"pressrun", "publish", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTopicFailed(ctx context.Context, topic string, cause error) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Failed")
	if topic = strings.TrimSpace(topic); topic != "" {
		builder.WriteString(": ")
		builder.WriteString(topic)
	}
	builder.WriteString(": ")
	if cause != nil {
		builder.WriteString(strings.TrimSpace(cause.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Pressrun - Topic Failed",
		message:  builder.String(),
		tags:     []string{"pressrun", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, published, failed int, duration time.Duration) error {
	if !n.batch {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title string
	var message string
	if failed == 0 {
		title = "Pressrun - Batch Complete"
		message = fmt.Sprintf("Batch complete: %d topics published in %s", published, durationText)
	} else {
		title = "Pressrun - Batch Complete (with errors)"
		message = fmt.Sprintf("Batch complete: %d published, %d failed in %s", published, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"pressrun", "batch", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Pressrun - Test",
		message:  "Notification system test",
		tags:     []string{"pressrun", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchStarted(context.Context, int) error                       { return nil }
func (noopService) NotifyPostPublished(context.Context, string, string, bool) error     { return nil }
func (noopService) NotifyTopicFailed(context.Context, string, error) error              { return nil }
func (noopService) NotifyBatchCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
