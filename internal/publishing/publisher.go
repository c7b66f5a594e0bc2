package publishing

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/yuin/goldmark"

	"pressrun/internal/assembler"
	"pressrun/internal/config"
	"pressrun/internal/logging"
	"pressrun/internal/queue"
	"pressrun/internal/services"
	"pressrun/internal/services/wordpress"
	"pressrun/internal/textutil"
	"pressrun/internal/topics"
)

// PostClient is the publisher surface the pipeline depends on.
type PostClient interface {
	CreatePost(ctx context.Context, req wordpress.PostRequest) (wordpress.Post, error)
	UpdatePost(ctx context.Context, postID int64, req wordpress.PostRequest) (wordpress.Post, error)
	ResolveCategoryIDs(ctx context.Context, names []string) ([]int64, error)
	ResolveTagIDs(ctx context.Context, names []string) ([]int64, error)
}

// Publisher submits composed articles to the configured site.
type Publisher struct {
	client PostClient
	cfg    config.WordPress
	logger *slog.Logger
}

// New constructs a Publisher around the given post client.
func New(client PostClient, cfg config.WordPress, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "publishing"),
	}
}

// Publish creates a post from the item's composed body. A schedule on the
// topic switches the post into future status with the scheduled date;
// otherwise it goes live immediately.
func (p *Publisher) Publish(ctx context.Context, item *queue.Item) (wordpress.Post, error) {
	if p == nil || p.client == nil {
		return wordpress.Post{}, services.Wrap(services.ErrConfiguration, "publishing", "publish", "Publisher is not configured", nil)
	}
	if item == nil {
		return wordpress.Post{}, services.Wrap(services.ErrValidation, "publishing", "publish", "Queue item is nil", nil)
	}

	draft, err := assembler.ParseContent(item.ContentJSON)
	if err != nil {
		return wordpress.Post{}, err
	}
	body, err := p.renderBody(item, draft.Body)
	if err != nil {
		return wordpress.Post{}, err
	}

	topic := item.Request()
	categories := Categories(topic)
	tags := Tags(topic)

	categoryIDs, err := p.client.ResolveCategoryIDs(ctx, categories)
	if err != nil {
		return wordpress.Post{}, services.Wrap(services.ErrPublish, "publishing", "resolve categories", "Could not resolve post categories", err)
	}
	tagIDs, err := p.client.ResolveTagIDs(ctx, tags)
	if err != nil {
		return wordpress.Post{}, services.Wrap(services.ErrPublish, "publishing", "resolve tags", "Could not resolve post tags", err)
	}

	status := "publish"
	var date *time.Time
	if topic.ScheduleAt != nil {
		status = "future"
		date = topic.ScheduleAt
	}

	req := wordpress.PostRequest{
		Title:         draft.Title,
		Content:       body,
		Excerpt:       draft.MetaDescription,
		Status:        status,
		Date:          date,
		Categories:    categoryIDs,
		Tags:          tagIDs,
		FeaturedMedia: parseMediaID(item.FeaturedMediaID),
	}
	post, err := p.client.CreatePost(ctx, req)
	if err != nil {
		return wordpress.Post{}, services.Wrap(services.ErrPublish, "publishing", "create post", "Publisher rejected the post", err)
	}

	logging.WithContext(ctx, p.logger).Info("post created",
		logging.Int64("post_id", post.ID),
		logging.String("status", status),
		logging.String("title", draft.Title))
	return post, nil
}

// Update rewrites the title and body of an existing post. Terms, schedule,
// and media assignments stay as they are.
func (p *Publisher) Update(ctx context.Context, postID int64, item *queue.Item) (wordpress.Post, error) {
	if p == nil || p.client == nil {
		return wordpress.Post{}, services.Wrap(services.ErrConfiguration, "publishing", "update", "Publisher is not configured", nil)
	}
	if item == nil {
		return wordpress.Post{}, services.Wrap(services.ErrValidation, "publishing", "update", "Queue item is nil", nil)
	}

	draft, err := assembler.ParseContent(item.ContentJSON)
	if err != nil {
		return wordpress.Post{}, err
	}
	body, err := p.renderBody(item, draft.Body)
	if err != nil {
		return wordpress.Post{}, err
	}

	post, err := p.client.UpdatePost(ctx, postID, wordpress.PostRequest{
		Title:   draft.Title,
		Content: body,
	})
	if err != nil {
		return wordpress.Post{}, services.Wrap(services.ErrPublish, "publishing", "update post", "Publisher rejected the update", err)
	}

	logging.WithContext(ctx, p.logger).Info("post updated",
		logging.Int64("post_id", post.ID),
		logging.String("title", draft.Title))
	return post, nil
}

// Categories returns the category names a topic publishes under.
func Categories(topic topics.Topic) []string {
	if len(topic.Categories) > 0 {
		return topic.Categories
	}
	return []string{"Article"}
}

// Tags returns the tag names a topic publishes under. Topics without
// explicit tags reuse their primary keywords.
func Tags(topic topics.Topic) []string {
	if len(topic.Tags) > 0 {
		return topic.Tags
	}
	return textutil.SplitKeywords(topic.PrimaryKeywords)
}

// renderBody picks the composed body when composition ran and optionally
// renders it from markdown to HTML before upload.
func (p *Publisher) renderBody(item *queue.Item, fallback string) (string, error) {
	body := item.ComposedBody
	if strings.TrimSpace(body) == "" {
		body = fallback
	}
	if !p.cfg.RenderMarkdown {
		return body, nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", services.Wrap(services.ErrPublish, "publishing", "render markdown", "Could not render article markdown", err)
	}
	return buf.String(), nil
}

// parseMediaID converts the stored featured media ID, tolerating older rows
// where the field is empty.
func parseMediaID(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
