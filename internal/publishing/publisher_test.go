package publishing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"pressrun/internal/assembler"
	"pressrun/internal/config"
	"pressrun/internal/logging"
	"pressrun/internal/queue"
	"pressrun/internal/services"
	"pressrun/internal/services/wordpress"
)

type fakePostClient struct {
	createReq  *wordpress.PostRequest
	updateReq  *wordpress.PostRequest
	updateID   int64
	categories []string
	tags       []string
	createErr  error
	post       wordpress.Post
}

func (f *fakePostClient) CreatePost(ctx context.Context, req wordpress.PostRequest) (wordpress.Post, error) {
	if f.createErr != nil {
		return wordpress.Post{}, f.createErr
	}
	f.createReq = &req
	return f.post, nil
}

func (f *fakePostClient) UpdatePost(ctx context.Context, postID int64, req wordpress.PostRequest) (wordpress.Post, error) {
	f.updateID = postID
	f.updateReq = &req
	return wordpress.Post{ID: postID, Status: "publish"}, nil
}

func (f *fakePostClient) ResolveCategoryIDs(ctx context.Context, names []string) ([]int64, error) {
	f.categories = names
	return termIDs(10, len(names)), nil
}

func (f *fakePostClient) ResolveTagIDs(ctx context.Context, names []string) ([]int64, error) {
	f.tags = names
	return termIDs(20, len(names)), nil
}

func termIDs(base int64, count int) []int64 {
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, base+int64(i))
	}
	return ids
}

func draftJSON(t *testing.T, title, meta, body string) string {
	t.Helper()

	payload, err := json.Marshal(assembler.GeneratedContent{
		Title:           title,
		MetaDescription: meta,
		Body:            body,
		WordCount:       len(strings.Fields(body)),
		TargetWordCount: 500,
		GeneratedAt:     time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		SchemaVersion:   assembler.SchemaVersion,
	})
	if err != nil {
		t.Fatalf("marshal draft: %v", err)
	}
	return string(payload)
}

func publishableItem(t *testing.T) *queue.Item {
	t.Helper()

	return &queue.Item{
		ID:                 1,
		Topic:              "How to Grow Tomatoes",
		PrimaryKeywords:    "tomato care, container gardening",
		AdditionalKeywords: "watering, pruning",
		TargetAudience:     "home gardeners",
		ToneStyle:          "friendly",
		ContentJSON:        draftJSON(t, "Tomato Care Guide", "Grow healthy tomatoes all season.", "Draft body before composition."),
		ComposedBody:       "[featured-image id=\"101\"]\nComposed body with markers.",
		FeaturedMediaID:    "101",
	}
}

func TestPublishCreatesPostWithDefaults(t *testing.T) {
	client := &fakePostClient{post: wordpress.Post{ID: 77, Link: "https://blog.example.com/?p=77", Status: "publish"}}
	pub := New(client, config.WordPress{}, logging.NewNop())

	post, err := pub.Publish(context.Background(), publishableItem(t))
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if post.ID != 77 {
		t.Fatalf("expected post ID 77, got %d", post.ID)
	}
	req := client.createReq
	if req == nil {
		t.Fatal("CreatePost was never called")
	}
	if req.Title != "Tomato Care Guide" {
		t.Fatalf("unexpected title %q", req.Title)
	}
	if req.Content != "[featured-image id=\"101\"]\nComposed body with markers." {
		t.Fatalf("composed body should upload untouched, got %q", req.Content)
	}
	if req.Excerpt != "Grow healthy tomatoes all season." {
		t.Fatalf("meta description should become the excerpt, got %q", req.Excerpt)
	}
	if req.Status != "publish" || req.Date != nil {
		t.Fatalf("unscheduled topics publish immediately, got %q %v", req.Status, req.Date)
	}
	if len(client.categories) != 1 || client.categories[0] != "Article" {
		t.Fatalf("expected default Article category, got %v", client.categories)
	}
	if len(client.tags) != 2 || client.tags[0] != "tomato care" || client.tags[1] != "container gardening" {
		t.Fatalf("tags should default to the primary keywords, got %v", client.tags)
	}
	if req.FeaturedMedia != 101 {
		t.Fatalf("expected featured media 101, got %d", req.FeaturedMedia)
	}
}

func TestPublishUsesTopicTermsAndSchedule(t *testing.T) {
	client := &fakePostClient{post: wordpress.Post{ID: 78, Status: "future"}}
	pub := New(client, config.WordPress{}, logging.NewNop())

	item := publishableItem(t)
	item.Categories = "Gardening"
	item.Tags = "tips, howto"
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	item.ScheduleAt = &at

	if _, err := pub.Publish(context.Background(), item); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	req := client.createReq
	if req.Status != "future" {
		t.Fatalf("scheduled topics should post as future, got %q", req.Status)
	}
	if req.Date == nil || !req.Date.Equal(at) {
		t.Fatalf("expected schedule date %v, got %v", at, req.Date)
	}
	if len(client.categories) != 1 || client.categories[0] != "Gardening" {
		t.Fatalf("topic categories should win over the default, got %v", client.categories)
	}
	if len(client.tags) != 2 || client.tags[0] != "tips" || client.tags[1] != "howto" {
		t.Fatalf("topic tags should win over keywords, got %v", client.tags)
	}
}

func TestPublishRendersMarkdownWhenConfigured(t *testing.T) {
	client := &fakePostClient{post: wordpress.Post{ID: 79}}
	pub := New(client, config.WordPress{RenderMarkdown: true}, logging.NewNop())

	item := publishableItem(t)
	item.ComposedBody = "# Heading\n\nBody paragraph."

	if _, err := pub.Publish(context.Background(), item); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !strings.Contains(client.createReq.Content, "<h1>Heading</h1>") {
		t.Fatalf("expected rendered HTML, got %q", client.createReq.Content)
	}
	if !strings.Contains(client.createReq.Content, "<p>Body paragraph.</p>") {
		t.Fatalf("expected rendered paragraph, got %q", client.createReq.Content)
	}
}

func TestPublishFallsBackToDraftBody(t *testing.T) {
	client := &fakePostClient{post: wordpress.Post{ID: 80}}
	pub := New(client, config.WordPress{}, logging.NewNop())

	item := publishableItem(t)
	item.ComposedBody = ""

	if _, err := pub.Publish(context.Background(), item); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if client.createReq.Content != "Draft body before composition." {
		t.Fatalf("expected draft body fallback, got %q", client.createReq.Content)
	}
}

func TestPublishWrapsClientFailure(t *testing.T) {
	client := &fakePostClient{createErr: errors.New("401 unauthorized")}
	pub := New(client, config.WordPress{}, logging.NewNop())

	_, err := pub.Publish(context.Background(), publishableItem(t))
	if !errors.Is(err, services.ErrPublish) {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestPublishRequiresGeneratedContent(t *testing.T) {
	pub := New(&fakePostClient{}, config.WordPress{}, logging.NewNop())

	item := publishableItem(t)
	item.ContentJSON = ""

	_, err := pub.Publish(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateSendsTitleAndBodyOnly(t *testing.T) {
	client := &fakePostClient{}
	pub := New(client, config.WordPress{}, logging.NewNop())

	post, err := pub.Update(context.Background(), 42, publishableItem(t))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if post.ID != 42 || client.updateID != 42 {
		t.Fatalf("expected update against post 42, got %d / %d", post.ID, client.updateID)
	}
	req := client.updateReq
	if req.Title != "Tomato Care Guide" || req.Content == "" {
		t.Fatalf("update should carry title and body, got %+v", req)
	}
	if req.Status != "" || len(req.Categories) != 0 || len(req.Tags) != 0 || req.FeaturedMedia != 0 {
		t.Fatalf("update should leave terms and status alone, got %+v", req)
	}
}
