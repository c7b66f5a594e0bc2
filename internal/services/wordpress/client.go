package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

// Config describes the WordPress REST client configuration.
type Config struct {
	SiteURL     string
	Username    string
	AppPassword string
	HTTPClient  *http.Client
}

// Client wraps the WordPress REST v2 API using application password auth.
type Client struct {
	baseURL     *url.URL
	username    string
	appPassword string
	http        *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	site := strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	if site == "" {
		return nil, errors.New("wordpress: site url is required")
	}
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		return nil, errors.New("wordpress: username is required")
	}
	appPassword := strings.TrimSpace(cfg.AppPassword)
	if appPassword == "" {
		return nil, errors.New("wordpress: app password is required")
	}
	baseURL, err := url.Parse(site)
	if err != nil {
		return nil, fmt.Errorf("wordpress: parse site url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:     baseURL,
		username:    username,
		appPassword: appPassword,
		http:        client,
	}, nil
}

// Media describes an uploaded media attachment.
type Media struct {
	ID        int64
	SourceURL string
}

// Post describes a created or updated post.
type Post struct {
	ID     int64
	Link   string
	Status string
}

// PostRequest carries the fields sent when creating or updating a post.
// Empty fields are omitted so updates can be partial.
type PostRequest struct {
	Title         string
	Content       string
	Excerpt       string
	Status        string
	Date          *time.Time
	Categories    []int64
	Tags          []int64
	FeaturedMedia int64
}

// UploadMedia posts image bytes to the media endpoint as a multipart upload.
func (c *Client) UploadMedia(ctx context.Context, filename string, data []byte) (Media, error) {
	if c == nil {
		return Media{}, errors.New("wordpress: client is nil")
	}
	if strings.TrimSpace(filename) == "" {
		return Media{}, errors.New("wordpress: filename is required")
	}
	if len(data) == 0 {
		return Media{}, errors.New("wordpress: media payload is empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Media{}, fmt.Errorf("wordpress: build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Media{}, fmt.Errorf("wordpress: write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Media{}, fmt.Errorf("wordpress: close multipart body: %w", err)
	}

	endpoint := c.endpoint("media")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return Media{}, fmt.Errorf("wordpress: build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	c.applyAuth(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Media{}, fmt.Errorf("wordpress: upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Media{}, responseError("upload media", resp)
	}

	var payload mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Media{}, fmt.Errorf("wordpress: decode upload response: %w", err)
	}
	if payload.ID == 0 {
		return Media{}, errors.New("wordpress: upload response missing attachment id")
	}
	return Media{ID: payload.ID, SourceURL: payload.SourceURL}, nil
}

// CreatePost creates a new post. Title and content are required; a scheduled
// date switches the post into future status on the server.
func (c *Client) CreatePost(ctx context.Context, req PostRequest) (Post, error) {
	if c == nil {
		return Post{}, errors.New("wordpress: client is nil")
	}
	if strings.TrimSpace(req.Title) == "" {
		return Post{}, errors.New("wordpress: post title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return Post{}, errors.New("wordpress: post content is required")
	}
	return c.submitPost(ctx, c.endpoint("posts"), "create post", req)
}

// UpdatePost applies the non-empty fields of req to an existing post.
func (c *Client) UpdatePost(ctx context.Context, postID int64, req PostRequest) (Post, error) {
	if c == nil {
		return Post{}, errors.New("wordpress: client is nil")
	}
	if postID <= 0 {
		return Post{}, errors.New("wordpress: post id is required")
	}
	endpoint := c.endpoint("posts", strconv.FormatInt(postID, 10))
	return c.submitPost(ctx, endpoint, "update post", req)
}

// GetPost fetches a post by identifier.
func (c *Client) GetPost(ctx context.Context, postID int64) (Post, error) {
	if c == nil {
		return Post{}, errors.New("wordpress: client is nil")
	}
	if postID <= 0 {
		return Post{}, errors.New("wordpress: post id is required")
	}

	endpoint := c.endpoint("posts", strconv.FormatInt(postID, 10))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Post{}, fmt.Errorf("wordpress: build get request: %w", err)
	}
	c.applyAuth(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Post{}, fmt.Errorf("wordpress: get request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Post{}, responseError("get post", resp)
	}

	var payload postResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Post{}, fmt.Errorf("wordpress: decode post response: %w", err)
	}
	return Post{ID: payload.ID, Link: payload.Link, Status: payload.Status}, nil
}

// ResolveCategoryIDs maps category names onto term IDs, creating any that do
// not exist yet.
func (c *Client) ResolveCategoryIDs(ctx context.Context, names []string) ([]int64, error) {
	return c.resolveTermIDs(ctx, "categories", names)
}

// ResolveTagIDs maps tag names onto term IDs, creating any that do not exist yet.
func (c *Client) ResolveTagIDs(ctx context.Context, names []string) ([]int64, error) {
	return c.resolveTermIDs(ctx, "tags", names)
}

func (c *Client) resolveTermIDs(ctx context.Context, taxonomy string, names []string) ([]int64, error) {
	if c == nil {
		return nil, errors.New("wordpress: client is nil")
	}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, err := c.findTerm(ctx, taxonomy, name)
		if err != nil {
			return nil, err
		}
		if id == 0 {
			id, err = c.createTerm(ctx, taxonomy, name)
			if err != nil {
				return nil, err
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) findTerm(ctx context.Context, taxonomy, name string) (int64, error) {
	endpoint, err := url.Parse(c.endpoint(taxonomy))
	if err != nil {
		return 0, fmt.Errorf("wordpress: parse %s endpoint: %w", taxonomy, err)
	}
	params := url.Values{}
	params.Set("search", name)
	params.Set("per_page", "100")
	endpoint.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("wordpress: build %s search request: %w", taxonomy, err)
	}
	c.applyAuth(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("wordpress: %s search failed: %w", taxonomy, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, responseError("search "+taxonomy, resp)
	}

	var terms []termResponse
	if err := json.NewDecoder(resp.Body).Decode(&terms); err != nil {
		return 0, fmt.Errorf("wordpress: decode %s search response: %w", taxonomy, err)
	}
	for _, term := range terms {
		if strings.EqualFold(term.Name, name) {
			return term.ID, nil
		}
	}
	return 0, nil
}

func (c *Client) createTerm(ctx context.Context, taxonomy, name string) (int64, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return 0, fmt.Errorf("wordpress: encode %s create request: %w", taxonomy, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(taxonomy), bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("wordpress: build %s create request: %w", taxonomy, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.applyAuth(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("wordpress: %s create failed: %w", taxonomy, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, responseError("create "+taxonomy, resp)
	}

	var term termResponse
	if err := json.NewDecoder(resp.Body).Decode(&term); err != nil {
		return 0, fmt.Errorf("wordpress: decode %s create response: %w", taxonomy, err)
	}
	if term.ID == 0 {
		return 0, fmt.Errorf("wordpress: %s create response missing term id", taxonomy)
	}
	return term.ID, nil
}

func (c *Client) submitPost(ctx context.Context, endpoint, operation string, req PostRequest) (Post, error) {
	payload := map[string]any{}
	if req.Title != "" {
		payload["title"] = req.Title
	}
	if req.Content != "" {
		payload["content"] = req.Content
	}
	if req.Excerpt != "" {
		payload["excerpt"] = req.Excerpt
	}
	if req.Status != "" {
		payload["status"] = req.Status
	}
	if req.Date != nil {
		payload["date_gmt"] = req.Date.UTC().Format("2006-01-02T15:04:05")
	}
	if len(req.Categories) > 0 {
		payload["categories"] = req.Categories
	}
	if len(req.Tags) > 0 {
		payload["tags"] = req.Tags
	}
	if req.FeaturedMedia > 0 {
		payload["featured_media"] = req.FeaturedMedia
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Post{}, fmt.Errorf("wordpress: encode %s request: %w", operation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Post{}, fmt.Errorf("wordpress: build %s request: %w", operation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.applyAuth(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Post{}, fmt.Errorf("wordpress: %s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Post{}, responseError(operation, resp)
	}

	var payloadResp postResponse
	if err := json.NewDecoder(resp.Body).Decode(&payloadResp); err != nil {
		return Post{}, fmt.Errorf("wordpress: decode %s response: %w", operation, err)
	}
	if payloadResp.ID == 0 {
		return Post{}, fmt.Errorf("wordpress: %s response missing post id", operation)
	}
	return Post{ID: payloadResp.ID, Link: payloadResp.Link, Status: payloadResp.Status}, nil
}

func (c *Client) endpoint(parts ...string) string {
	segments := append([]string{"wp-json", "wp", "v2"}, parts...)
	return c.baseURL.JoinPath(segments...).String()
}

func (c *Client) applyAuth(req *http.Request) {
	req.SetBasicAuth(c.username, c.appPassword)
	req.Header.Set("Accept", "application/json")
}

func responseError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("wordpress: %s failed (%s): %s", operation, resp.Status, strings.TrimSpace(string(body)))
}

type mediaResponse struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

type postResponse struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

type termResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
