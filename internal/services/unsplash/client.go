package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.unsplash.com"
	defaultHTTPTimeout = 30 * time.Second
)

// Config describes the Unsplash client configuration.
type Config struct {
	AccessKey  string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the Unsplash search and download endpoints.
type Client struct {
	accessKey string
	baseURL   *url.URL
	http      *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	accessKey := strings.TrimSpace(cfg.AccessKey)
	if accessKey == "" {
		return nil, errors.New("unsplash: access key is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("unsplash: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		accessKey: accessKey,
		baseURL:   baseURL,
		http:      client,
	}, nil
}

// Photo is one search result candidate.
type Photo struct {
	ID               string
	Width            int
	Height           int
	Description      string
	PhotographerName string
	ImageURL         string
	DownloadLocation string
}

// SearchPhotos queries the photo search endpoint for landscape candidates.
func (c *Client) SearchPhotos(ctx context.Context, query string, perPage int) ([]Photo, error) {
	if c == nil {
		return nil, errors.New("unsplash: client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("unsplash: query is required")
	}
	if perPage <= 0 {
		perPage = 10
	}

	endpoint := c.baseURL.JoinPath("search", "photos")
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("orientation", "landscape")
	endpoint.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash: build search request: %w", err)
	}
	c.applyHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("unsplash: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unsplash: search failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("unsplash: decode search response: %w", err)
	}

	photos := make([]Photo, 0, len(payload.Results))
	for _, entry := range payload.Results {
		imageURL := entry.URLs.Raw
		if imageURL == "" {
			imageURL = entry.URLs.Full
		}
		if imageURL == "" {
			continue
		}
		description := entry.Description
		if description == "" {
			description = entry.AltDescription
		}
		photos = append(photos, Photo{
			ID:               entry.ID,
			Width:            entry.Width,
			Height:           entry.Height,
			Description:      description,
			PhotographerName: entry.User.Name,
			ImageURL:         imageURL,
			DownloadLocation: entry.Links.DownloadLocation,
		})
	}
	return photos, nil
}

// Download fetches the raw image bytes for a photo.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("unsplash: client is nil")
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, errors.New("unsplash: image url is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash: build download request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("unsplash: download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unsplash: download failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unsplash: read image data: %w", err)
	}
	return data, nil
}

// TrackDownload notifies the API that a photo was used. The Unsplash terms
// require hitting the download_location link before publishing a photo.
func (c *Client) TrackDownload(ctx context.Context, downloadLocation string) error {
	if c == nil {
		return errors.New("unsplash: client is nil")
	}
	if strings.TrimSpace(downloadLocation) == "" {
		return nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadLocation, nil)
	if err != nil {
		return fmt.Errorf("unsplash: build track request: %w", err)
	}
	c.applyHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("unsplash: track request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unsplash: track download failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")
}

type searchResponse struct {
	Results []struct {
		ID             string `json:"id"`
		Width          int    `json:"width"`
		Height         int    `json:"height"`
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Raw  string `json:"raw"`
			Full string `json:"full"`
		} `json:"urls"`
		Links struct {
			DownloadLocation string `json:"download_location"`
		} `json:"links"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}
