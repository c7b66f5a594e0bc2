package mediafetch

import (
	"context"
	"strings"

	"log/slog"

	"pressrun/internal/cache"
	"pressrun/internal/config"
	"pressrun/internal/logging"
	"pressrun/internal/media"
	"pressrun/internal/ratelimit"
	"pressrun/internal/services"
	"pressrun/internal/services/unsplash"
	"pressrun/internal/services/youtube"
	"pressrun/internal/textutil"
	"pressrun/internal/topics"
)

// Fetcher selects images and an optional video for a topic. Search and
// download calls toward the image API share one sliding-window limiter.
type Fetcher struct {
	images  *unsplash.Client
	videos  *youtube.Client
	limiter *ratelimit.Limiter
	cache   *cache.Store
	cfg     config.Images
	logger  *slog.Logger
}

// New constructs a Fetcher. videos may be nil when no video API key is
// configured; image search still works and no topic gets a video.
func New(images *unsplash.Client, videos *youtube.Client, limiter *ratelimit.Limiter, imageCache *cache.Store, cfg config.Images, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		images:  images,
		videos:  videos,
		limiter: limiter,
		cache:   imageCache,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "mediafetch"),
	}
}

// FetchBundle returns the media selection for one topic. Upstream failures
// degrade to an empty selection; only context cancellation is returned as
// an error.
func (f *Fetcher) FetchBundle(ctx context.Context, topic topics.Topic) (media.Bundle, error) {
	logger := logging.WithContext(ctx, f.logger)

	var bundle media.Bundle
	images, err := f.searchImages(ctx, topic, logger)
	if err != nil {
		return bundle, err
	}
	bundle.Images = images

	if topic.VideoRequired {
		bundle.Video = f.searchVideo(ctx, topic, logger)
	}
	return bundle, nil
}

func (f *Fetcher) searchImages(ctx context.Context, topic topics.Topic, logger *slog.Logger) ([]media.ImageRef, error) {
	if f.images == nil {
		logger.Debug("image source not configured; continuing without images")
		return nil, nil
	}

	count := f.cfg.PerTopic
	if count <= 0 {
		count = 4
	}
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(topic.PrimaryKeywords)
	photos, err := f.images.SearchPhotos(ctx, query, count*2)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("image search failed; continuing without images",
			logging.String("query", query),
			logging.Error(err))
		return nil, nil
	}

	kept := make([]media.ImageRef, 0, count)
	for _, photo := range photos {
		if photo.Width < f.cfg.MinWidth || photo.Height < f.cfg.MinHeight {
			continue
		}
		description := photo.Description
		if description == "" {
			description = query
		}
		kept = append(kept, media.ImageRef{
			URL:              photo.ImageURL,
			Width:            photo.Width,
			Height:           photo.Height,
			Description:      description,
			Attribution:      photo.PhotographerName,
			DownloadLocation: photo.DownloadLocation,
		})
		if len(kept) == count {
			break
		}
	}

	logger.Info("selected images",
		logging.Int("requested", count),
		logging.Int("candidates", len(photos)),
		logging.Int("selected", len(kept)))
	return kept, nil
}

// searchVideo returns the best video match or nil. A missing client, an
// upstream failure, and zero hits all mean no video.
func (f *Fetcher) searchVideo(ctx context.Context, topic topics.Topic, logger *slog.Logger) *media.Video {
	if f.videos == nil {
		logger.Debug("video source not configured; skipping video")
		return nil
	}

	query := videoQuery(topic)
	videos, err := f.videos.SearchVideos(ctx, query, 1)
	if err != nil {
		logger.Warn("video search failed; continuing without video",
			logging.String("query", query),
			logging.Error(err))
		return nil
	}
	if len(videos) == 0 {
		logger.Info("no video match", logging.String("query", query))
		return nil
	}

	v := videos[0]
	return &media.Video{ID: v.ID, Title: v.Title, URL: v.EmbedURL()}
}

// videoQuery is the topic plus the first two primary keywords.
func videoQuery(topic topics.Topic) string {
	keywords := textutil.SplitKeywords(topic.PrimaryKeywords)
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}
	parts := append([]string{topic.Topic}, keywords...)
	return strings.Join(parts, " ")
}

// Materialize returns the ref with processed JPEG bytes attached, serving
// from the image cache when possible and downloading otherwise.
func (f *Fetcher) Materialize(ctx context.Context, ref media.ImageRef) (media.ImageRef, error) {
	if len(ref.Content) > 0 {
		return ref, nil
	}

	key := ref.CacheKey()
	if f.cache != nil {
		if data, ok := f.cache.ReadBytes(key); ok {
			ref.Content = data
			return ref, nil
		}
	}
	if f.images == nil {
		return ref, services.Wrap(services.ErrConfiguration, "mediafetch", "materialize image", "Image source is not configured", nil)
	}
	if err := f.wait(ctx); err != nil {
		return ref, err
	}

	raw, err := f.images.Download(ctx, ref.URL)
	if err != nil {
		return ref, services.Wrap(services.ErrUpstream, "mediafetch", "download image", "Image download failed", err)
	}
	processed, err := media.ProcessImage(raw, f.cfg.MaxWidth, f.cfg.Quality)
	if err != nil {
		return ref, services.Wrap(services.ErrUpstream, "mediafetch", "process image", "Image payload is not a decodable image", err)
	}
	ref.Content = processed

	if f.cache != nil {
		if err := f.cache.WriteBytes(key, processed); err != nil {
			logging.WithContext(ctx, f.logger).Warn("caching processed image failed",
				logging.String("url", ref.URL),
				logging.Error(err))
		}
	}
	return ref, nil
}

// TrackUse reports a download event for an image that ends up in a post.
// Failures are logged and swallowed.
func (f *Fetcher) TrackUse(ctx context.Context, ref media.ImageRef) {
	if f == nil || f.images == nil || strings.TrimSpace(ref.DownloadLocation) == "" {
		return
	}
	if err := f.images.TrackDownload(ctx, ref.DownloadLocation); err != nil {
		logging.WithContext(ctx, f.logger).Warn("download tracking failed",
			logging.String("download_location", ref.DownloadLocation),
			logging.Error(err))
	}
}

func (f *Fetcher) wait(ctx context.Context) error {
	if f.limiter == nil {
		return nil
	}
	return f.limiter.Wait(ctx)
}
