package compositor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"log/slog"

	"pressrun/internal/assembler"
	"pressrun/internal/logging"
	"pressrun/internal/media"
	"pressrun/internal/queue"
	"pressrun/internal/services"
	"pressrun/internal/services/wordpress"
	"pressrun/internal/stage"
)

const progressStageComposing = "Composing"

// MediaSource supplies processed image bytes for selected media and reports
// usage back to the image provider.
type MediaSource interface {
	Materialize(ctx context.Context, ref media.ImageRef) (media.ImageRef, error)
	TrackUse(ctx context.Context, ref media.ImageRef)
}

// Uploader stores image bytes with the publisher and returns the assigned
// attachment.
type Uploader interface {
	UploadMedia(ctx context.Context, filename string, data []byte) (wordpress.Media, error)
}

// Stage uploads the item's media and arranges the composed article body.
type Stage struct {
	store    *queue.Store
	source   MediaSource
	uploader Uploader
	logger   *slog.Logger
	now      func() time.Time
}

// NewStage constructs the workflow stage that composes articles for publishing.
func NewStage(store *queue.Store, source MediaSource, uploader Uploader, logger *slog.Logger) *Stage {
	return &Stage{
		store:    store,
		source:   source,
		uploader: uploader,
		logger:   logging.NewComponentLogger(logger, "compositor"),
		now:      time.Now,
	}
}

// SetLogger allows the workflow manager to route stage logs into the item-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "compositor")
}

// Prepare primes queue progress fields before executing the stage.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.uploader == nil || s.source == nil {
		return services.Wrap(services.ErrConfiguration, "compositor", "prepare", "Composition stage is not configured", nil)
	}
	if s.store == nil {
		return services.Wrap(services.ErrConfiguration, "compositor", "prepare", "Queue store unavailable", nil)
	}
	item.InitProgress(progressStageComposing, "Arranging article media")
	return s.store.UpdateProgress(ctx, item)
}

// Execute uploads the selected images, composes the body around the assigned
// media IDs, and stores the result on the item. Images that fail to download
// or upload are skipped so one bad image never sinks the article.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	if s == nil || s.uploader == nil || s.source == nil {
		return services.Wrap(services.ErrConfiguration, "compositor", "execute", "Composition stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "compositor", "execute", "Queue item is nil", nil)
	}

	draft, err := assembler.ParseContent(item.ContentJSON)
	if err != nil {
		return err
	}
	bundle, err := stage.ParseBundle(item.MediaJSON)
	if err != nil {
		return err
	}

	logger := logging.WithContext(ctx, s.logger)
	var mediaIDs []string
	for _, ref := range bundle.Images {
		id, err := s.placeImage(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return services.Wrap(services.ErrTransient, "compositor", "upload image", "Composition interrupted", ctx.Err())
			}
			logger.Warn("image skipped",
				logging.String("url", ref.URL),
				logging.Error(err))
			continue
		}
		mediaIDs = append(mediaIDs, id)
	}

	item.ComposedBody = Compose(draft.Body, mediaIDs, bundle.VideoURL())
	item.FeaturedMediaID = ""
	if len(mediaIDs) > 0 {
		item.FeaturedMediaID = mediaIDs[0]
	}
	item.SetProgressComplete(progressStageComposing, composeMessage(len(mediaIDs), bundle.Video != nil))

	logger.Info("article composed",
		logging.Int("images", len(mediaIDs)),
		logging.Bool("video", bundle.Video != nil))
	return nil
}

// placeImage materializes one image and uploads it, returning the
// publisher-assigned media ID. Usage is reported only for images that
// actually land in the post.
func (s *Stage) placeImage(ctx context.Context, ref media.ImageRef) (string, error) {
	ref, err := s.source.Materialize(ctx, ref)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("image_%s.jpg", s.now().Format("20060102_150405"))
	uploaded, err := s.uploader.UploadMedia(ctx, filename, ref.Content)
	if err != nil {
		return "", services.Wrap(services.ErrPublish, "compositor", "upload image", "Image upload failed", err)
	}
	s.source.TrackUse(ctx, ref)
	return strconv.FormatInt(uploaded.ID, 10), nil
}

func composeMessage(images int, video bool) string {
	if images == 0 && !video {
		return "Composed article without media"
	}
	msg := fmt.Sprintf("Composed article with %d image(s)", images)
	if video {
		msg += " and a video"
	}
	return msg
}

// HealthCheck reports readiness for the composition stage.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "compositor"
	if s == nil || s.uploader == nil || s.source == nil {
		return stage.Unhealthy(name, "stage not configured")
	}
	return stage.Healthy(name)
}
