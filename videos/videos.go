// Package videos is the video catalog client: listing, category grouping,
// and HLS stream addressing against the backend's /video/ surface.
package videos

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/videoflix/videoflix-client/api"
)

// Video is a catalog entry as returned by the backend.
type Video struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	ThumbnailURL *string `json:"thumbnail_url"`
	CreatedAt    string  `json:"created_at"`
}

// CategoryGroup holds the videos of one category together with the
// user-facing category name.
type CategoryGroup struct {
	Name        string
	DisplayName string
	Videos      []Video
}

// Quality describes one HLS rendition of a video.
type Quality struct {
	Resolution string
	Label      string
	URL        string
}

// Resolutions lists the renditions every video is transcoded to, lowest
// first.
var Resolutions = []string{"360p", "480p", "720p", "1080p"}

// DefaultResolution is used when no explicit rendition is requested.
const DefaultResolution = "720p"

var qualityLabels = map[string]string{
	"360p":  "SD 360p",
	"480p":  "SD 480p",
	"720p":  "HD 720p",
	"1080p": "Full HD 1080p",
}

var categoryDisplayNames = map[string]string{
	"action":      "Action",
	"drama":       "Drama",
	"comedy":      "Komödie",
	"romance":     "Romantik",
	"thriller":    "Thriller",
	"documentary": "Dokumentation",
	"animation":   "Animation",
}

// Service is the catalog client.
type Service struct {
	api *api.Client
	log zerolog.Logger
}

// Option defines a function type to modify the Service instance.
type Option func(*Service)

// WithLogger sets the structured logger (defaults to a no-op logger).
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the catalog client on top of the shared HTTP client.
func NewService(client *api.Client, options ...Option) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("videos.NewService: nil api client")
	}
	s := &Service{api: client, log: zerolog.Nop()}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// List fetches the full catalog.
func (s *Service) List(ctx context.Context) ([]Video, error) {
	var videos []Video
	if err := s.api.Get(ctx, "/video/", &videos); err != nil {
		return nil, fmt.Errorf("videos.Service.List: %w", err)
	}
	s.log.Debug().Int("count", len(videos)).Msg("fetched video catalog")
	return videos, nil
}

// ByCategory fetches the catalog grouped by category. Groups appear in the
// order their category first occurs in the listing, and each group keeps
// its videos in listing order.
func (s *Service) ByCategory(ctx context.Context) ([]CategoryGroup, error) {
	videos, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(videos), nil
}

// GroupByCategory groups an already-fetched listing, preserving first-seen
// category order.
func GroupByCategory(videos []Video) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup

	for _, video := range videos {
		i, ok := index[video.Category]
		if !ok {
			i = len(groups)
			index[video.Category] = i
			groups = append(groups, CategoryGroup{
				Name:        video.Category,
				DisplayName: CategoryDisplayName(video.Category),
			})
		}
		groups[i].Videos = append(groups[i].Videos, video)
	}
	return groups
}

// CategoryDisplayName maps a backend category key to its user-facing name.
// Unknown categories are title-cased as a fallback.
func CategoryDisplayName(category string) string {
	if name, ok := categoryDisplayNames[category]; ok {
		return name
	}
	if category == "" {
		return category
	}
	return strings.ToUpper(category[:1]) + category[1:]
}

// HLSURL builds the manifest URL for one rendition of a video, e.g.
// {base}/video/5/720p/index.m3u8.
func (s *Service) HLSURL(videoID int64, resolution string) string {
	if resolution == "" {
		resolution = DefaultResolution
	}
	return fmt.Sprintf("%s/video/%d/%s/index.m3u8", s.api.BaseURL(), videoID, resolution)
}

// AvailableQualities lists every rendition of a video with its manifest
// URL, lowest resolution first.
func (s *Service) AvailableQualities(videoID int64) []Quality {
	qualities := make([]Quality, 0, len(Resolutions))
	for _, resolution := range Resolutions {
		qualities = append(qualities, Quality{
			Resolution: resolution,
			Label:      qualityLabels[resolution],
			URL:        s.HLSURL(videoID, resolution),
		})
	}
	return qualities
}
