package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/pkg/logger"
	"ai-autoparts-be/pkg/events"
	pktNats "ai-autoparts-be/pkg/nats"
	"ai-autoparts-be/pkg/uploads"
	"ai-autoparts-be/pkg/websearch"

	"github.com/google/uuid"
)

type IReverseImageService interface {
	SearchByImage(ctx context.Context, image []byte, ext, query string) (*dto.ReverseImageResponse, error)
}

type reverseImageService struct {
	search           *websearch.Client
	downloader       *websearch.Downloader
	store            *uploads.Store
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewReverseImageService(
	search *websearch.Client,
	downloader *websearch.Downloader,
	store *uploads.Store,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IReverseImageService {
	return &reverseImageService{
		search:           search,
		downloader:       downloader,
		store:            store,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

// SearchByImage stores the uploaded photo under a public URL, runs a reverse
// image search against it and returns the matching pages. The upload stays on
// disk until the periodic cleanup collects it, since the search engine may
// re-fetch the URL shortly after responding.
func (s *reverseImageService) SearchByImage(ctx context.Context, image []byte, ext, query string) (*dto.ReverseImageResponse, error) {
	publicURL, err := s.store.Save(image, ext)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	results, err := s.search.ReverseImageSearch(ctx, publicURL, query)
	if err != nil {
		// The upload is useless once the search failed; best effort removal,
		// the periodic sweep catches leftovers.
		_ = s.store.Remove(publicURL)
		return nil, err
	}

	// thumbnails are fetched concurrently; a failed download just leaves the
	// slot empty
	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.Thumbnail
	}
	thumbs := s.downloader.FetchAll(ctx, urls)

	matches := make([]dto.ReverseImageMatch, len(results))
	for i, r := range results {
		match := dto.ReverseImageMatch{
			Position:  r.Position,
			Title:     r.Title,
			Link:      r.Link,
			Source:    r.Source,
			Snippet:   r.Snippet,
			Thumbnail: r.Thumbnail,
		}
		if thumbs[i] != nil {
			match.ThumbnailData = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(thumbs[i])
		}
		matches[i] = match
	}

	s.log.Info("reverse_image", "reverse search completed", map[string]interface{}{
		"imageUrl": publicURL,
		"matches":  len(matches),
	})

	s.recordSearch(ctx, query, publicURL, len(matches))

	if s.eventPublisher != nil {
		evt := events.NewImageSearchPerformed(uuid.NewString(), query, entity.LookupKindReverseImage, len(matches))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish IMAGE_SEARCH_PERFORMED event: %v\n", err)
		}
	}

	return &dto.ReverseImageResponse{
		ImageUrl: publicURL,
		Matches:  matches,
	}, nil
}

func (s *reverseImageService) recordSearch(ctx context.Context, query, imageURL string, matchCount int) {
	result, _ := json.Marshal(map[string]interface{}{
		"image_url":   imageURL,
		"match_count": matchCount,
	})
	msg := dto.LookupCompletedMessage{
		Kind:   entity.LookupKindReverseImage,
		Query:  query,
		Status: "SUCCESS",
		Result: result,
	}
	payload, _ := json.Marshal(msg)
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("reverse_image", "failed to queue lookup history", map[string]interface{}{"error": err.Error()})
	}
}
