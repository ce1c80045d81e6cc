package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/pkg/logger"
	"ai-autoparts-be/pkg/events"
	pktNats "ai-autoparts-be/pkg/nats"
	"ai-autoparts-be/pkg/websearch"

	"github.com/google/uuid"
)

const defaultImageSearchLimit = 10

type IImageSearchService interface {
	Search(ctx context.Context, req *dto.ImageSearchRequest) (*dto.ImageSearchResponse, error)
}

type imageSearchService struct {
	search           *websearch.Client
	downloader       *websearch.Downloader
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewImageSearchService(
	search *websearch.Client,
	downloader *websearch.Downloader,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IImageSearchService {
	return &imageSearchService{
		search:           search,
		downloader:       downloader,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *imageSearchService) Search(ctx context.Context, req *dto.ImageSearchRequest) (*dto.ImageSearchResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultImageSearchLimit
	}

	started := time.Now()
	results, err := s.search.SearchImages(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}

	// thumbnails are fetched concurrently; a failed download just leaves the
	// slot empty
	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.Thumbnail
	}
	thumbs := s.downloader.FetchAll(ctx, urls)

	out := make([]dto.ImageResult, len(results))
	for i, r := range results {
		item := dto.ImageResult{
			Title:     r.Title,
			Source:    r.Source,
			Link:      r.Link,
			Original:  r.Original,
			Thumbnail: r.Thumbnail,
		}
		if thumbs[i] != nil {
			item.ThumbnailData = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(thumbs[i])
		}
		out[i] = item
	}

	s.log.Info("image_search", "search completed", map[string]interface{}{
		"query":    req.Query,
		"results":  len(out),
		"duration": time.Since(started).String(),
	})

	s.recordSearch(ctx, req.Query, len(out))

	if s.eventPublisher != nil {
		evt := events.NewImageSearchPerformed(uuid.NewString(), req.Query, entity.LookupKindImageSearch, len(out))
		// auxiliary, never fails the request
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish IMAGE_SEARCH_PERFORMED event: %v\n", err)
		}
	}

	return &dto.ImageSearchResponse{
		Query:   req.Query,
		Results: out,
	}, nil
}

// recordSearch queues a slim history record; thumbnail payloads stay out of
// the database.
func (s *imageSearchService) recordSearch(ctx context.Context, query string, resultCount int) {
	result, _ := json.Marshal(map[string]int{"result_count": resultCount})
	msg := dto.LookupCompletedMessage{
		Kind:   entity.LookupKindImageSearch,
		Query:  query,
		Status: "SUCCESS",
		Result: result,
	}
	payload, _ := json.Marshal(msg)
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("image_search", "failed to queue lookup history", map[string]interface{}{"error": err.Error()})
	}
}
