package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/pkg/logger"
	"ai-autoparts-be/pkg/llm"
	"ai-autoparts-be/pkg/prompts"
	"ai-autoparts-be/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const (
	photoAnalysisWorkers        = 5
	photoAnalysisResultsPerPart = 5
	unidentifiedPart            = "unknown"
)

type IPhotoAnalysisService interface {
	Analyze(ctx context.Context, image []byte) (*dto.PhotoAnalysisResponse, error)
}

type photoAnalysisService struct {
	llmProvider llm.Provider
	imageSearch IImageSearchService
	log         logger.ILogger
}

func NewPhotoAnalysisService(
	llmProvider llm.Provider,
	imageSearch IImageSearchService,
	log logger.ILogger,
) IPhotoAnalysisService {
	return &photoAnalysisService{
		llmProvider: llmProvider,
		imageSearch: imageSearch,
		log:         log,
	}
}

// Analyze detects the automotive parts visible in a photo, then confirms each
// detection against catalog image search results. Parts the model cannot
// confirm come back as "unknown" rather than failing the whole request.
func (s *photoAnalysisService) Analyze(ctx context.Context, image []byte) (*dto.PhotoAnalysisResponse, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image payload is empty")
	}

	parts, err := s.detectParts(ctx, image)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PhotoAnalysisMatch, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(photoAnalysisWorkers)
	for i, part := range parts {
		g.Go(func() error {
			out[i] = s.identifyPart(gctx, image, part)
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("photo_analysis", "analysis completed", map[string]interface{}{
		"detected": len(parts),
	})

	return &dto.PhotoAnalysisResponse{Parts: out}, nil
}

func (s *photoAnalysisService) detectParts(ctx context.Context, image []byte) ([]string, error) {
	prompt, err := prompts.Get(prompts.DetectObjects)
	if err != nil {
		return nil, err
	}

	response, err := s.llmProvider.AnalyzeImage(ctx, image, prompt)
	if err != nil {
		return nil, fmt.Errorf("object detection failed: %w", err)
	}

	content, err := utils.ParseXMLTag(response, "parts")
	if err != nil {
		// an answer without the tag means nothing was detected
		return nil, nil
	}

	var parts []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return parts, nil
}

// identifyPart runs an image search for the detected part and asks the model
// whether the results show the same kind of part as the customer's photo.
func (s *photoAnalysisService) identifyPart(ctx context.Context, image []byte, partName string) dto.PhotoAnalysisMatch {
	match := dto.PhotoAnalysisMatch{PartName: partName, IdentifiedPart: unidentifiedPart}

	res, err := s.imageSearch.Search(ctx, &dto.ImageSearchRequest{
		Query: "automotive " + partName,
		Limit: photoAnalysisResultsPerPart,
	})
	if err != nil {
		s.log.Warn("photo_analysis", "part search failed", map[string]interface{}{
			"part":  partName,
			"error": err.Error(),
		})
		return match
	}

	references := decodeThumbnails(res.Results)
	if len(references) == 0 {
		return match
	}

	verified, err := s.verifyMatch(ctx, image, references, partName)
	if err != nil {
		s.log.Warn("photo_analysis", "part verification failed", map[string]interface{}{
			"part":  partName,
			"error": err.Error(),
		})
		return match
	}
	if verified {
		match.IdentifiedPart = partName
	}
	return match
}

func (s *photoAnalysisService) verifyMatch(ctx context.Context, image []byte, references [][]byte, partName string) (bool, error) {
	prompt, err := prompts.Render(prompts.VerifyMatch, map[string]string{"part": partName})
	if err != nil {
		return false, err
	}
	systemPrompt, err := prompts.Get(prompts.System)
	if err != nil {
		return false, err
	}

	// customer photo first, then the search results, matching the order the
	// prompt describes
	images := make([][]byte, 0, len(references)+1)
	images = append(images, image)
	images = append(images, references...)

	response, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt, Images: images},
	})
	if err != nil {
		return false, err
	}

	answer, err := utils.ParseXMLTag(response, "ans")
	if err != nil {
		return false, nil
	}
	return strings.EqualFold(answer, "YES"), nil
}

// decodeThumbnails strips the data URI prefix the search service puts on
// downloaded thumbnails and returns the raw bytes.
func decodeThumbnails(results []dto.ImageResult) [][]byte {
	var out [][]byte
	for _, r := range results {
		_, encoded, ok := strings.Cut(r.ThumbnailData, ";base64,")
		if !ok {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(data) == 0 {
			continue
		}
		out = append(out, data)
	}
	return out
}
