package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-autoparts-be/internal/dto"
)

type fakeImageSearch struct {
	mu        sync.Mutex
	responses map[string]*dto.ImageSearchResponse
	err       error
	queries   []string
}

func (f *fakeImageSearch) Search(_ context.Context, req *dto.ImageSearchRequest) (*dto.ImageSearchResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, req.Query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if res, ok := f.responses[req.Query]; ok {
		return res, nil
	}
	return &dto.ImageSearchResponse{Query: req.Query}, nil
}

func thumbnailURI(data string) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(data))
}

func searchResponse(query string, thumbnails ...string) *dto.ImageSearchResponse {
	res := &dto.ImageSearchResponse{Query: query}
	for _, th := range thumbnails {
		res.Results = append(res.Results, dto.ImageResult{Title: query, ThumbnailData: th})
	}
	return res
}

// analyzerLLM detects a fixed part list and confirms only parts whose name
// appears in confirmed.
func analyzerLLM(detected string, confirmed ...string) *scriptedLLM {
	return &scriptedLLM{fn: func(prompt string, images [][]byte) (string, error) {
		if strings.Contains(prompt, "search results for") {
			for _, part := range confirmed {
				if strings.Contains(prompt, part) {
					return "<ans>YES</ans>", nil
				}
			}
			return "<ans>NO</ans>", nil
		}
		return detected, nil
	}}
}

func TestAnalyzeIdentifiesVerifiedParts(t *testing.T) {
	photo := []byte("customer-photo")
	provider := analyzerLLM(
		"<parts>\nbrake caliper\nalternator\nmystery widget\n</parts>",
		"brake caliper",
	)
	search := &fakeImageSearch{responses: map[string]*dto.ImageSearchResponse{
		"automotive brake caliper": searchResponse("automotive brake caliper", thumbnailURI("ref-1"), thumbnailURI("ref-2")),
		"automotive alternator":    searchResponse("automotive alternator", thumbnailURI("ref-3")),
		// downloads failed for every result, nothing to verify against
		"automotive mystery widget": searchResponse("automotive mystery widget", "", ""),
	}}

	svc := NewPhotoAnalysisService(provider, search, testLogger{})
	res, err := svc.Analyze(context.Background(), photo)
	require.NoError(t, err)
	require.Len(t, res.Parts, 3)

	// detection order is preserved
	assert.Equal(t, dto.PhotoAnalysisMatch{PartName: "brake caliper", IdentifiedPart: "brake caliper"}, res.Parts[0])
	assert.Equal(t, dto.PhotoAnalysisMatch{PartName: "alternator", IdentifiedPart: "unknown"}, res.Parts[1])
	assert.Equal(t, dto.PhotoAnalysisMatch{PartName: "mystery widget", IdentifiedPart: "unknown"}, res.Parts[2])

	assert.ElementsMatch(t, []string{
		"automotive brake caliper",
		"automotive alternator",
		"automotive mystery widget",
	}, search.queries)
}

func TestAnalyzeSendsPhotoAndReferencesToVerifier(t *testing.T) {
	photo := []byte("customer-photo")
	var verifyImages [][]byte
	provider := &scriptedLLM{fn: func(prompt string, images [][]byte) (string, error) {
		if strings.Contains(prompt, "search results for") {
			verifyImages = images
			return "<ans>YES</ans>", nil
		}
		return "<parts>\nbrake caliper\n</parts>", nil
	}}
	search := &fakeImageSearch{responses: map[string]*dto.ImageSearchResponse{
		"automotive brake caliper": searchResponse("automotive brake caliper", thumbnailURI("ref-1"), thumbnailURI("ref-2")),
	}}

	svc := NewPhotoAnalysisService(provider, search, testLogger{})
	_, err := svc.Analyze(context.Background(), photo)
	require.NoError(t, err)

	// customer photo first, then the decoded search thumbnails
	require.Len(t, verifyImages, 3)
	assert.Equal(t, photo, verifyImages[0])
	assert.Equal(t, []byte("ref-1"), verifyImages[1])
	assert.Equal(t, []byte("ref-2"), verifyImages[2])
}

func TestAnalyzeNothingDetected(t *testing.T) {
	provider := &scriptedLLM{response: "<parts></parts>"}
	search := &fakeImageSearch{}

	svc := NewPhotoAnalysisService(provider, search, testLogger{})
	res, err := svc.Analyze(context.Background(), []byte("photo"))
	require.NoError(t, err)
	assert.Empty(t, res.Parts)
	assert.Empty(t, search.queries)
}

func TestAnalyzeSearchFailureDowngradesToUnknown(t *testing.T) {
	provider := analyzerLLM("<parts>\nbrake caliper\n</parts>", "brake caliper")
	search := &fakeImageSearch{err: errors.New("search backend down")}

	svc := NewPhotoAnalysisService(provider, search, testLogger{})
	res, err := svc.Analyze(context.Background(), []byte("photo"))
	require.NoError(t, err)
	require.Len(t, res.Parts, 1)
	assert.Equal(t, "unknown", res.Parts[0].IdentifiedPart)
}

func TestAnalyzeEmptyImage(t *testing.T) {
	svc := NewPhotoAnalysisService(&scriptedLLM{}, &fakeImageSearch{}, testLogger{})
	_, err := svc.Analyze(context.Background(), nil)
	assert.Error(t, err)
}

func TestDecodeThumbnails(t *testing.T) {
	results := []dto.ImageResult{
		{ThumbnailData: thumbnailURI("ref-1")},
		{ThumbnailData: ""},
		{ThumbnailData: "data:image/jpeg;base64,not-base64!!"},
		{ThumbnailData: thumbnailURI("ref-2")},
	}
	decoded := decodeThumbnails(results)
	require.Len(t, decoded, 2)
	assert.Equal(t, []byte("ref-1"), decoded[0])
	assert.Equal(t, []byte("ref-2"), decoded[1])
}
