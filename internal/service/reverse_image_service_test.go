package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"ai-autoparts-be/pkg/uploads"
	"ai-autoparts-be/pkg/websearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReverseSearchServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var ts *httptest.Server
	mux.HandleFunc("/thumb/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("thumb-bytes"))
	})
	mux.HandleFunc("/thumb/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"search_metadata": {"status": "Success"},
			"image_results": [
				{"position": 1, "title": "Brake caliper listing", "link": "https://shop.example/caliper",
				 "source": "shop.example", "snippet": "front caliper", "thumbnail": "` + ts.URL + `/thumb/ok"},
				{"position": 2, "title": "Forum thread", "link": "https://forum.example/t/1",
				 "source": "forum.example", "snippet": "which caliper fits", "thumbnail": "` + ts.URL + `/thumb/gone"}
			]
		}`))
	})
	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestReverseService(t *testing.T, baseURL, uploadsDir string) IReverseImageService {
	t.Helper()
	search := websearch.NewClient("test-key")
	search.BaseURL = baseURL

	store, err := uploads.NewStore(uploadsDir, "http://localhost/uploads")
	require.NoError(t, err)

	return NewReverseImageService(
		search,
		websearch.NewDownloader(2),
		store,
		&capturingPublisher{},
		nil,
		testLogger{},
	)
}

func TestReverseImageSearchEnrichesMatchesWithThumbnails(t *testing.T) {
	ts := newReverseSearchServer(t)
	dir := t.TempDir()
	svc := newTestReverseService(t, ts.URL, dir)

	res, err := svc.SearchByImage(context.Background(), []byte("fake-jpeg"), ".jpg", "automotive")
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)

	first := res.Matches[0]
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, "Brake caliper listing", first.Title)
	assert.Equal(t, ts.URL+"/thumb/ok", first.Thumbnail)
	decoded, err := base64.StdEncoding.DecodeString(
		first.ThumbnailData[len("data:image/jpeg;base64,"):])
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb-bytes"), decoded)

	// The failed download leaves the slot empty, the match itself survives.
	second := res.Matches[1]
	assert.Equal(t, 2, second.Position)
	assert.Empty(t, second.ThumbnailData)

	// The upload stays until the periodic sweep collects it.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReverseImageSearchRemovesUploadOnFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	svc := newTestReverseService(t, ts.URL, dir)

	_, err := svc.SearchByImage(context.Background(), []byte("fake-jpeg"), ".jpg", "")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
