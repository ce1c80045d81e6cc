package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchAllAlignsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ok"):
			w.Write([]byte("image-bytes"))
		case strings.HasSuffix(r.URL.Path, "/missing"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Write([]byte("other"))
		}
	}))
	defer srv.Close()

	d := NewDownloader(4)
	urls := []string{
		srv.URL + "/ok",
		srv.URL + "/missing",
		"",
		srv.URL + "/third",
	}

	results := d.FetchAll(context.Background(), urls)

	assert.Len(t, results, len(urls), "one slot per input URL")
	assert.Equal(t, []byte("image-bytes"), results[0])
	assert.Nil(t, results[1], "failed download yields nil, not an error")
	assert.Nil(t, results[2], "empty URL yields nil")
	assert.Equal(t, []byte("other"), results[3])
}

func TestFetchAllEmptyInput(t *testing.T) {
	d := NewDownloader(0) // out-of-range worker count falls back to the cap
	results := d.FetchAll(context.Background(), nil)
	assert.Empty(t, results)
}

func TestSearchImagesParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google_images", r.URL.Query().Get("engine"))
		assert.Equal(t, "brake caliper", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{
			"search_metadata": {"status": "Success"},
			"images_results": [
				{"position": 1, "title": "Caliper", "original": "https://img.example/1.png"},
				{"position": 2, "title": "Rotor", "original": "https://img.example/2.png"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL

	results, err := c.SearchImages(context.Background(), "brake caliper")
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "https://img.example/1.png", results[0].Original)
}

func TestSearchImagesRejectsEmptyQuery(t *testing.T) {
	c := NewClient("test-key")
	_, err := c.SearchImages(context.Background(), "")
	assert.Error(t, err)
}

func TestReverseImageSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google_reverse_image", r.URL.Query().Get("engine"))
		assert.Equal(t, "https://host/img.jpg", r.URL.Query().Get("image_url"))
		assert.Equal(t, "automotive", r.URL.Query().Get("q"))
		w.Write([]byte(`{
			"search_metadata": {"status": "Success"},
			"image_results": [
				{"position": 1, "title": "Part page", "link": "https://shop.example", "thumbnail": "https://t.example/1.jpg", "snippet": "OEM part"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL

	results, err := c.ReverseImageSearch(context.Background(), "https://host/img.jpg", "automotive")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Part page", results[0].Title)
}
