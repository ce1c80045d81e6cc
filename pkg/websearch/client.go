package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://serpapi.com"

// Client talks to the SerpAPI search engine endpoints used by the agents:
// google_images for keyword image search and google_reverse_image for
// reverse lookups by public image URL.
type Client struct {
	BaseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ImageResult is one entry of a google_images response.
type ImageResult struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	Source    string `json:"source"`
	Link      string `json:"link"`
}

// ReverseResult is one entry of a google_reverse_image response.
type ReverseResult struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Thumbnail string `json:"thumbnail"`
	Snippet   string `json:"snippet"`
}

type searchMetadata struct {
	Status string `json:"status"`
}

type imagesResponse struct {
	SearchMetadata searchMetadata `json:"search_metadata"`
	ImagesResults  []ImageResult  `json:"images_results"`
}

type reverseResponse struct {
	SearchMetadata searchMetadata  `json:"search_metadata"`
	ImageResults   []ReverseResult `json:"image_results"`
}

// SearchImages runs a keyword image search. The engine returns up to 100
// results per request; pagination is not implemented.
func (c *Client) SearchImages(ctx context.Context, query string) ([]ImageResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Set("engine", "google_images")
	params.Set("q", query)

	var resp imagesResponse
	if err := c.search(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}

	return resp.ImagesResults, nil
}

// ReverseImageSearch looks up pages containing an image reachable at
// imageURL. The optional query contextualizes results (e.g. "automotive").
func (c *Client) ReverseImageSearch(ctx context.Context, imageURL, query string) ([]ReverseResult, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("image URL cannot be empty")
	}

	params := url.Values{}
	params.Set("engine", "google_reverse_image")
	params.Set("image_url", imageURL)
	params.Set("hl", "en")
	if query != "" {
		params.Set("q", query)
	}

	var resp reverseResponse
	if err := c.search(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("reverse image search failed: %w", err)
	}

	if resp.SearchMetadata.Status != "" && resp.SearchMetadata.Status != "Success" {
		// The engine reports processing problems in-band; surface them but
		// still hand back whatever results came with the response.
		fmt.Printf("Warning: search status: %s\n", resp.SearchMetadata.Status)
	}

	return resp.ImageResults, nil
}

func (c *Client) search(ctx context.Context, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("SERPAPI_KEY is not set")
	}
	params.Set("api_key", c.apiKey)

	endpoint := c.BaseURL + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
