package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.mistral.ai/v1"
const defaultModel = "mistral-ocr-latest"

// Client wraps the hosted OCR endpoint. It takes raw image bytes and returns
// the recognized text as markdown, one block per detected page.
type Client struct {
	BaseURL string
	Model   string
	apiKey  string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Model:   defaultModel,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type ocrResponse struct {
	Pages []ocrPage `json:"pages"`
}

type ocrPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

// ExtractText runs OCR over a single image and returns the combined text.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image cannot be empty")
	}
	if c.apiKey == "" {
		return "", fmt.Errorf("MISTRAL_API_KEY is not set")
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	payload := ocrRequest{
		Model: c.Model,
		Document: ocrDocument{
			Type:     "image_url",
			ImageURL: "data:image/jpeg;base64," + encoded,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/ocr"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ocrResp ocrResponse
	if err := json.Unmarshal(bodyBytes, &ocrResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	blocks := make([]string, 0, len(ocrResp.Pages))
	for _, page := range ocrResp.Pages {
		if trimmed := strings.TrimSpace(page.Markdown); trimmed != "" {
			blocks = append(blocks, trimmed)
		}
	}

	if len(blocks) == 0 {
		return "", fmt.Errorf("ocr returned no text")
	}

	return strings.Join(blocks, "\n\n"), nil
}
