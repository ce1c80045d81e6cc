package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-autoparts-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4.1"

// fallbackModels is the rotation order when a model hits its rate limit.
var fallbackModels = []string{
	"gpt-5",
	"gpt-5-mini",
	"gpt-4.1",
	"gpt-4.1-mini",
	"gpt-4o",
	"gpt-4o-mini",
}

const maxRetries = 5

// ErrAPILimitExceeded is returned when every fallback model is rate limited.
var ErrAPILimitExceeded = errors.New("api limit reached, no alternative models available")

type OpenAIProvider struct {
	client       *goopenai.Client
	defaultModel string

	// sleep is swappable for tests
	sleep func(time.Duration)
}

// Ensure OpenAIProvider implements Provider
var _ llm.Provider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultModel
	}
	return &OpenAIProvider{
		client:       goopenai.NewClient(apiKey),
		defaultModel: model,
		sleep:        time.Sleep,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.5,
	}
	for _, opt := range opts {
		opt(options)
	}

	model := p.defaultModel
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		messages[i] = toOpenAIMessage(msg)
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
		TopP:        0.5,
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	return p.invokeWithFallback(ctx, req)
}

// invokeWithFallback retries transient failures with linear backoff and
// rotates to an alternative model when the current one is rate limited.
func (p *OpenAIProvider) invokeWithFallback(ctx context.Context, req goopenai.ChatCompletionRequest) (string, error) {
	failed := map[string]bool{}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", errors.New("openai returned no choices")
			}
			return resp.Choices[0].Message.Content, nil
		}

		log.Printf("[WARN] OpenAI invoke failed (model %s): %v", req.Model, err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if strings.Contains(strings.ToLower(err.Error()), "rate limit") {
			failed[req.Model] = true
			next := nextModel(failed)
			if next == "" {
				return "", ErrAPILimitExceeded
			}
			log.Printf("[INFO] Switching to fallback model: %s", next)
			req.Model = next
		}

		if attempt == maxRetries {
			return "", fmt.Errorf("openai invoke failed after %d retries: %w", maxRetries, err)
		}

		delay := time.Duration(attempt+1) * 10 * time.Second
		log.Printf("[INFO] Retrying OpenAI call in %s (attempt #%d)", delay, attempt+1)
		p.sleep(delay)
	}

	return "", ErrAPILimitExceeded
}

func nextModel(failed map[string]bool) string {
	for _, m := range fallbackModels {
		if !failed[m] {
			return m
		}
	}
	return ""
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (p *OpenAIProvider) AnalyzeImage(ctx context.Context, image []byte, instructions string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{
		Role:    "user",
		Content: instructions,
		Images:  [][]byte{image},
	}}, opts...)
}

func toOpenAIMessage(msg llm.Message) goopenai.ChatCompletionMessage {
	role := msg.Role
	if role == "model" {
		role = "assistant"
	}

	if len(msg.Images) == 0 {
		return goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	parts := []goopenai.ChatMessagePart{
		{
			Type: goopenai.ChatMessagePartTypeText,
			Text: msg.Content,
		},
	}
	for _, img := range msg.Images {
		encoded := base64.StdEncoding.EncodeToString(img)
		parts = append(parts, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{
				URL: "data:image/jpeg;base64," + encoded,
			},
		})
	}

	return goopenai.ChatCompletionMessage{
		Role:         role,
		MultiContent: parts,
	}
}
