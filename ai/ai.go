package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"finopschat/cache"
)

// Generator is the seam between the agentic pipeline and the external
// reasoning service. The live implementation is AIService; tests substitute
// a deterministic stub.
type Generator interface {
	// GenerateJSON sends a system+user prompt pair and returns the model's
	// reply, which is required to be a single JSON object.
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type AIService struct {
	apiKey             string
	modelName          string
	cache              *cache.Cache
	httpClient         *http.Client
	apiURL             string
	lastRequestTime    time.Time // Track last request time for rate limiting
	requestMutex       sync.Mutex
	minRequestInterval time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
	MaxTokens int `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

func New(apiKey string, modelName string, baseURL string, cache *cache.Cache) (*AIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AI API key is required")
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	return &AIService{
		apiKey:             apiKey,
		modelName:          modelName,
		cache:              cache,
		httpClient:         httpClient,
		apiURL:             strings.TrimSuffix(baseURL, "/") + "/chat/completions",
		lastRequestTime:    time.Time{},
		minRequestInterval: 500 * time.Millisecond, // Minimum 500ms between requests
	}, nil
}

func (a *AIService) Close() error {
	// HTTP client doesn't require explicit closing
	return nil
}

// rateLimit ensures minimum time between requests to prevent burst rate errors
func (a *AIService) rateLimit() {
	a.requestMutex.Lock()
	defer a.requestMutex.Unlock()

	now := time.Now()
	timeSinceLastRequest := now.Sub(a.lastRequestTime)

	if timeSinceLastRequest < a.minRequestInterval {
		time.Sleep(a.minRequestInterval - timeSinceLastRequest)
	}

	a.lastRequestTime = time.Now()
}

func (a *AIService) callChatAPI(ctx context.Context, messages []chatMessage, jsonMode bool, maxTokens int) (string, error) {
	a.rateLimit()

	reqBody := chatCompletionRequest{
		Model:     a.modelName,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry with exponential backoff for rate limit and transport errors
	maxRetries := 3
	baseDelay := 2 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 2s, 4s, 8s
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			a.rateLimit()
		}

		req, err := http.NewRequestWithContext(ctx, "POST", a.apiURL, bytes.NewBuffer(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if attempt < maxRetries {
				continue // Retry on network errors
			}
			return "", fmt.Errorf("failed to send request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			if attempt < maxRetries {
				continue
			}
			return "", fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt < maxRetries {
				continue // Retry with backoff
			}
			return "", fmt.Errorf("API returned status %d: %s. Max retries exceeded", resp.StatusCode, string(body))
		}

		if resp.StatusCode != http.StatusOK {
			var errResp chatCompletionResponse
			if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
				return "", fmt.Errorf("API error (status %d): %s - %s",
					resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
			}
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}

		var chatResp chatCompletionResponse
		if err := json.Unmarshal(body, &chatResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal response: %w", err)
		}

		if len(chatResp.Choices) == 0 {
			return "", fmt.Errorf("no response from AI model")
		}

		return chatResp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("max retries exceeded")
}

// GenerateJSON asks the model for a single structured JSON object. Replies
// are cached by prompt so re-asked questions skip the round trip.
func (a *AIService) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cacheKey := fmt.Sprintf("gen:%s|%s", systemPrompt, userPrompt)
	if a.cache != nil {
		if cached, found := a.cache.Get(cacheKey); found {
			return cached.(string), nil
		}
	}

	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	response, err := a.callChatAPI(ctx, messages, true, 2048)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	// Remove markdown code blocks if present
	raw := strings.TrimSpace(response)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```JSON")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if !json.Valid([]byte(raw)) {
		return "", fmt.Errorf("model reply is not valid JSON")
	}

	if a.cache != nil {
		a.cache.SetDefault(cacheKey, raw)
	}

	return raw, nil
}
