package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/utils"
)

// LLMClient is the chat-completion surface the segmentation, cue, and
// recommendation services call. A failed call is not retried here; every
// caller has its own deterministic fallback.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type openRouterClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenRouterClient(log *logger.Logger) (LLMClient, error) {
	serviceLog := log.With("service", "OpenRouterClient")
	apiKey := utils.GetEnv("OPENROUTER_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is not set")
	}
	baseURL := utils.GetEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api", log)
	model := utils.GetEnv("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct", log)
	timeoutSec := utils.GetEnvAsInt("OPENROUTER_TIMEOUT_SECONDS", 60, log)
	return &openRouterClient{
		log:     serviceLog,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openRouterClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openrouter http %d: %s", resp.StatusCode, truncateForLog(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openrouter response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncateForLog(s string) string {
	if len(s) > 512 {
		return s[:512] + "..."
	}
	return s
}

// extractJSON pulls the first JSON object out of an LLM response. Models are
// asked for bare JSON but often wrap it in a fenced block or prose.
func extractJSON(content string) ([]byte, error) {
	trimmed := strings.TrimSpace(content)
	if json.Valid([]byte(trimmed)) {
		return []byte(trimmed), nil
	}
	if i := strings.Index(trimmed, "```json"); i >= 0 {
		rest := trimmed[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			candidate := strings.TrimSpace(rest[:j])
			if json.Valid([]byte(candidate)) {
				return []byte(candidate), nil
			}
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}
	return nil, fmt.Errorf("no JSON object found in response")
}
