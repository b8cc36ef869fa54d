// Package groq provides an LLM service adapter using the Groq API.
//
// Groq exposes an OpenAI-compatible chat completions endpoint with
// aggressive free-tier quotas, so every request goes through a rate
// limiter that combines proactive throttling with the quota headers
// Groq returns.
package groq

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.groq.com/openai/v1"
	DefaultLLMModel   = "llama-3.1-8b-instant"
	DefaultLLMTimeout = 120 * time.Second

	// streamBufferSize bounds how far the reader goroutine can run
	// ahead of a slow consumer.
	streamBufferSize = 32

	// maxSSELineSize is the scanner buffer cap for one SSE line.
	maxSSELineSize = 1024 * 1024
)

// LLMConfig holds configuration for the Groq LLM service.
type LLMConfig struct {
	// APIKey is the Groq API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1).
	BaseURL string

	// Model is the LLM model to use (default: llama-3.1-8b-instant).
	Model string

	// Timeout bounds a whole batch request, and time-to-first-byte for
	// streaming requests (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using the Groq API.
type LLMService struct {
	client       *http.Client
	streamClient *http.Client
	baseURL      string
	apiKey       string
	model        string
	limiter      *RateLimiter
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
	Stream      bool                `json:"stream,omitempty"`
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the non-streaming response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

// chatCompletionChunk is one SSE event of a streaming response.
type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewLLMService creates a new Groq LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	// Streams must not be cut mid-drain by a whole-request timeout, so
	// the streaming client bounds time-to-headers only.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		streamClient: &http.Client{
			Transport: transport,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: NewRateLimiter(),
	}, nil
}

// Chat sends the messages and returns the complete answer text.
func (s *LLMService) Chat(ctx context.Context, messages []domain.Message, opts driven.ChatOptions) (string, error) {
	resp, err := s.send(ctx, s.client, messages, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read groq response: %v", domain.ErrGenerationBackend, err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decode groq response: %v", domain.ErrGenerationBackend, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: groq: %s", domain.ErrGenerationBackend, chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: groq returned status %d: %s", domain.ErrGenerationBackend, resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: groq returned no choices", domain.ErrGenerationBackend)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ChatStream sends the messages and streams the answer as it is
// generated. Failures after the stream opens arrive as the final
// delta's Err.
func (s *LLMService) ChatStream(ctx context.Context, messages []domain.Message, opts driven.ChatOptions) (<-chan driven.StreamDelta, error) {
	resp, err := s.send(ctx, s.streamClient, messages, opts, true)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("%w: groq returned status %d (failed to read body)", domain.ErrGenerationBackend, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: groq returned status %d: %s", domain.ErrGenerationBackend, resp.StatusCode, string(body))
	}

	deltas := make(chan driven.StreamDelta, streamBufferSize)

	go func() {
		defer close(deltas)
		defer resp.Body.Close()

		if err := s.readStream(ctx, resp.Body, deltas); err != nil {
			select {
			case deltas <- driven.StreamDelta{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return deltas, nil
}

// readStream parses SSE events from body and forwards content deltas.
// Returns the error to report as the terminal delta, or nil on a clean
// [DONE] or EOF.
func (s *LLMService) readStream(ctx context.Context, body io.Reader, deltas chan<- driven.StreamDelta) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			return nil
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return fmt.Errorf("%w: decode groq stream event: %v", domain.ErrGenerationBackend, err)
		}
		if chunk.Error != nil {
			return fmt.Errorf("%w: groq: %s", domain.ErrGenerationBackend, chunk.Error.Message)
		}

		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}

		select {
		case deltas <- driven.StreamDelta{Content: chunk.Choices[0].Delta.Content}:
		case <-ctx.Done():
			return nil
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: groq stream interrupted: %v", domain.ErrGenerationBackend, err)
	}
	return nil
}

// send builds and issues a chat completion request.
func (s *LLMService) send(
	ctx context.Context,
	client *http.Client,
	messages []domain.Message,
	opts driven.ChatOptions,
	stream bool,
) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for rate limit: %v", domain.ErrGenerationBackend, err)
	}

	chatMessages := make([]chatCompletionMsg, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatCompletionMsg{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	reqBody := chatCompletionRequest{
		Model:    s.model,
		Messages: chatMessages,
		Stream:   stream,
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody.Temperature = opts.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: groq request failed: %v", domain.ErrGenerationBackend, err)
	}

	if rateErr := s.limiter.CheckRateLimit(resp); rateErr != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationBackend, rateErr)
	}

	return resp, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("groq: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("groq: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("groq: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("groq: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP clients don't need explicit cleanup
	return nil
}
