package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-3.5-turbo"
	DefaultTimeout = 10 * time.Second

	temperature = 0.7
)

var ErrEmptyCompletion = errors.New("completion returned no choices")

// Options configures a live Client. Zero fields take the package defaults.
type Options struct {
	Token   string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a live advisor.
func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.Token)
	cfg.BaseURL = DefaultBaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	c := &Client{
		client:  openai.NewClientWithConfig(cfg),
		model:   opts.Model,
		timeout: opts.Timeout,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	return c
}

func (c *Client) LearningSuggestion(ctx context.Context, digest string) Result {
	return observe(c.complete(ctx, OpLearningSuggestion, suggestionSystemPrompt, SuggestionPrompt(digest), suggestionMaxTokens))
}

func (c *Client) MoodInsight(ctx context.Context, digest string) Result {
	return observe(c.complete(ctx, OpMoodInsight, moodSystemPrompt, MoodPrompt(digest), moodMaxTokens))
}

func (c *Client) complete(ctx context.Context, op, system, prompt string, maxTokens int) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return failure(op, fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return failure(op, ErrEmptyCompletion)
	}

	slog.Debug("insight completed",
		slog.String("operation", op),
		slog.String("model", c.model),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("total_tokens", resp.Usage.TotalTokens))

	return success(op, strings.TrimSpace(resp.Choices[0].Message.Content))
}
