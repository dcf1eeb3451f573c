package commentary

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rickgao/prob-markets/internal/model"
)

const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 600
	DefaultTimeout   = 45 * time.Second

	heroMaxTokens = 200
)

// messenger is the subset of the Anthropic messages service used here.
type messenger interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Claude generates commentary through the Anthropic Messages API.
type Claude struct {
	messages  messenger
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Claude generator.
type Option func(*Claude)

// WithModel sets the model name.
func WithModel(m string) Option {
	return func(c *Claude) {
		if m != "" {
			c.model = m
		}
	}
}

// WithMaxTokens sets the token budget for the daily take.
func WithMaxTokens(n int) Option {
	return func(c *Claude) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Claude) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Claude) {
		c.logger = logger
	}
}

// NewClaude creates a generator authenticated with apiKey.
func NewClaude(apiKey string, opts ...Option) *Claude {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return newClaude(&client.Messages, opts...)
}

func newClaude(m messenger, opts ...Option) *Claude {
	c := &Claude{
		messages:  m,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HeroTake implements Generator.
func (c *Claude) HeroTake(ctx context.Context, hero model.MarketRecord) (string, error) {
	text, err := c.complete(ctx, heroPrompt(&hero), min(heroMaxTokens, c.maxTokens))
	if err != nil {
		return "", unavailable("hero take", err)
	}
	return text, nil
}

// DailyTake implements Generator.
func (c *Claude) DailyTake(ctx context.Context, digest Digest) (*model.DailyTake, error) {
	text, err := c.complete(ctx, dailyPrompt(&digest), c.maxTokens)
	if err != nil {
		return nil, unavailable("daily take", err)
	}
	take, err := parseDaily(text, &digest)
	if err != nil {
		return nil, unavailable("daily take", err)
	}
	return take, nil
}

func (c *Claude) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: HouseStyle}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := Clean(strings.Join(parts, ""))
	if text == "" {
		return "", errors.New("empty response")
	}

	c.logger.Debug("generated commentary",
		"model", c.model,
		"chars", len(text),
		"duration", time.Since(start),
	)
	return text, nil
}
