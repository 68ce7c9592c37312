package critique

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/unprompted/internal/cache"
	"github.com/dshills/unprompted/internal/capture"
	"github.com/dshills/unprompted/internal/payload"
	"github.com/dshills/unprompted/internal/providers"
	"github.com/dshills/unprompted/internal/redact"
	"go.uber.org/zap"
)

// Options configures a Critic.
type Options struct {
	// Language tags the code fence of the reviewed cell.
	Language string
	// Redact scrubs secrets from code and text outputs before sending.
	Redact bool
	// Cache may be nil.
	Cache  *cache.Cache
	Logger *zap.Logger
}

// Critic reviews a cell's code and outputs with a chat-completion model.
type Critic struct {
	reviewer providers.Reviewer
	opts     Options
	logger   *zap.Logger
}

// New creates a Critic backed by reviewer.
func New(reviewer providers.Reviewer, opts Options) *Critic {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Critic{reviewer: reviewer, opts: opts, logger: logger}
}

// Critique sends code and the captured items to the model and returns the
// trimmed critique text. Errors from the endpoint are returned unchanged in
// meaning; nothing is retried.
func (c *Critic) Critique(ctx context.Context, code string, items []capture.Item) (string, error) {
	p := payload.Assemble(items)
	if c.opts.Redact {
		var found []string
		code, found = redact.Scrub(code)
		if len(found) > 0 {
			c.logger.Debug("redacted secrets from cell source", zap.Strings("kinds", found))
		}
		p.Texts = redact.Texts(p.Texts)
	}

	msgs := BuildMessages(c.opts.Language, code, p)
	return c.send(ctx, msgs)
}

// Ask answers a follow-up question given the prior conversation.
func (c *Critic) Ask(ctx context.Context, history []string, question string) (string, error) {
	if c.opts.Redact {
		history = redact.Texts(history)
		question = redact.Secrets(question)
	}
	return c.send(ctx, BuildChatMessages(history, question))
}

func (c *Critic) send(ctx context.Context, msgs []providers.Message) (string, error) {
	var key *cache.Key
	if c.opts.Cache != nil && c.opts.Cache.Enabled() {
		data, err := json.Marshal(msgs)
		if err != nil {
			return "", fmt.Errorf("marshaling cache key: %w", err)
		}
		key = &cache.Key{
			Provider: c.reviewer.Name(),
			Model:    c.reviewer.Model(),
			Request:  string(data),
		}
		if hit, ok := c.opts.Cache.Get(*key); ok {
			c.logger.Debug("critique cache hit", zap.String("model", c.reviewer.Model()))
			return hit, nil
		}
	}

	c.logger.Debug("requesting critique",
		zap.String("provider", c.reviewer.Name()),
		zap.String("model", c.reviewer.Model()),
		zap.Int("messages", len(msgs)))

	resp, err := c.reviewer.Review(ctx, providers.ReviewRequest{
		Messages:    msgs,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("critique request: %w", err)
	}
	text := strings.TrimSpace(resp.Content)

	if key != nil {
		if err := c.opts.Cache.Put(*key, text); err != nil {
			c.logger.Warn("caching critique failed", zap.Error(err))
		}
	}
	return text, nil
}
