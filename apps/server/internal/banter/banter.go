// Package banter generates one-line table talk for NPC personas through an
// OpenAI-compatible chat endpoint. It is strictly decorative: every failure
// is swallowed into silence and the game never waits on it.
package banter

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"idoubtit-lite/doubt/npc"
)

const (
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 10 * time.Second
	maxLineRunes   = 120
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:  strings.TrimSpace(os.Getenv("BANTER_API_KEY")),
		BaseURL: strings.TrimSpace(os.Getenv("BANTER_BASE_URL")),
		Model:   strings.TrimSpace(os.Getenv("BANTER_MODEL")),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return cfg
}

type Client struct {
	client openai.Client
	model  string
}

// NewFromEnv returns (nil, nil) when no API key is configured; the caller
// runs without a narrator.
func NewFromEnv() (*Client, error) {
	cfg := ConfigFromEnv()
	if cfg.APIKey == "" {
		return nil, nil
	}
	return New(cfg)
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("banter: missing api key")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Speak asks the model for one in-character line about a game moment.
func (c *Client) Speak(persona *npc.Persona, moment string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	system := fmt.Sprintf(
		"You are %s, a card player at an I Doubt It table. Persona: %s. "+
			"Reply with a single short line of table talk, no quotes, no emoji.",
		persona.Name, persona.Tagline)
	user := fmt.Sprintf("You %s. Say something in character.", moment)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("banter: empty completion")
	}
	return clampLine(resp.Choices[0].Message.Content), nil
}

// clampLine keeps the first line and trims runaway completions.
func clampLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	runes := []rune(s)
	if len(runes) > maxLineRunes {
		s = string(runes[:maxLineRunes])
	}
	return strings.Trim(s, `"`)
}
