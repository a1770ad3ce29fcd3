package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/config"
	"healthfinder-go/pkg/models"
)

// composeSystemPrompt guides narrative composition. The draft's structure,
// facts, and disclaimers must survive the rewrite.
const composeSystemPrompt = `You are a professional health information editor. Your task is to:

1. Read the user's original question
2. Rewrite the draft response into clear, well-organized prose
3. Keep every section heading, fact, figure, and source reference intact
4. Preserve all medical disclaimers exactly as written

Follow these principles:
- Answer the user's question directly
- Keep the markdown structure of the draft
- Do not add information that is not in the draft
- Stay objective and neutral

Return only the rewritten response, without any extra commentary.`

// Client wraps an OpenAI-compatible chat completion backend (OpenAI or
// Azure OpenAI) for optional narrative composition.
type Client struct {
	client *openai.Client
	config *config.LLMConfig
	logger *logrus.Logger
}

// NewClient creates a client for the configured provider.
func NewClient(cfg *config.LLMConfig, logger *logrus.Logger) *Client {
	var clientConfig openai.ClientConfig
	if cfg.Provider == "azure" {
		clientConfig = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		clientConfig.APIVersion = cfg.APIVersion
	} else {
		clientConfig = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		logger: logger,
	}
}

// model returns the request model name; Azure routes by deployment.
func (c *Client) model() string {
	if c.config.Provider == "azure" && c.config.Deployment != "" {
		return c.config.Deployment
	}
	return c.config.Model
}

// ChatCompletion runs one chat completion against the configured backend.
func (c *Client) ChatCompletion(ctx context.Context, messages []models.ChatMessage, systemPrompt string) (string, error) {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)

	if systemPrompt != "" {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case models.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case models.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		case models.RoleUser:
			role = openai.ChatMessageRoleUser
		}

		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model(),
		Messages:    openaiMessages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Stream:      false,
	}

	c.logger.WithFields(logrus.Fields{
		"model":    req.Model,
		"messages": len(openaiMessages),
	}).Debug("Calling chat completion API")

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.WithError(err).Error("Chat completion API call failed")
		return "", fmt.Errorf("chat completion API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned from completion API")
	}

	result := resp.Choices[0].Message.Content
	c.logger.WithFields(logrus.Fields{
		"response_length": len(result),
		"usage_tokens":    resp.Usage.TotalTokens,
	}).Debug("Chat completion response received")

	return result, nil
}

// ComposeSynthesis rewrites a synthesized draft into polished prose. Callers
// keep the deterministic draft when composition fails.
func (c *Client) ComposeSynthesis(ctx context.Context, query, draft string) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.config.Timeout)*time.Second)
		defer cancel()
	}

	userContent := fmt.Sprintf("Original question: %s\n\nDraft response:\n%s", query, draft)
	messages := []models.ChatMessage{
		{Role: models.RoleUser, Content: userContent},
	}

	response, err := c.ChatCompletion(ctx, messages, composeSystemPrompt)
	if err != nil {
		return "", fmt.Errorf("failed to compose synthesis narrative: %w", err)
	}

	composed := strings.TrimSpace(response)
	c.logger.WithFields(logrus.Fields{
		"query":           query,
		"draft_length":    len(draft),
		"composed_length": len(composed),
	}).Debug("Synthesis narrative composed")

	return composed, nil
}
