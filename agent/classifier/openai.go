package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

// OpenAI classifies with a single chat completion against any OpenAI-compatible API.
type OpenAI struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

var _ contractx.Classifier = (*OpenAI)(nil)

func NewOpenAI(client *openai.Client, model, systemPrompt string) (*OpenAI, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: classifier model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: classifier", contractx.ErrPromptMissing)
	}
	return &OpenAI{client: client, model: strings.TrimSpace(model), systemPrompt: systemPrompt}, nil
}

func (c *OpenAI) Classify(ctx context.Context, text string) (contractx.Route, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: request text is required", contractx.ErrValidation)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", contractx.ErrSchemaViolation)
	}
	return parseLabel(resp.Choices[0].Message.Content)
}
