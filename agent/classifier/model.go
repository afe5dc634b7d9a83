package classifier

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

// Model classifies through an eino prompt -> chat model -> JSON parser graph.
type Model struct {
	runner compose.Runnable[map[string]any, modelLabel]
}

var _ contractx.Classifier = (*Model)(nil)

func NewModel(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Model, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: classifier", contractx.ErrPromptMissing)
	}
	runner, err := compileLabelGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}
	return &Model{runner: runner}, nil
}

func (m *Model) Classify(ctx context.Context, text string) (contractx.Route, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: request text is required", contractx.ErrValidation)
	}

	out, err := m.runner.Invoke(ctx, map[string]any{"input": text})
	if err != nil {
		return "", fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}
	return validateLabel(out.Route)
}

func compileLabelGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, modelLabel], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	parser := schema.NewMessageJSONParser[modelLabel](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, modelLabel]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add classifier prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add classifier model node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_json", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add classifier parser node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add classifier edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add classifier edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "parse_json"); err != nil {
		return nil, fmt.Errorf("add classifier edge model->parse: %w", err)
	}
	if err := graph.AddEdge("parse_json", compose.END); err != nil {
		return nil, fmt.Errorf("add classifier edge parse->end: %w", err)
	}

	return graph.Compile(ctx, compose.WithGraphName("classifier.label_graph"))
}
