package classifier

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	"github.com/tanpawarit/chative-support-router/agent/llm"
	openrouterx "github.com/tanpawarit/chative-support-router/pkg/openrouter"
)

const (
	BackendRules  = "rules"
	BackendEino   = "eino"
	BackendOpenAI = "openai"
)

type Config struct {
	Backend string `envconfig:"BACKEND" split_words:"true" default:"rules"`
	// FallbackToRules wraps a model backend so that model failures use the rule table.
	FallbackToRules bool `envconfig:"FALLBACK_TO_RULES" split_words:"true" default:"true"`
}

// Build returns the classifier selected by cfg. llmCfg and systemPrompt are only read
// for model backends.
func Build(ctx context.Context, cfg Config, llmCfg llm.Config, systemPrompt string) (contractx.Classifier, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" || backend == BackendRules {
		return NewRules(nil), nil
	}

	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}
	orCfg := llmCfg.ClassifierOpenRouter()

	var primary contractx.Classifier
	switch backend {
	case BackendEino:
		chatModel, err := openrouterx.NewChatModel(ctx, orCfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrClassifier, err)
		}
		m, err := NewModel(ctx, chatModel, systemPrompt)
		if err != nil {
			return nil, err
		}
		primary = m
	case BackendOpenAI:
		c, err := NewOpenAI(openrouterx.NewClient(orCfg), orCfg.Model, systemPrompt)
		if err != nil {
			return nil, err
		}
		primary = c
	default:
		return nil, fmt.Errorf("%w: unsupported classifier backend=%q", contractx.ErrValidation, cfg.Backend)
	}

	if !cfg.FallbackToRules {
		return primary, nil
	}
	return NewChain(primary, NewRules(nil))
}
