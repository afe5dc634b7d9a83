package classifier

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	"github.com/tanpawarit/chative-support-router/agent/llm"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, err := Build(ctx, Config{}, llm.Config{}, "")
	if err != nil {
		t.Fatalf("Build(rules) error = %v", err)
	}
	if _, ok := c.(*Rules); !ok {
		t.Fatalf("Build(rules) = %T, want *Rules", c)
	}

	_, err = Build(ctx, Config{Backend: BackendOpenAI}, llm.Config{}, "prompt")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Build(openai, no key) error = %v, want ErrValidation", err)
	}

	llmCfg := llm.Config{APIKey: "k", Model: "m", BaseURL: "http://127.0.0.1:1"}
	c, err = Build(ctx, Config{Backend: BackendOpenAI, FallbackToRules: true}, llmCfg, "prompt")
	if err != nil {
		t.Fatalf("Build(openai) error = %v", err)
	}
	if _, ok := c.(*Chain); !ok {
		t.Fatalf("Build(openai, fallback) = %T, want *Chain", c)
	}

	c, err = Build(ctx, Config{Backend: BackendOpenAI}, llmCfg, "prompt")
	if err != nil {
		t.Fatalf("Build(openai) error = %v", err)
	}
	if _, ok := c.(*OpenAI); !ok {
		t.Fatalf("Build(openai) = %T, want *OpenAI", c)
	}

	if _, err := Build(ctx, Config{Backend: "tarot"}, llmCfg, "prompt"); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Build(unknown) error = %v, want ErrValidation", err)
	}
}
