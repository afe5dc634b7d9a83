package classifier

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

// Chain asks primary first and falls back to secondary when primary fails.
type Chain struct {
	primary   contractx.Classifier
	secondary contractx.Classifier
}

var _ contractx.Classifier = (*Chain)(nil)

func NewChain(primary, secondary contractx.Classifier) (*Chain, error) {
	if primary == nil || secondary == nil {
		return nil, errors.New("chain needs both classifiers")
	}
	return &Chain{primary: primary, secondary: secondary}, nil
}

func (c *Chain) Classify(ctx context.Context, text string) (contractx.Route, error) {
	route, err := c.primary.Classify(ctx, text)
	if err == nil {
		return route, nil
	}
	log.Warn().Err(err).Msg("primary classifier failed, using secondary")
	return c.secondary.Classify(ctx, text)
}
