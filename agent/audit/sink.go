// Package audit ships completed request traces out of process.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

type Config struct {
	Enabled     bool   `envconfig:"ENABLED" split_words:"true" default:"false"`
	Destination string `envconfig:"DESTINATION" split_words:"true"`
}

// Publisher is the queue the trace records are pushed to.
type Publisher interface {
	Publish(ctx context.Context, destination string, body []byte, dedupID string) (string, error)
}

// QStashSink publishes each trace record as JSON, deduplicated by request id.
type QStashSink struct {
	publisher   Publisher
	destination string
}

var _ contractx.TraceSink = (*QStashSink)(nil)

func NewQStashSink(publisher Publisher, destination string) (*QStashSink, error) {
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, fmt.Errorf("%w: audit destination is required", contractx.ErrValidation)
	}
	return &QStashSink{publisher: publisher, destination: destination}, nil
}

func (s *QStashSink) Publish(ctx context.Context, record contractx.TraceRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal trace record: %w", err)
	}
	messageID, err := s.publisher.Publish(ctx, s.destination, body, record.RequestID)
	if err != nil {
		return fmt.Errorf("publish trace request_id=%s: %w", record.RequestID, err)
	}
	log.Debug().
		Str("request_id", record.RequestID).
		Str("message_id", messageID).
		Msg("trace published")
	return nil
}

// Noop drops every record.
type Noop struct{}

func (Noop) Publish(context.Context, contractx.TraceRecord) error { return nil }
