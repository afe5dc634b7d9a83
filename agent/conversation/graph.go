package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-support-router/agent/agents/router"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	statex "github.com/tanpawarit/chative-support-router/agent/state"
)

type input struct {
	SessionID string
	Text      string
}

type exchange struct {
	requestID string
	text      string
	session   *statex.SessionState
	loaded    bool
	result    router.Result
}

func (s *Service) compileHandleMessageGraph(ctx context.Context) (compose.Runnable[input, Reply], error) {
	graph := compose.NewGraph[input, Reply]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in input) (*exchange, error) {
			return s.validateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_or_create_state",
		compose.InvokableLambda(func(ctx context.Context, in *exchange) (*exchange, error) {
			return s.loadOrCreateState(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_or_create_state: %w", err)
	}

	if err := graph.AddLambdaNode("route_request",
		compose.InvokableLambda(func(ctx context.Context, in *exchange) (*exchange, error) {
			return s.routeRequest(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node route_request: %w", err)
	}

	if err := graph.AddLambdaNode("save_state",
		compose.InvokableLambda(func(ctx context.Context, in *exchange) (*exchange, error) {
			return s.saveState(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_state: %w", err)
	}

	if err := graph.AddLambdaNode("publish_trace",
		compose.InvokableLambda(func(ctx context.Context, in *exchange) (Reply, error) {
			return s.publishTrace(ctx, in), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node publish_trace: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_or_create_state"},
		{"load_or_create_state", "route_request"},
		{"route_request", "save_state"},
		{"save_state", "publish_trace"},
		{"publish_trace", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("conversation.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile conversation graph: %w", err)
	}
	return runner, nil
}

func (s *Service) validateRequest(in input) (*exchange, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}
	return &exchange{
		requestID: s.newID(),
		text:      text,
		session:   &statex.SessionState{SessionID: sessionID},
	}, nil
}

func (s *Service) loadOrCreateState(ctx context.Context, ex *exchange) (*exchange, error) {
	st, err := s.store.Load(ctx, ex.session.SessionID)
	switch {
	case errors.Is(err, statex.ErrStateNotFound):
		ex.session = statex.NewSessionState(ex.session.SessionID, s.now())
	case err != nil:
		return nil, fmt.Errorf("load session %s: %w", ex.session.SessionID, err)
	default:
		ex.session = st
		ex.loaded = true
	}

	log.Debug().
		Str("session_id", ex.session.SessionID).
		Bool("loaded", ex.loaded).
		Int("customer_id", ex.session.CustomerID).
		Msg("session ready")
	return ex, nil
}

func (s *Service) routeRequest(ctx context.Context, ex *exchange) (*exchange, error) {
	res, err := s.router.Handle(ctx, ex.text, *ex.session)
	if err != nil {
		return nil, fmt.Errorf("route request_id=%s: %w", ex.requestID, err)
	}
	ex.result = res
	return ex, nil
}

func (s *Service) saveState(ctx context.Context, ex *exchange) (*exchange, error) {
	st := ex.result.Session
	st.SessionID = ex.session.SessionID
	if ex.loaded {
		st.Version = ex.session.Version + 1
	}
	st.Touch(s.now())

	if err := s.store.Save(ctx, &st); err != nil {
		return nil, fmt.Errorf("save session %s: %w", st.SessionID, err)
	}
	ex.result.Session = st
	return ex, nil
}

// publishTrace hands the trace to the audit sink. Delivery is best effort; a sink
// failure never changes the reply.
func (s *Service) publishTrace(ctx context.Context, ex *exchange) Reply {
	record := contractx.TraceRecord{
		RequestID: ex.requestID,
		SessionID: ex.result.Session.SessionID,
		Route:     ex.result.Route,
		FinalText: ex.result.FinalText,
		Messages:  ex.result.Trace,
	}
	if err := s.sink.Publish(ctx, record); err != nil {
		log.Warn().Err(err).Str("request_id", ex.requestID).Msg("trace publish failed")
	}

	log.Info().
		Str("request_id", ex.requestID).
		Str("session_id", record.SessionID).
		Str("route", string(record.Route)).
		Int("trace_len", len(record.Messages)).
		Msg("request handled")

	return Reply{
		RequestID: ex.requestID,
		Text:      ex.result.FinalText,
		Route:     ex.result.Route,
		Trace:     ex.result.Trace,
		Session:   ex.result.Session,
	}
}
