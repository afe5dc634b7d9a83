package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/tanpawarit/chative-support-router/agent/agents/router"
	"github.com/tanpawarit/chative-support-router/agent/audit"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	statex "github.com/tanpawarit/chative-support-router/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message text is empty")
	ErrInvalidSession = statex.ErrInvalidSession
)

// Handler runs one request against a session snapshot.
type Handler interface {
	Handle(ctx context.Context, text string, session statex.SessionState) (router.Result, error)
}

// Reply is what one conversation turn returns to the caller.
type Reply struct {
	RequestID string
	Text      string
	Route     contractx.Route
	Trace     []contractx.Message
	Session   statex.SessionState
}

// Service wraps the router with session persistence and trace auditing.
type Service struct {
	router Handler
	store  statex.Store
	sink   contractx.TraceSink

	graphRunner compose.Runnable[input, Reply]

	now   func() time.Time
	newID func() string
}

func New(h Handler, store statex.Store, sink contractx.TraceSink) (*Service, error) {
	if h == nil {
		return nil, errors.New("router is required")
	}
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if sink == nil {
		sink = audit.Noop{}
	}

	s := &Service{
		router: h,
		store:  store,
		sink:   sink,
		now:    time.Now,
		newID:  uuid.NewString,
	}

	graphRunner, err := s.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

func (s *Service) HandleMessage(ctx context.Context, sessionID string, text string) (Reply, error) {
	return s.graphRunner.Invoke(ctx, input{SessionID: sessionID, Text: text})
}
