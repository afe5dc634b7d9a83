package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	statex "github.com/tanpawarit/chative-support-router/agent/state"
	"github.com/tanpawarit/chative-support-router/agent/textparse"
)

// ApologyText is the final reply whenever a collaborator fails mid-request.
const ApologyText = "I'm sorry, something went wrong while handling your request. Please try again later."

type Config struct {
	// FanOutConcurrency bounds the parallel per-customer history fetches; 1 is sequential.
	FanOutConcurrency int `envconfig:"FAN_OUT_CONCURRENCY" split_words:"true" default:"4"`
	DefaultCustomerID int `envconfig:"DEFAULT_CUSTOMER_ID" split_words:"true" default:"1"`
	// ListLimit is passed to customer listings; 0 leaves the data worker default.
	ListLimit int `envconfig:"LIST_LIMIT" split_words:"true" default:"0"`
}

// Result is everything the caller gets back for one request.
type Result struct {
	FinalText string
	Trace     []contractx.Message
	Session   statex.SessionState
	Route     contractx.Route
}

// Router classifies a request, runs exactly one coordination pattern over the data and
// support workers, and returns the final reply with the full message trace.
type Router struct {
	classifier contractx.Classifier
	data       contractx.DataWorker
	support    contractx.SupportWorker
	cfg        Config

	graphRunner compose.Runnable[*turn, *turn]

	now func() time.Time
}

func New(
	classifier contractx.Classifier,
	data contractx.DataWorker,
	support contractx.SupportWorker,
	cfg Config,
) (*Router, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if data == nil {
		return nil, errors.New("data worker is required")
	}
	if support == nil {
		return nil, errors.New("support worker is required")
	}

	if cfg.FanOutConcurrency <= 0 {
		cfg.FanOutConcurrency = 1
	}
	if cfg.DefaultCustomerID <= 0 {
		cfg.DefaultCustomerID = textparse.DefaultCustomerID
	}
	if cfg.ListLimit < 0 {
		cfg.ListLimit = 0
	}

	r := &Router{
		classifier: classifier,
		data:       data,
		support:    support,
		cfg:        cfg,
		now:        time.Now,
	}

	graphRunner, err := r.compileRouteGraph(context.Background())
	if err != nil {
		return nil, err
	}
	r.graphRunner = graphRunner

	return r, nil
}

// Handle services one request. The returned error is reserved for faults of the
// routing graph itself; collaborator failures end in ApologyText instead.
func (r *Router) Handle(ctx context.Context, text string, session statex.SessionState) (Result, error) {
	out, err := r.graphRunner.Invoke(ctx, &turn{
		text:    text,
		session: session,
		trace:   contractx.NewTrace(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("router graph: %w", err)
	}

	final, ok := out.trace.Final()
	if !ok {
		return Result{}, fmt.Errorf("router graph: route=%s produced no final message", out.route)
	}

	return Result{
		FinalText: final.Content,
		Trace:     out.trace.Messages(),
		Session:   out.session,
		Route:     out.route,
	}, nil
}

// turn is the per-request state flowing through the route graph.
type turn struct {
	text    string
	session statex.SessionState
	route   contractx.Route
	trace   *contractx.Trace
	err     error
}
