package router

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

const (
	nodeClassify = "classify"
	nodeApology  = "apology"
)

type patternFunc func(ctx context.Context, t *turn) error

func (r *Router) patterns() map[contractx.Route]patternFunc {
	return map[contractx.Route]patternFunc{
		contractx.RouteSimpleLookup:        r.simpleLookup,
		contractx.RouteTaskAllocation:      r.taskAllocation,
		contractx.RouteBillingCancellation: r.billingCancellation,
		contractx.RoutePremiumHighPriority: r.premiumHighPriority,
		contractx.RouteActiveOpenTickets:   r.activeOpenTickets,
		contractx.RouteUrgentRefund:        r.urgentRefund,
		contractx.RouteEmailUpdateHistory:  r.emailUpdateHistory,
		contractx.RouteUpgradeAccount:      r.upgradeAccount,
		contractx.RouteFallback:            r.fallback,
	}
}

func patternNode(route contractx.Route) string {
	return "pattern." + string(route)
}

func (r *Router) compileRouteGraph(ctx context.Context) (compose.Runnable[*turn, *turn], error) {
	graph := compose.NewGraph[*turn, *turn]()

	if err := graph.AddLambdaNode(nodeClassify,
		compose.InvokableLambda(func(ctx context.Context, in *turn) (*turn, error) {
			r.classify(ctx, in)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeClassify, err)
	}

	if err := graph.AddLambdaNode(nodeApology,
		compose.InvokableLambda(func(ctx context.Context, in *turn) (*turn, error) {
			r.fail(in, in.err)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeApology, err)
	}

	endNodes := map[string]bool{nodeApology: true}
	patterns := r.patterns()
	for _, route := range contractx.Routes {
		run, ok := patterns[route]
		if !ok {
			return nil, fmt.Errorf("no pattern registered for route=%s", route)
		}
		name := patternNode(route)
		if err := graph.AddLambdaNode(name,
			compose.InvokableLambda(func(ctx context.Context, in *turn) (*turn, error) {
				if err := run(ctx, in); err != nil {
					r.fail(in, err)
				}
				return in, nil
			}),
		); err != nil {
			return nil, fmt.Errorf("add node %s: %w", name, err)
		}
		endNodes[name] = true
	}

	if err := graph.AddEdge(compose.START, nodeClassify); err != nil {
		return nil, fmt.Errorf("add edge start->%s: %w", nodeClassify, err)
	}

	branch := compose.NewGraphBranch(func(ctx context.Context, in *turn) (string, error) {
		if in.err != nil {
			return nodeApology, nil
		}
		return patternNode(in.route), nil
	}, endNodes)
	if err := graph.AddBranch(nodeClassify, branch); err != nil {
		return nil, fmt.Errorf("add route branch: %w", err)
	}

	for name := range endNodes {
		if err := graph.AddEdge(name, compose.END); err != nil {
			return nil, fmt.Errorf("add edge %s->end: %w", name, err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("router.handle_request"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}

// classify picks the route. A classifier fault leaves the fallback tag in place and
// sends the turn to the apology node.
func (r *Router) classify(ctx context.Context, t *turn) {
	route, err := r.classifier.Classify(ctx, t.text)
	if err == nil && !route.Valid() {
		err = fmt.Errorf("%w: unsupported route=%q", contractx.ErrSchemaViolation, route)
	}
	if err != nil {
		t.route = contractx.RouteFallback
		t.err = fmt.Errorf("%w: %v", contractx.ErrClassifier, err)
		return
	}

	t.route = route
	log.Debug().Str("route", string(route)).Msg("router selected route")
	r.note(t, "Route selected: %s", route)
}
