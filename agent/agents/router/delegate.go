package router

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	"golang.org/x/sync/errgroup"
)

func (r *Router) note(t *turn, format string, args ...any) {
	t.trace.Append(contractx.Message{
		Sender:    contractx.RoleRouter,
		Recipient: contractx.RoleRouter,
		Content:   "[Router] " + fmt.Sprintf(format, args...),
		Metadata:  map[string]any{contractx.MetaDebug: true},
	})
}

func (r *Router) finish(t *turn, text string, extra map[string]any) {
	meta := map[string]any{contractx.MetaPattern: string(t.route)}
	maps.Copy(meta, extra)
	t.trace.Append(contractx.Message{
		Sender:    contractx.RoleRouter,
		Recipient: contractx.RoleUser,
		Content:   text,
		Metadata:  meta,
	})
}

func (r *Router) fail(t *turn, err error) {
	log.Error().Err(err).Str("route", string(t.route)).Msg("router collaborator failure")
	r.note(t, "collaborator failure: %v", err)
	r.finish(t, ApologyText, map[string]any{contractx.MetaError: true})
}

func dataCall(content string, req contractx.DataRequest) contractx.Message {
	return contractx.Message{
		Sender:    contractx.RoleRouter,
		Recipient: contractx.RoleDataWorker,
		Content:   content,
		Metadata:  req.Metadata(),
	}
}

// askData records the delegation, runs it and records the worker's messages. A nil
// result means the worker did not recognize the intent.
func (r *Router) askData(ctx context.Context, t *turn, content string, req contractx.DataRequest) (contractx.DataResult, error) {
	t.trace.Append(dataCall(content, req))
	resp, err := r.data.Handle(ctx, req)
	t.trace.Append(resp.Messages...)
	if err != nil {
		return nil, storeFault(err)
	}
	if resp.UnknownIntent() {
		log.Warn().Str("intent", string(req.DataIntent())).Msg("data worker rejected intent")
		return nil, nil
	}
	return resp.Result, nil
}

func (r *Router) askSupport(
	ctx context.Context,
	t *turn,
	content string,
	req contractx.SupportRequest,
) (contractx.ExecutionResponse[contractx.SupportResult], error) {
	t.trace.Append(contractx.Message{
		Sender:    contractx.RoleRouter,
		Recipient: contractx.RoleSupportWorker,
		Content:   content,
		Metadata:  req.Metadata(),
	})
	resp, err := r.support.Handle(ctx, req)
	t.trace.Append(resp.Messages...)
	if err != nil {
		return resp, fmt.Errorf("support worker intent=%s: %w", req.SupportIntent(), err)
	}
	return resp, nil
}

// relay forwards the support worker's final reply to the user.
func (r *Router) relay(ctx context.Context, t *turn, content string, req contractx.SupportRequest) error {
	resp, err := r.askSupport(ctx, t, content, req)
	if err != nil {
		return err
	}
	if !resp.Done || !resp.Result.Final {
		return fmt.Errorf("support worker intent=%s returned no final reply", req.SupportIntent())
	}
	r.finish(t, resp.Result.Text, nil)
	return nil
}

// storeFault tags a data worker error with ErrStore unless the store already did,
// keeping the cause in the chain.
func storeFault(err error) error {
	if errors.Is(err, contractx.ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %w", contractx.ErrStore, err)
}

type historySlot struct {
	call     contractx.Message
	messages []contractx.Message
	tickets  []contractx.Ticket
}

// histories fetches every customer's ticket history with bounded parallelism. The
// trace receives each call and its reply in customer order once all fetches settle.
func (r *Router) histories(ctx context.Context, t *turn, customers []contractx.Customer) ([][]contractx.Ticket, error) {
	slots := make([]historySlot, len(customers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.FanOutConcurrency)
	for i, c := range customers {
		g.Go(func() error {
			req := contractx.GetCustomerHistoryRequest{CustomerID: c.ID}
			slots[i].call = dataCall("Get customer history", req)
			resp, err := r.data.Handle(gctx, req)
			slots[i].messages = resp.Messages
			if err != nil {
				return storeFault(err)
			}
			if res, ok := resp.Result.(contractx.HistoryResult); ok {
				slots[i].tickets = res.Tickets
			}
			return nil
		})
	}
	err := g.Wait()

	out := make([][]contractx.Ticket, len(slots))
	for i, s := range slots {
		if s.call.Content == "" {
			continue
		}
		t.trace.Append(s.call)
		t.trace.Append(s.messages...)
		out[i] = s.tickets
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
