package dataworker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

// DefaultListLimit applies to customer listings that carry no explicit limit.
const DefaultListLimit = 1000

// Worker translates typed data requests into store calls. It keeps no state between
// calls and always reports Done.
type Worker struct {
	store contractx.Store
}

var _ contractx.DataWorker = (*Worker)(nil)

func New(store contractx.Store) (*Worker, error) {
	if store == nil {
		return nil, errors.New("customer store is required")
	}
	return &Worker{store: store}, nil
}

func (w *Worker) Handle(ctx context.Context, req contractx.DataRequest) (contractx.ExecutionResponse[contractx.DataResult], error) {
	var intent contractx.DataIntent
	if req != nil {
		intent = req.DataIntent()
	}

	resp := contractx.ExecutionResponse[contractx.DataResult]{Done: true}
	resp.Messages = append(resp.Messages, contractx.Message{
		Sender:    contractx.RoleDataWorker,
		Recipient: contractx.RoleRouter,
		Content:   fmt.Sprintf("[DataWorker] Received intent: %s", intent),
		Metadata:  map[string]any{contractx.MetaDebug: true},
	})

	var (
		result  contractx.DataResult
		content string
		meta    map[string]any
		err     error
	)

	switch r := req.(type) {
	case contractx.GetCustomerRequest:
		result, content, meta, err = w.getCustomer(ctx, r)
	case contractx.GetCustomerHistoryRequest:
		result, content, meta, err = w.getHistory(ctx, r)
	case contractx.ListActiveCustomersRequest:
		result, content, meta, err = w.listActive(ctx, contractx.IntentListActiveCustomers, "active_customers", r.Limit)
	case contractx.ListPremiumCustomersRequest:
		result, content, meta, err = w.listActive(ctx, contractx.IntentListPremiumCustomers, "premium_customers", r.Limit)
	case contractx.CreateTicketRequest:
		result, content, meta, err = w.createTicket(ctx, r)
	case contractx.UpdateCustomerEmailRequest:
		result, content, meta, err = w.updateEmail(ctx, r)
	default:
		resp.Messages = append(resp.Messages, contractx.Message{
			Sender:    contractx.RoleDataWorker,
			Recipient: contractx.RoleRouter,
			Content:   "[DataWorker] Unknown intent",
			Metadata: map[string]any{
				contractx.MetaUnknownIntent: true,
				contractx.MetaIntent:        string(intent),
			},
		})
		return resp, nil
	}
	if err != nil {
		return resp, fmt.Errorf("data worker intent=%s: %w", intent, err)
	}

	resp.Result = result
	resp.Messages = append(resp.Messages, contractx.Message{
		Sender:    contractx.RoleDataWorker,
		Recipient: contractx.RoleRouter,
		Content:   content,
		Metadata:  meta,
	})
	return resp, nil
}

func (w *Worker) getCustomer(ctx context.Context, r contractx.GetCustomerRequest) (contractx.DataResult, string, map[string]any, error) {
	c, err := w.store.GetCustomer(ctx, r.CustomerID)
	if err != nil && !errors.Is(err, contractx.ErrCustomerNotFound) {
		return nil, "", nil, err
	}

	meta := map[string]any{"customer": nil}
	if c != nil {
		meta["customer"] = *c
	}
	return contractx.CustomerResult{Customer: c}, "customer_info", meta, nil
}

func (w *Worker) getHistory(ctx context.Context, r contractx.GetCustomerHistoryRequest) (contractx.DataResult, string, map[string]any, error) {
	tickets, err := w.store.GetCustomerHistory(ctx, r.CustomerID)
	if err != nil {
		return nil, "", nil, err
	}
	return contractx.HistoryResult{CustomerID: r.CustomerID, Tickets: tickets},
		"customer_history",
		map[string]any{"history": slices.Clone(tickets)},
		nil
}

// listActive serves both listings: premium and active select the same population.
func (w *Worker) listActive(
	ctx context.Context,
	intent contractx.DataIntent,
	content string,
	limit int,
) (contractx.DataResult, string, map[string]any, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	customers, err := w.store.ListCustomers(ctx, contractx.CustomerActive, limit)
	if err != nil {
		return nil, "", nil, err
	}
	return contractx.CustomersResult{Intent: intent, Customers: customers},
		content,
		map[string]any{"customers": slices.Clone(customers)},
		nil
}

func (w *Worker) createTicket(ctx context.Context, r contractx.CreateTicketRequest) (contractx.DataResult, string, map[string]any, error) {
	priority := r.Priority
	if priority == "" {
		priority = contractx.PriorityMedium
	}

	t, err := w.store.CreateTicket(ctx, r.CustomerID, r.Issue, priority)
	if err != nil && !errors.Is(err, contractx.ErrCustomerNotFound) {
		return nil, "", nil, err
	}

	meta := map[string]any{"ticket": nil}
	if t != nil {
		meta["ticket"] = *t
	}
	return contractx.TicketResult{Ticket: t}, "ticket_created", meta, nil
}

func (w *Worker) updateEmail(ctx context.Context, r contractx.UpdateCustomerEmailRequest) (contractx.DataResult, string, map[string]any, error) {
	email := strings.TrimSpace(r.Email)
	ok := false
	if email != "" {
		var err error
		ok, err = w.store.UpdateCustomer(ctx, r.CustomerID, contractx.CustomerUpdate{Email: &email})
		if err != nil {
			return nil, "", nil, err
		}
	}
	return contractx.EmailUpdateResult{Success: ok, Field: "email", Value: r.Email},
		"customer_updated",
		map[string]any{"success": ok, "field": "email", "value": r.Email},
		nil
}
