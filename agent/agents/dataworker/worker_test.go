package dataworker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

type fakeStore struct {
	customers map[int]contractx.Customer
	tickets   map[int][]contractx.Ticket
	nextID    int
	err       error

	updates     []contractx.CustomerUpdate
	listLimits  []int
	listStatus  []contractx.CustomerStatus
	createCalls []contractx.Ticket
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[int]contractx.Customer{
			5: {ID: 5, Name: "Ana", Email: "ana@x.com", Status: contractx.CustomerActive},
		},
		tickets: map[int][]contractx.Ticket{
			5: {{ID: 9, CustomerID: 5, Issue: "refund", Status: contractx.TicketOpen, Priority: contractx.PriorityHigh}},
		},
		nextID: 100,
	}
}

func (f *fakeStore) GetCustomer(ctx context.Context, id int) (*contractx.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", contractx.ErrCustomerNotFound, id)
	}
	return &c, nil
}

func (f *fakeStore) ListCustomers(ctx context.Context, status contractx.CustomerStatus, limit int) ([]contractx.Customer, error) {
	f.listLimits = append(f.listLimits, limit)
	f.listStatus = append(f.listStatus, status)
	if f.err != nil {
		return nil, f.err
	}
	return []contractx.Customer{f.customers[5]}, nil
}

func (f *fakeStore) UpdateCustomer(ctx context.Context, id int, fields contractx.CustomerUpdate) (bool, error) {
	f.updates = append(f.updates, fields)
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.customers[id]
	return ok, nil
}

func (f *fakeStore) CreateTicket(ctx context.Context, customerID int, issue string, priority contractx.Priority) (*contractx.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.customers[customerID]; !ok {
		return nil, contractx.ErrCustomerNotFound
	}
	f.nextID++
	t := contractx.Ticket{ID: f.nextID, CustomerID: customerID, Issue: issue, Status: contractx.TicketOpen, Priority: priority}
	f.createCalls = append(f.createCalls, t)
	return &t, nil
}

func (f *fakeStore) GetCustomerHistory(ctx context.Context, customerID int) ([]contractx.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tickets[customerID], nil
}

type bogusRequest struct{}

func (bogusRequest) DataIntent() contractx.DataIntent { return "delete_everything" }
func (bogusRequest) Metadata() map[string]any         { return nil }

func newWorker(t *testing.T, store contractx.Store) *Worker {
	t.Helper()
	w, err := New(store)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w
}

func TestHandleGetCustomer(t *testing.T) {
	t.Parallel()

	w := newWorker(t, newFakeStore())
	resp, err := w.Handle(context.Background(), contractx.GetCustomerRequest{CustomerID: 5})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !resp.Done {
		t.Fatal("data worker must always be done")
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(resp.Messages))
	}
	if got := resp.Messages[0].Content; got != "[DataWorker] Received intent: get_customer" {
		t.Fatalf("debug message = %q", got)
	}
	if !resp.Messages[0].Flag(contractx.MetaDebug) {
		t.Fatal("first message must be marked debug")
	}
	if resp.Messages[1].Content != "customer_info" {
		t.Fatalf("result content = %q", resp.Messages[1].Content)
	}

	res, ok := resp.Result.(contractx.CustomerResult)
	if !ok || res.Customer == nil || res.Customer.Name != "Ana" {
		t.Fatalf("unexpected result: %#v", resp.Result)
	}
}

func TestHandleGetCustomerNotFound(t *testing.T) {
	t.Parallel()

	w := newWorker(t, newFakeStore())
	resp, err := w.Handle(context.Background(), contractx.GetCustomerRequest{CustomerID: 404})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	res := resp.Result.(contractx.CustomerResult)
	if res.Customer != nil {
		t.Fatalf("expected nil customer, got %#v", res.Customer)
	}
	if _, ok := resp.Messages[1].Metadata["customer"]; !ok {
		t.Fatal("customer key must be present even when not found")
	}
}

func TestHandleListingsUseActiveStatusAndDefaultLimit(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	w := newWorker(t, store)

	premium, err := w.Handle(context.Background(), contractx.ListPremiumCustomersRequest{})
	if err != nil {
		t.Fatalf("Handle(premium) error = %v", err)
	}
	active, err := w.Handle(context.Background(), contractx.ListActiveCustomersRequest{Limit: 3})
	if err != nil {
		t.Fatalf("Handle(active) error = %v", err)
	}

	if premium.Messages[1].Content != "premium_customers" || active.Messages[1].Content != "active_customers" {
		t.Fatalf("unexpected contents: %q %q", premium.Messages[1].Content, active.Messages[1].Content)
	}
	if store.listLimits[0] != DefaultListLimit || store.listLimits[1] != 3 {
		t.Fatalf("limits = %v", store.listLimits)
	}
	for _, st := range store.listStatus {
		if st != contractx.CustomerActive {
			t.Fatalf("status = %q, want active", st)
		}
	}
}

func TestHandleCreateTicketDefaultsPriority(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	w := newWorker(t, store)

	resp, err := w.Handle(context.Background(), contractx.CreateTicketRequest{CustomerID: 5, Issue: "broken"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	res := resp.Result.(contractx.TicketResult)
	if res.Ticket == nil || res.Ticket.Priority != contractx.PriorityMedium {
		t.Fatalf("unexpected ticket: %#v", res.Ticket)
	}
	if resp.Messages[1].Content != "ticket_created" {
		t.Fatalf("content = %q", resp.Messages[1].Content)
	}
}

func TestHandleUpdateEmail(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	w := newWorker(t, store)

	resp, err := w.Handle(context.Background(), contractx.UpdateCustomerEmailRequest{CustomerID: 5, Email: "new@x.com"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	res := resp.Result.(contractx.EmailUpdateResult)
	if !res.Success || res.Field != "email" || res.Value != "new@x.com" {
		t.Fatalf("unexpected result: %#v", res)
	}
	meta := resp.Messages[1].Metadata
	if meta["success"] != true || meta["field"] != "email" || meta["value"] != "new@x.com" {
		t.Fatalf("unexpected metadata: %#v", meta)
	}

	resp, err = w.Handle(context.Background(), contractx.UpdateCustomerEmailRequest{CustomerID: 5})
	if err != nil {
		t.Fatalf("Handle(empty email) error = %v", err)
	}
	if resp.Result.(contractx.EmailUpdateResult).Success {
		t.Fatal("empty email must not report success")
	}
	if len(store.updates) != 1 {
		t.Fatalf("store updated %d times, want 1", len(store.updates))
	}
}

func TestHandleUnknownIntent(t *testing.T) {
	t.Parallel()

	w := newWorker(t, newFakeStore())
	resp, err := w.Handle(context.Background(), bogusRequest{})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !resp.Done || !resp.UnknownIntent() {
		t.Fatalf("expected done unknown-intent response, got %#v", resp)
	}
	if resp.Result != nil {
		t.Fatalf("unknown intent must carry no result, got %#v", resp.Result)
	}
	if resp.Messages[1].String(contractx.MetaIntent) != "delete_everything" {
		t.Fatalf("intent marker = %#v", resp.Messages[1].Metadata)
	}
}

func TestHandleStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.err = fmt.Errorf("%w: connection refused", contractx.ErrStore)
	w := newWorker(t, store)

	resp, err := w.Handle(context.Background(), contractx.GetCustomerHistoryRequest{CustomerID: 5})
	if !errors.Is(err, contractx.ErrStore) {
		t.Fatalf("Handle() error = %v, want ErrStore", err)
	}
	if len(resp.Messages) != 1 {
		t.Fatalf("only the debug message should be recorded, got %d", len(resp.Messages))
	}
}
