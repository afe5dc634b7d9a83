package store

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

var baseTime = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *BunStore {
	t.Helper()

	s, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	clock := baseTime.Add(24 * time.Hour)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	ctx := context.Background()
	if err := s.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}

	customers := []contractx.Customer{
		{ID: 1, Name: "John Doe", Email: "john@x.com", Status: contractx.CustomerActive, CreatedAt: baseTime, UpdatedAt: baseTime},
		{ID: 2, Name: "Jane Roe", Email: "jane@x.com", Status: contractx.CustomerDisabled, CreatedAt: baseTime.Add(time.Hour), UpdatedAt: baseTime},
		{ID: 5, Name: "Ana", Email: "ana@x.com", Status: contractx.CustomerActive, CreatedAt: baseTime.Add(2 * time.Hour), UpdatedAt: baseTime},
	}
	tickets := []contractx.Ticket{
		{ID: 1, CustomerID: 1, Issue: "login fails", Status: contractx.TicketOpen, Priority: contractx.PriorityHigh, CreatedAt: baseTime},
		{ID: 2, CustomerID: 1, Issue: "invoice typo", Status: contractx.TicketClosed, Priority: contractx.PriorityLow, CreatedAt: baseTime.Add(time.Hour)},
		{ID: 3, CustomerID: 5, Issue: "slow sync", Status: contractx.TicketInProgress, Priority: contractx.PriorityMedium, CreatedAt: baseTime},
	}
	if err := s.Seed(ctx, customers, tickets); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return s
}

func TestGetCustomer(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.GetCustomer(ctx, 5)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if c.Name != "Ana" || c.Email != "ana@x.com" {
		t.Fatalf("GetCustomer() = %#v", c)
	}

	again, err := s.GetCustomer(ctx, 5)
	if err != nil {
		t.Fatalf("GetCustomer() second call error = %v", err)
	}
	if *again != *c {
		t.Fatalf("repeated reads differ: %#v vs %#v", again, c)
	}

	_, err = s.GetCustomer(ctx, 404)
	if !errors.Is(err, contractx.ErrCustomerNotFound) {
		t.Fatalf("GetCustomer(404) error = %v, want ErrCustomerNotFound", err)
	}
}

func TestListCustomersFiltersAndOrders(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	active, err := s.ListCustomers(context.Background(), contractx.CustomerActive, 10)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("len(active) = %d, want 2", len(active))
	}
	if active[0].ID != 5 || active[1].ID != 1 {
		t.Fatalf("active order = [%d %d], want [5 1]", active[0].ID, active[1].ID)
	}

	all, err := s.ListCustomers(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(all) = %d, want limit 1", len(all))
	}
}

func TestUpdateCustomer(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	email := "new@email.com"

	ok, err := s.UpdateCustomer(ctx, 1, contractx.CustomerUpdate{Email: &email})
	if err != nil {
		t.Fatalf("UpdateCustomer() error = %v", err)
	}
	if !ok {
		t.Fatal("UpdateCustomer() = false, want true")
	}
	c, err := s.GetCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if c.Email != email {
		t.Fatalf("email = %q, want %q", c.Email, email)
	}
	if !c.UpdatedAt.After(baseTime) {
		t.Fatalf("updated_at not bumped: %v", c.UpdatedAt)
	}

	ok, err = s.UpdateCustomer(ctx, 404, contractx.CustomerUpdate{Email: &email})
	if err != nil {
		t.Fatalf("UpdateCustomer(404) error = %v", err)
	}
	if ok {
		t.Fatal("UpdateCustomer(404) = true, want false")
	}

	ok, err = s.UpdateCustomer(ctx, 1, contractx.CustomerUpdate{})
	if err != nil || ok {
		t.Fatalf("UpdateCustomer(empty) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestCreateTicketAndHistory(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	ticket, err := s.CreateTicket(ctx, 1, "charged twice", contractx.PriorityHigh)
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if ticket.ID == 0 || ticket.Status != contractx.TicketOpen || ticket.Priority != contractx.PriorityHigh {
		t.Fatalf("CreateTicket() = %#v", ticket)
	}

	history, err := s.GetCustomerHistory(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomerHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("len(history) = %d, want 3", len(history))
	}
	if history[0].ID != ticket.ID || history[1].ID != 2 || history[2].ID != 1 {
		t.Fatalf("history not most-recent-first: %d %d %d", history[0].ID, history[1].ID, history[2].ID)
	}

	if _, err := s.CreateTicket(ctx, 1, "x", "urgent"); !errors.Is(err, contractx.ErrInvalidPriority) {
		t.Fatalf("CreateTicket(bad priority) error = %v, want ErrInvalidPriority", err)
	}
	if _, err := s.CreateTicket(ctx, 404, "x", contractx.PriorityLow); !errors.Is(err, contractx.ErrCustomerNotFound) {
		t.Fatalf("CreateTicket(404) error = %v, want ErrCustomerNotFound", err)
	}

	empty, err := s.GetCustomerHistory(ctx, 2)
	if err != nil {
		t.Fatalf("GetCustomerHistory(2) error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("len(history 2) = %d, want 0", len(empty))
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(Config{Driver: "oracle", DSN: "x"})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Open() error = %v, want ErrValidation", err)
	}
}

func TestSeedIsIdempotentAndDemoDataLoads(t *testing.T) {
	t.Parallel()

	s, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	if err := s.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}

	customers, tickets := DemoData(baseTime)
	for i := 0; i < 2; i++ {
		if err := s.Seed(ctx, customers, tickets); err != nil {
			t.Fatalf("Seed() run %d error = %v", i+1, err)
		}
	}

	all, err := s.ListCustomers(ctx, "", 100)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(all) != len(customers) {
		t.Fatalf("len(customers) = %d, want %d", len(all), len(customers))
	}

	ticket, err := s.CreateTicket(ctx, 5, "charged twice", contractx.PriorityHigh)
	if err != nil {
		t.Fatalf("CreateTicket() after seed error = %v", err)
	}
	if ticket.ID <= len(tickets) {
		t.Fatalf("new ticket id = %d collides with seeded ids", ticket.ID)
	}
}
