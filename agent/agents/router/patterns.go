package router

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	"github.com/tanpawarit/chative-support-router/agent/textparse"
)

const (
	anchorLookup   = "ID"
	anchorAccount  = "customer ID"
	anchorCustomer = "customer"

	billingCancellationText = "I can help cancel your subscription and review your billing history. " +
		"Based on your recent tickets, I'll prioritize resolving the billing issues."
	noOpenTicketsText = "No active customers currently have open tickets."
)

// lookupID extracts an id after anchor and remembers it when the text carried one.
func (r *Router) lookupID(t *turn, anchor string, def int) int {
	id, found := textparse.IDAfter(t.text, anchor, def)
	if found {
		t.session.Remember(id, r.now())
	}
	return id
}

func (r *Router) sessionCustomer(t *turn) int {
	return t.session.CustomerIDOr(r.cfg.DefaultCustomerID)
}

func (r *Router) getCustomer(ctx context.Context, t *turn, id int) (*contractx.Customer, error) {
	res, err := r.askData(ctx, t, "Get customer info", contractx.GetCustomerRequest{CustomerID: id})
	if err != nil {
		return nil, err
	}
	out, _ := res.(contractx.CustomerResult)
	return out.Customer, nil
}

func (r *Router) getHistory(ctx context.Context, t *turn, id int) ([]contractx.Ticket, error) {
	res, err := r.askData(ctx, t, "Get customer history", contractx.GetCustomerHistoryRequest{CustomerID: id})
	if err != nil {
		return nil, err
	}
	out, _ := res.(contractx.HistoryResult)
	return out.Tickets, nil
}

func (r *Router) simpleLookup(ctx context.Context, t *turn) error {
	id := r.lookupID(t, anchorLookup, r.cfg.DefaultCustomerID)
	r.note(t, "Simple get_customer for id=%d", id)

	customer, err := r.getCustomer(ctx, t, id)
	if err != nil {
		return err
	}
	if customer == nil {
		r.finish(t, fmt.Sprintf("No customer found with ID %d.", id), nil)
		return nil
	}
	r.finish(t, fmt.Sprintf("Customer %d: %s (%s)", id, customer.Name, customer.Email), nil)
	return nil
}

func (r *Router) taskAllocation(ctx context.Context, t *turn) error {
	id := r.lookupID(t, anchorAccount, r.cfg.DefaultCustomerID)
	r.note(t, "Task allocation for customer_id=%d", id)

	customer, err := r.getCustomer(ctx, t, id)
	if err != nil {
		return err
	}
	r.note(t, "Delegating account support to SupportWorker")
	return r.relay(ctx, t, "Handle support for this account", contractx.SimpleSupportRequest{
		CustomerID: &id,
		Customer:   customer,
	})
}

// billingCancellation negotiates with the support worker and finalizes the reply
// itself once the billing history is known.
func (r *Router) billingCancellation(ctx context.Context, t *turn) error {
	r.note(t, "Cancellation + billing negotiation")

	resp, err := r.askSupport(ctx, t, t.text, contractx.BillingCancellationRequest{Text: t.text})
	if err != nil {
		return err
	}

	history := []contractx.Ticket{}
	if !resp.Done && resp.Request() == contractx.RequestBillingContext {
		id := r.sessionCustomer(t)
		r.note(t, "SupportWorker requested billing context; fetching history for customer_id=%d", id)
		tickets, err := r.getHistory(ctx, t, id)
		if err != nil {
			return err
		}
		if tickets != nil {
			history = tickets
		}
	} else {
		r.note(t, "SupportWorker did not request billing context")
	}

	r.finish(t, billingCancellationText, map[string]any{"tickets": history})
	return nil
}

func (r *Router) premiumHighPriority(ctx context.Context, t *turn) error {
	r.note(t, "Multi-step coordination for high-priority tickets")

	res, err := r.askData(ctx, t, "Get premium customers", contractx.ListPremiumCustomersRequest{Limit: r.cfg.ListLimit})
	if err != nil {
		return err
	}
	customers, _ := res.(contractx.CustomersResult)

	r.note(t, "Fetching ticket history for %d premium customers", len(customers.Customers))
	histories, err := r.histories(ctx, t, customers.Customers)
	if err != nil {
		return err
	}

	high := []contractx.Ticket{}
	for _, tickets := range histories {
		for _, ticket := range tickets {
			if ticket.Priority == contractx.PriorityHigh {
				high = append(high, ticket)
			}
		}
	}

	r.note(t, "Summarizing %d high-priority tickets", len(high))
	return r.relay(ctx, t, "Summarize high-priority tickets", contractx.TicketSummaryRequest{Tickets: high})
}

func (r *Router) activeOpenTickets(ctx context.Context, t *turn) error {
	r.note(t, "Active customers with open tickets")

	res, err := r.askData(ctx, t, "Get active customers", contractx.ListActiveCustomersRequest{Limit: r.cfg.ListLimit})
	if err != nil {
		return err
	}
	customers, _ := res.(contractx.CustomersResult)

	r.note(t, "Fetching ticket history for %d active customers", len(customers.Customers))
	histories, err := r.histories(ctx, t, customers.Customers)
	if err != nil {
		return err
	}

	var lines []string
	for i, c := range customers.Customers {
		open := 0
		for _, ticket := range histories[i] {
			if ticket.Status == contractx.TicketOpen {
				open++
			}
		}
		if open > 0 {
			lines = append(lines, fmt.Sprintf("Customer %d (%s): %d open ticket(s)", c.ID, c.Name, open))
		}
	}

	if len(lines) == 0 {
		r.finish(t, noOpenTicketsText, nil)
		return nil
	}
	r.finish(t, "Active customers with open tickets:\n"+strings.Join(lines, "\n"), nil)
	return nil
}

func (r *Router) urgentRefund(ctx context.Context, t *turn) error {
	id := r.sessionCustomer(t)
	r.note(t, "Urgent double-charge refund for customer_id=%d", id)

	res, err := r.askData(ctx, t, "Create urgent billing ticket", contractx.CreateTicketRequest{
		CustomerID: id,
		Issue:      t.text,
		Priority:   contractx.PriorityHigh,
	})
	if err != nil {
		return err
	}
	created, _ := res.(contractx.TicketResult)

	r.note(t, "Escalating ticket to SupportWorker")
	return r.relay(ctx, t, "Urgent billing escalation", contractx.UrgentBillingEscalationRequest{Ticket: created.Ticket})
}

func (r *Router) emailUpdateHistory(ctx context.Context, t *turn) error {
	id := r.sessionCustomer(t)
	email := textparse.Email(t.text)
	r.note(t, "Update email + show history for customer_id=%d", id)

	res, err := r.askData(ctx, t, "Update customer email", contractx.UpdateCustomerEmailRequest{
		CustomerID: id,
		Email:      email,
	})
	if err != nil {
		return err
	}
	updated, _ := res.(contractx.EmailUpdateResult)

	r.note(t, "Email update success=%t; fetching history for customer_id=%d", updated.Success, id)
	history, err := r.getHistory(ctx, t, id)
	if err != nil {
		return err
	}

	r.note(t, "Composing update + history reply from %d tickets", len(history))
	return r.relay(ctx, t, "Update + history combined reply", contractx.UpdateAndHistoryRequest{
		UpdateOK: updated.Success,
		History:  history,
	})
}

func (r *Router) upgradeAccount(ctx context.Context, t *turn) error {
	id := r.lookupID(t, anchorCustomer, r.sessionCustomer(t))
	r.note(t, "Account upgrade for customer_id=%d", id)

	customer, err := r.getCustomer(ctx, t, id)
	if err != nil {
		return err
	}
	r.note(t, "Delegating upgrade to SupportWorker")
	return r.relay(ctx, t, "Handle account upgrade", contractx.UpgradeAccountRequest{
		CustomerID: &id,
		Customer:   customer,
	})
}

func (r *Router) fallback(ctx context.Context, t *turn) error {
	r.note(t, "Defaulting to simple support")
	return r.relay(ctx, t, "General support", contractx.SimpleSupportRequest{})
}
