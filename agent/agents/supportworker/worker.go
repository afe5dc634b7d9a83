package supportworker

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

// Worker composes user-facing replies. It never retries on its own: when it needs
// more context it says so and the caller decides what to fetch.
type Worker struct{}

var _ contractx.SupportWorker = (*Worker)(nil)

func New() *Worker {
	return &Worker{}
}

func (w *Worker) Handle(ctx context.Context, req contractx.SupportRequest) (contractx.ExecutionResponse[contractx.SupportResult], error) {
	var intent contractx.SupportIntent
	if req != nil {
		intent = req.SupportIntent()
	}

	resp := contractx.ExecutionResponse[contractx.SupportResult]{Done: true}
	resp.Messages = append(resp.Messages, contractx.Message{
		Sender:    contractx.RoleSupportWorker,
		Recipient: contractx.RoleRouter,
		Content:   fmt.Sprintf("[SupportWorker] Handling intent: %s", intent),
		Metadata:  map[string]any{contractx.MetaDebug: true},
	})

	var text string
	switch r := req.(type) {
	case contractx.SimpleSupportRequest:
		text = simpleSupport(r)
	case contractx.BillingCancellationRequest:
		if r.BillingContext == nil {
			resp.Done = false
			resp.Result = contractx.SupportResult{Request: contractx.RequestBillingContext}
			resp.Messages = append(resp.Messages, contractx.Message{
				Sender:    contractx.RoleSupportWorker,
				Recipient: contractx.RoleRouter,
				Content:   "[SupportWorker] I need billing context to proceed with cancellation + refund.",
				Metadata:  map[string]any{contractx.MetaRequest: contractx.RequestBillingContext},
			})
			return resp, nil
		}
		text = billingCancellation(r.BillingContext)
	case contractx.UrgentBillingEscalationRequest:
		text = urgentEscalation(r.Ticket)
	case contractx.TicketSummaryRequest:
		text = ticketSummary(r.Tickets)
	case contractx.UpdateAndHistoryRequest:
		text = updateAndHistory(r)
	case contractx.UpgradeAccountRequest:
		text = upgradeAccount(r)
	default:
		resp.Messages = append(resp.Messages, contractx.Message{
			Sender:    contractx.RoleSupportWorker,
			Recipient: contractx.RoleRouter,
			Content:   "[SupportWorker] Unknown intent",
			Metadata: map[string]any{
				contractx.MetaUnknownIntent: true,
				contractx.MetaIntent:        string(intent),
			},
		})
		return resp, nil
	}

	resp.Result = contractx.SupportResult{Text: text, Final: true}
	resp.Messages = append(resp.Messages, contractx.Message{
		Sender:    contractx.RoleSupportWorker,
		Recipient: contractx.RoleRouter,
		Content:   text,
		Metadata:  map[string]any{contractx.MetaFinalResponse: true},
	})
	return resp, nil
}

func simpleSupport(r contractx.SimpleSupportRequest) string {
	id := "none"
	if r.CustomerID != nil {
		id = fmt.Sprint(*r.CustomerID)
	}
	text := fmt.Sprintf("I can help with your account (customer_id=%s).", id)
	if r.Customer != nil {
		text += fmt.Sprintf(" I see we have %s on file.", r.Customer.Name)
	}
	return text
}

func billingCancellation(history []contractx.Ticket) string {
	text := "I'm sorry for the trouble with your billing. I can cancel your subscription and make sure any billing issues are resolved first."
	switch n := len(history); n {
	case 0:
		text += " I found no previous tickets on your account."
	case 1:
		text += " I've reviewed the 1 ticket on your account."
	default:
		text += fmt.Sprintf(" I've reviewed the %d tickets on your account.", n)
	}
	return text
}

func urgentEscalation(ticket *contractx.Ticket) string {
	text := "I'm sorry you were charged twice. " +
		"I've created a high-priority ticket for our billing team to review and issue a refund."
	if ticket != nil {
		text += fmt.Sprintf(" Your ticket ID is %d.", ticket.ID)
	}
	return text
}

func ticketSummary(tickets []contractx.Ticket) string {
	if len(tickets) == 0 {
		return "There are no high-priority tickets for these customers."
	}
	lines := make([]string, 0, len(tickets)+1)
	lines = append(lines, "High-priority tickets:")
	for _, t := range tickets {
		lines = append(lines, fmt.Sprintf("Ticket #%d (customer_id=%d): %s [%s, %s]",
			t.ID, t.CustomerID, t.Issue, t.Status, t.Priority))
	}
	return strings.Join(lines, "\n")
}

func updateAndHistory(r contractx.UpdateAndHistoryRequest) string {
	var b strings.Builder
	if r.UpdateOK {
		b.WriteString("I've updated your email address. ")
	} else {
		b.WriteString("I tried to update your email, but something went wrong. ")
	}
	if len(r.History) == 0 {
		b.WriteString("You currently have no tickets on file.")
		return b.String()
	}
	b.WriteString("Here is your ticket history:")
	for _, t := range r.History {
		fmt.Fprintf(&b, "\n- Ticket #%d: %s [%s, %s]", t.ID, t.Issue, t.Status, t.Priority)
	}
	return b.String()
}

func upgradeAccount(r contractx.UpgradeAccountRequest) string {
	text := "I can help upgrade your account."
	if r.Customer != nil {
		text += fmt.Sprintf(" I see your account under %s.", r.Customer.Name)
	}
	return text + " I'll submit an upgrade request based on your current status."
}
