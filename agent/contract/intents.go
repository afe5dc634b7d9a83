package contract

import "slices"

type DataIntent string

const (
	IntentGetCustomer          DataIntent = "get_customer"
	IntentGetCustomerHistory   DataIntent = "get_customer_history"
	IntentListActiveCustomers  DataIntent = "list_active_customers"
	IntentListPremiumCustomers DataIntent = "list_premium_customers"
	IntentCreateTicket         DataIntent = "create_ticket"
	IntentUpdateCustomerEmail  DataIntent = "update_customer_email"
)

type SupportIntent string

const (
	IntentSimpleSupport           SupportIntent = "simple_support"
	IntentBillingCancellation     SupportIntent = "billing_cancellation"
	IntentUrgentBillingEscalation SupportIntent = "urgent_billing_escalation"
	IntentTicketSummary           SupportIntent = "ticket_summary"
	IntentUpdateAndHistoryReply   SupportIntent = "update_and_history_reply"
	IntentUpgradeAccount          SupportIntent = "upgrade_account"
)

/* ----------------------------- data requests ----------------------------- */

// DataRequest is the closed set of calls a data worker understands. Metadata renders
// the call parameters for the trace.
type DataRequest interface {
	DataIntent() DataIntent
	Metadata() map[string]any
}

type GetCustomerRequest struct {
	CustomerID int
}

func (GetCustomerRequest) DataIntent() DataIntent { return IntentGetCustomer }

func (r GetCustomerRequest) Metadata() map[string]any {
	return map[string]any{MetaIntent: string(IntentGetCustomer), "customer_id": r.CustomerID}
}

type GetCustomerHistoryRequest struct {
	CustomerID int
}

func (GetCustomerHistoryRequest) DataIntent() DataIntent { return IntentGetCustomerHistory }

func (r GetCustomerHistoryRequest) Metadata() map[string]any {
	return map[string]any{MetaIntent: string(IntentGetCustomerHistory), "customer_id": r.CustomerID}
}

type ListActiveCustomersRequest struct {
	Limit int
}

func (ListActiveCustomersRequest) DataIntent() DataIntent { return IntentListActiveCustomers }

func (r ListActiveCustomersRequest) Metadata() map[string]any {
	m := map[string]any{MetaIntent: string(IntentListActiveCustomers)}
	if r.Limit > 0 {
		m["limit"] = r.Limit
	}
	return m
}

// ListPremiumCustomersRequest selects the same population as the active listing;
// the store has no separate premium tier.
type ListPremiumCustomersRequest struct {
	Limit int
}

func (ListPremiumCustomersRequest) DataIntent() DataIntent { return IntentListPremiumCustomers }

func (r ListPremiumCustomersRequest) Metadata() map[string]any {
	m := map[string]any{MetaIntent: string(IntentListPremiumCustomers)}
	if r.Limit > 0 {
		m["limit"] = r.Limit
	}
	return m
}

type CreateTicketRequest struct {
	CustomerID int
	Issue      string
	Priority   Priority
}

func (CreateTicketRequest) DataIntent() DataIntent { return IntentCreateTicket }

func (r CreateTicketRequest) Metadata() map[string]any {
	m := map[string]any{
		MetaIntent:    string(IntentCreateTicket),
		"customer_id": r.CustomerID,
		"issue":       r.Issue,
	}
	if r.Priority != "" {
		m["priority"] = string(r.Priority)
	}
	return m
}

type UpdateCustomerEmailRequest struct {
	CustomerID int
	Email      string
}

func (UpdateCustomerEmailRequest) DataIntent() DataIntent { return IntentUpdateCustomerEmail }

func (r UpdateCustomerEmailRequest) Metadata() map[string]any {
	return map[string]any{
		MetaIntent:    string(IntentUpdateCustomerEmail),
		"customer_id": r.CustomerID,
		"email":       r.Email,
	}
}

/* ------------------------------ data results ----------------------------- */

type DataResult interface {
	DataIntent() DataIntent
}

// CustomerResult holds a nil Customer when no record matched.
type CustomerResult struct {
	Customer *Customer
}

func (CustomerResult) DataIntent() DataIntent { return IntentGetCustomer }

type HistoryResult struct {
	CustomerID int
	Tickets    []Ticket
}

func (HistoryResult) DataIntent() DataIntent { return IntentGetCustomerHistory }

type CustomersResult struct {
	Intent    DataIntent
	Customers []Customer
}

func (r CustomersResult) DataIntent() DataIntent { return r.Intent }

// TicketResult holds a nil Ticket when the customer does not exist.
type TicketResult struct {
	Ticket *Ticket
}

func (TicketResult) DataIntent() DataIntent { return IntentCreateTicket }

type EmailUpdateResult struct {
	Success bool
	Field   string
	Value   string
}

func (EmailUpdateResult) DataIntent() DataIntent { return IntentUpdateCustomerEmail }

/* ---------------------------- support requests --------------------------- */

type SupportRequest interface {
	SupportIntent() SupportIntent
	Metadata() map[string]any
}

type SimpleSupportRequest struct {
	CustomerID *int
	Customer   *Customer
}

func (SimpleSupportRequest) SupportIntent() SupportIntent { return IntentSimpleSupport }

func (r SimpleSupportRequest) Metadata() map[string]any {
	return map[string]any{
		MetaIntent:    string(IntentSimpleSupport),
		"customer_id": optionalInt(r.CustomerID),
		"customer":    optionalCustomer(r.Customer),
	}
}

// BillingCancellationRequest carries the billing history once the router has fetched
// it; a nil BillingContext means none was supplied yet.
type BillingCancellationRequest struct {
	Text           string
	BillingContext []Ticket
}

func (BillingCancellationRequest) SupportIntent() SupportIntent { return IntentBillingCancellation }

func (r BillingCancellationRequest) Metadata() map[string]any {
	m := map[string]any{MetaIntent: string(IntentBillingCancellation)}
	if r.BillingContext != nil {
		m["tickets"] = slices.Clone(r.BillingContext)
	}
	return m
}

type UrgentBillingEscalationRequest struct {
	Ticket *Ticket
}

func (UrgentBillingEscalationRequest) SupportIntent() SupportIntent {
	return IntentUrgentBillingEscalation
}

func (r UrgentBillingEscalationRequest) Metadata() map[string]any {
	m := map[string]any{MetaIntent: string(IntentUrgentBillingEscalation), "ticket": nil}
	if r.Ticket != nil {
		m["ticket"] = *r.Ticket
	}
	return m
}

type TicketSummaryRequest struct {
	Tickets []Ticket
}

func (TicketSummaryRequest) SupportIntent() SupportIntent { return IntentTicketSummary }

func (r TicketSummaryRequest) Metadata() map[string]any {
	return map[string]any{MetaIntent: string(IntentTicketSummary), "tickets": slices.Clone(r.Tickets)}
}

type UpdateAndHistoryRequest struct {
	UpdateOK bool
	History  []Ticket
}

func (UpdateAndHistoryRequest) SupportIntent() SupportIntent { return IntentUpdateAndHistoryReply }

func (r UpdateAndHistoryRequest) Metadata() map[string]any {
	return map[string]any{
		MetaIntent:  string(IntentUpdateAndHistoryReply),
		"update_ok": r.UpdateOK,
		"history":   slices.Clone(r.History),
	}
}

type UpgradeAccountRequest struct {
	CustomerID *int
	Customer   *Customer
}

func (UpgradeAccountRequest) SupportIntent() SupportIntent { return IntentUpgradeAccount }

func (r UpgradeAccountRequest) Metadata() map[string]any {
	return map[string]any{
		MetaIntent:    string(IntentUpgradeAccount),
		"customer_id": optionalInt(r.CustomerID),
		"customer":    optionalCustomer(r.Customer),
	}
}

// SupportResult is the composed reply. Final is false while the worker is waiting
// for the context named by Request.
type SupportResult struct {
	Text    string
	Final   bool
	Request string
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func optionalCustomer(c *Customer) any {
	if c == nil {
		return nil
	}
	return *c
}
