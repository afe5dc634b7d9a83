package contract

import (
	"maps"
	"time"
)

type Role string

const (
	RoleUser          Role = "user"
	RoleRouter        Role = "router"
	RoleDataWorker    Role = "data_worker"
	RoleSupportWorker Role = "support_worker"
)

// Message is one inter-component record of the trace. Content is a machine tag for
// intermediate messages and human-readable text for the final reply.
type Message struct {
	Sender    Role           `json:"sender"`
	Recipient Role           `json:"recipient"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (m Message) Flag(key string) bool {
	v, _ := m.Metadata[key].(bool)
	return v
}

func (m Message) String(key string) string {
	v, _ := m.Metadata[key].(string)
	return v
}

func (m Message) clone() Message {
	if m.Metadata != nil {
		m.Metadata = maps.Clone(m.Metadata)
	}
	return m
}

// Metadata keys shared between workers and the router.
const (
	MetaDebug         = "debug"
	MetaIntent        = "intent"
	MetaUnknownIntent = "unknown_intent"
	MetaFinalResponse = "final_response"
	MetaRequest       = "request"
	MetaPattern       = "pattern"
	MetaError         = "error"
)

// RequestBillingContext is the negotiation tag a support worker emits when it cannot
// finish a cancellation without the customer's billing history.
const RequestBillingContext = "billing_context"

// ExecutionResponse is the outcome of one worker step. Done=false means the worker
// declined to finish and asked for more context.
type ExecutionResponse[R any] struct {
	Messages []Message
	Done     bool
	Result   R
}

// Request returns the context request tag carried by any message of the step.
func (r ExecutionResponse[R]) Request() string {
	for _, m := range r.Messages {
		if req := m.String(MetaRequest); req != "" {
			return req
		}
	}
	return ""
}

func (r ExecutionResponse[R]) UnknownIntent() bool {
	for _, m := range r.Messages {
		if m.Flag(MetaUnknownIntent) {
			return true
		}
	}
	return false
}

type Route string

const (
	RouteSimpleLookup        Route = "simple_lookup"
	RouteTaskAllocation      Route = "task_allocation"
	RouteBillingCancellation Route = "billing_cancellation"
	RoutePremiumHighPriority Route = "premium_high_priority"
	RouteActiveOpenTickets   Route = "active_open_tickets"
	RouteUrgentRefund        Route = "urgent_refund"
	RouteEmailUpdateHistory  Route = "email_update_history"
	RouteUpgradeAccount      Route = "upgrade_account"
	RouteFallback            Route = "fallback"
)

// Routes lists every route in rule priority order; fallback is always last.
var Routes = []Route{
	RouteSimpleLookup,
	RouteTaskAllocation,
	RouteBillingCancellation,
	RoutePremiumHighPriority,
	RouteActiveOpenTickets,
	RouteUrgentRefund,
	RouteEmailUpdateHistory,
	RouteUpgradeAccount,
	RouteFallback,
}

func (r Route) Valid() bool {
	for _, known := range Routes {
		if r == known {
			return true
		}
	}
	return false
}

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerDisabled CustomerStatus = "disabled"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketClosed     TicketStatus = "closed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Customer struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Status    CustomerStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Ticket struct {
	ID         int          `json:"id"`
	CustomerID int          `json:"customer_id"`
	Issue      string       `json:"issue"`
	Status     TicketStatus `json:"status"`
	Priority   Priority     `json:"priority"`
	CreatedAt  time.Time    `json:"created_at"`
}

// CustomerUpdate carries the mutable customer fields; nil means unchanged.
type CustomerUpdate struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *CustomerStatus
}

func (u CustomerUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Status == nil
}
