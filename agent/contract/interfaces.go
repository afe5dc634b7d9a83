package contract

import "context"

// Store is the customer/ticket data-access collaborator.
type Store interface {
	GetCustomer(ctx context.Context, id int) (*Customer, error)
	ListCustomers(ctx context.Context, status CustomerStatus, limit int) ([]Customer, error)
	UpdateCustomer(ctx context.Context, id int, fields CustomerUpdate) (bool, error)
	CreateTicket(ctx context.Context, customerID int, issue string, priority Priority) (*Ticket, error)
	GetCustomerHistory(ctx context.Context, customerID int) ([]Ticket, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (Route, error)
}

type DataWorker interface {
	Handle(ctx context.Context, req DataRequest) (ExecutionResponse[DataResult], error)
}

type SupportWorker interface {
	Handle(ctx context.Context, req SupportRequest) (ExecutionResponse[SupportResult], error)
}

// TraceSink receives the full trace of every completed request.
type TraceSink interface {
	Publish(ctx context.Context, record TraceRecord) error
}

type TraceRecord struct {
	RequestID string    `json:"request_id"`
	SessionID string    `json:"session_id"`
	Route     Route     `json:"route"`
	FinalText string    `json:"final_text"`
	Messages  []Message `json:"messages"`
}
