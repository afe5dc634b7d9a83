package store

import (
	"time"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

// DemoData returns a small customer/ticket set for local runs. Timestamps are spread
// backwards from now so listings and histories have a stable order.
func DemoData(now time.Time) ([]contractx.Customer, []contractx.Ticket) {
	now = now.UTC().Truncate(time.Second)
	at := func(hoursAgo int) time.Time { return now.Add(-time.Duration(hoursAgo) * time.Hour) }

	customers := []contractx.Customer{
		{ID: 1, Name: "John Doe", Email: "john.doe@example.com", Phone: "+1-555-0101", Status: contractx.CustomerActive, CreatedAt: at(720), UpdatedAt: at(720)},
		{ID: 2, Name: "Jane Smith", Email: "jane.smith@example.com", Phone: "+1-555-0102", Status: contractx.CustomerActive, CreatedAt: at(700), UpdatedAt: at(700)},
		{ID: 3, Name: "Bob Johnson", Email: "bob.johnson@example.com", Phone: "+1-555-0103", Status: contractx.CustomerDisabled, CreatedAt: at(680), UpdatedAt: at(300)},
		{ID: 4, Name: "Alice Williams", Email: "alice.w@example.com", Phone: "+1-555-0104", Status: contractx.CustomerActive, CreatedAt: at(660), UpdatedAt: at(660)},
		{ID: 5, Name: "Ana", Email: "ana@x.com", Phone: "+1-555-0105", Status: contractx.CustomerActive, CreatedAt: at(640), UpdatedAt: at(640)},
		{ID: 6, Name: "Charlie Brown", Email: "charlie.b@example.com", Phone: "+1-555-0106", Status: contractx.CustomerActive, CreatedAt: at(620), UpdatedAt: at(620)},
		{ID: 7, Name: "Eve Davis", Email: "eve.davis@example.com", Phone: "+1-555-0107", Status: contractx.CustomerActive, CreatedAt: at(600), UpdatedAt: at(600)},
	}

	tickets := []contractx.Ticket{
		{ID: 1, CustomerID: 1, Issue: "Cannot log in to the dashboard", Status: contractx.TicketOpen, Priority: contractx.PriorityHigh, CreatedAt: at(48)},
		{ID: 2, CustomerID: 1, Issue: "Invoice shows the wrong company name", Status: contractx.TicketClosed, Priority: contractx.PriorityLow, CreatedAt: at(200)},
		{ID: 3, CustomerID: 2, Issue: "Password reset email never arrives", Status: contractx.TicketInProgress, Priority: contractx.PriorityMedium, CreatedAt: at(30)},
		{ID: 4, CustomerID: 3, Issue: "Data export fails", Status: contractx.TicketOpen, Priority: contractx.PriorityHigh, CreatedAt: at(400)},
		{ID: 5, CustomerID: 4, Issue: "Billing charged after cancellation", Status: contractx.TicketOpen, Priority: contractx.PriorityHigh, CreatedAt: at(12)},
		{ID: 6, CustomerID: 4, Issue: "Feature request: dark mode", Status: contractx.TicketClosed, Priority: contractx.PriorityLow, CreatedAt: at(150)},
		{ID: 7, CustomerID: 5, Issue: "Sync is slow on mobile", Status: contractx.TicketInProgress, Priority: contractx.PriorityHigh, CreatedAt: at(20)},
		{ID: 8, CustomerID: 6, Issue: "API rate limit too low", Status: contractx.TicketClosed, Priority: contractx.PriorityMedium, CreatedAt: at(90)},
	}

	return customers, tickets
}
