package store

import (
	"time"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	"github.com/uptrace/bun"
)

type customerModel struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID        int64                    `bun:"id,pk,autoincrement"`
	Name      string                   `bun:"name,notnull"`
	Email     string                   `bun:"email"`
	Phone     string                   `bun:"phone"`
	Status    contractx.CustomerStatus `bun:"status,notnull,default:'active'"`
	CreatedAt time.Time                `bun:"created_at,notnull"`
	UpdatedAt time.Time                `bun:"updated_at,notnull"`
}

type ticketModel struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID         int64                  `bun:"id,pk,autoincrement"`
	CustomerID int64                  `bun:"customer_id,notnull"`
	Issue      string                 `bun:"issue,notnull"`
	Status     contractx.TicketStatus `bun:"status,notnull,default:'open'"`
	Priority   contractx.Priority     `bun:"priority,notnull,default:'medium'"`
	CreatedAt  time.Time              `bun:"created_at,notnull"`
}

func (m customerModel) toContract() contractx.Customer {
	return contractx.Customer{
		ID:        int(m.ID),
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func (m ticketModel) toContract() contractx.Ticket {
	return contractx.Ticket{
		ID:         int(m.ID),
		CustomerID: int(m.CustomerID),
		Issue:      m.Issue,
		Status:     m.Status,
		Priority:   m.Priority,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

func customerFromContract(c contractx.Customer) customerModel {
	return customerModel{
		ID:        int64(c.ID),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func ticketFromContract(t contractx.Ticket) ticketModel {
	return ticketModel{
		ID:         int64(t.ID),
		CustomerID: int64(t.CustomerID),
		Issue:      t.Issue,
		Status:     t.Status,
		Priority:   t.Priority,
		CreatedAt:  t.CreatedAt.UTC(),
	}
}
