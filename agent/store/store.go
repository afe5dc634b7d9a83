package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultListLimit = 20
)

type Config struct {
	Driver string `envconfig:"DRIVER" split_words:"true" default:"sqlite"`
	DSN    string `envconfig:"DSN" split_words:"true" default:"file:support.db"`
	Seed   bool   `envconfig:"SEED" split_words:"true" default:"false"`
}

// BunStore implements contractx.Store on top of bun for PostgreSQL and SQLite.
type BunStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ contractx.Store = (*BunStore)(nil)

func Open(cfg Config) (*BunStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: store dsn is required", contractx.ErrValidation)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		return New(bun.NewDB(sqldb, pgdialect.New())), nil
	case DriverSQLite, "":
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// one connection keeps in-memory databases shared and serializes writers
		sqldb.SetMaxOpenConns(1)
		return New(bun.NewDB(sqldb, sqlitedialect.New())), nil
	default:
		return nil, fmt.Errorf("%w: unsupported store driver=%q", contractx.ErrValidation, cfg.Driver)
	}
}

func New(db *bun.DB) *BunStore {
	return &BunStore{db: db, now: time.Now}
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*customerModel)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create customers table: %v", contractx.ErrStore, err)
	}
	if _, err := s.db.NewCreateTable().
		Model((*ticketModel)(nil)).
		IfNotExists().
		ForeignKey(`("customer_id") REFERENCES "customers" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create tickets table: %v", contractx.ErrStore, err)
	}
	log.Debug().Str("dialect", s.db.Dialect().Name().String()).Msg("store schema ready")
	return nil
}

// Seed inserts fixture rows with their explicit ids. Rows whose id already exists are
// left untouched, so seeding an existing database is a no-op.
func (s *BunStore) Seed(ctx context.Context, customers []contractx.Customer, tickets []contractx.Ticket) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(customers) > 0 {
			models := make([]customerModel, 0, len(customers))
			for _, c := range customers {
				models = append(models, customerFromContract(c))
			}
			if _, err := tx.NewInsert().Model(&models).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
				return fmt.Errorf("%w: seed customers: %v", contractx.ErrStore, err)
			}
		}
		if len(tickets) > 0 {
			models := make([]ticketModel, 0, len(tickets))
			for _, t := range tickets {
				models = append(models, ticketFromContract(t))
			}
			if _, err := tx.NewInsert().Model(&models).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
				return fmt.Errorf("%w: seed tickets: %v", contractx.ErrStore, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// explicit ids do not advance postgres serial sequences
	if s.db.Dialect().Name() == dialect.PG {
		for _, table := range []string{"customers", "tickets"} {
			if _, err := s.db.ExecContext(ctx,
				"SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM ?), 0) + 1, false)",
				table, bun.Ident(table),
			); err != nil {
				return fmt.Errorf("%w: reset %s sequence: %v", contractx.ErrStore, table, err)
			}
		}
	}

	log.Debug().Int("customers", len(customers)).Int("tickets", len(tickets)).Msg("store seeded")
	return nil
}

func (s *BunStore) GetCustomer(ctx context.Context, id int) (*contractx.Customer, error) {
	var m customerModel
	err := s.db.NewSelect().Model(&m).Where("c.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", contractx.ErrCustomerNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get customer id=%d: %v", contractx.ErrStore, id, err)
	}
	c := m.toContract()
	return &c, nil
}

// ListCustomers returns customers newest first. An empty status matches every
// customer; a non-positive limit falls back to 20.
func (s *BunStore) ListCustomers(ctx context.Context, status contractx.CustomerStatus, limit int) ([]contractx.Customer, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var models []customerModel
	q := s.db.NewSelect().Model(&models)
	if status != "" {
		q = q.Where("c.status = ?", status)
	}
	if err := q.OrderExpr("c.created_at DESC, c.id ASC").Limit(limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list customers status=%s: %v", contractx.ErrStore, status, err)
	}

	out := make([]contractx.Customer, 0, len(models))
	for _, m := range models {
		out = append(out, m.toContract())
	}
	return out, nil
}

// UpdateCustomer applies the non-nil fields and reports whether a row changed.
func (s *BunStore) UpdateCustomer(ctx context.Context, id int, fields contractx.CustomerUpdate) (bool, error) {
	if fields.Empty() {
		return false, nil
	}

	q := s.db.NewUpdate().Model((*customerModel)(nil))
	if fields.Name != nil {
		q = q.Set("name = ?", *fields.Name)
	}
	if fields.Email != nil {
		q = q.Set("email = ?", *fields.Email)
	}
	if fields.Phone != nil {
		q = q.Set("phone = ?", *fields.Phone)
	}
	if fields.Status != nil {
		q = q.Set("status = ?", *fields.Status)
	}
	q = q.Set("updated_at = ?", s.now().UTC()).Where("id = ?", id)

	res, err := q.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: update customer id=%d: %v", contractx.ErrStore, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: update customer id=%d rows affected: %v", contractx.ErrStore, id, err)
	}
	return n > 0, nil
}

func (s *BunStore) CreateTicket(
	ctx context.Context,
	customerID int,
	issue string,
	priority contractx.Priority,
) (*contractx.Ticket, error) {
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: got %q", contractx.ErrInvalidPriority, priority)
	}

	exists, err := s.db.NewSelect().Model((*customerModel)(nil)).Where("c.id = ?", customerID).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: check customer id=%d: %v", contractx.ErrStore, customerID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: id=%d", contractx.ErrCustomerNotFound, customerID)
	}

	m := ticketModel{
		CustomerID: int64(customerID),
		Issue:      issue,
		Status:     contractx.TicketOpen,
		Priority:   priority,
		CreatedAt:  s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: create ticket customer_id=%d: %v", contractx.ErrStore, customerID, err)
	}

	t := m.toContract()
	return &t, nil
}

// GetCustomerHistory returns the customer's tickets, most recent first.
func (s *BunStore) GetCustomerHistory(ctx context.Context, customerID int) ([]contractx.Ticket, error) {
	var models []ticketModel
	err := s.db.NewSelect().
		Model(&models).
		Where("t.customer_id = ?", customerID).
		OrderExpr("t.created_at DESC, t.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: customer history id=%d: %v", contractx.ErrStore, customerID, err)
	}

	out := make([]contractx.Ticket, 0, len(models))
	for _, m := range models {
		out = append(out, m.toContract())
	}
	return out, nil
}
