// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-dashboard-service/internal/domain/customer"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/querybuilder"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, phone, name, location, conversation_stage, last_interaction,
	is_cooldown_active, message_count_today, customer_priority, created_at, total_messages`

// CustomerFilter is a validated customer list filter.
type CustomerFilter struct {
	Search     string
	Priorities []string
	Created    querybuilder.DateRange
}

type CustomerRepository struct {
	db *DB
}

func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func customerQuery(columns string, f CustomerFilter) *querybuilder.Builder {
	return querybuilder.New(columns, "customers", "").
		Search(f.Search, "name", "phone").
		In("customer_priority", f.Priorities).
		DateRange("created_at", f.Created).
		OrderBy("last_interaction DESC NULLS LAST", "id DESC")
}

// List returns one page of customers and the total matching the filter.
func (r *CustomerRepository) List(ctx context.Context, f CustomerFilter, page querybuilder.Page) ([]customer.Customer, int64, error) {
	data, count := customerQuery(customerColumns, f).Build(page)

	customers := []customer.Customer{}
	var total int64

	err := r.db.WithConn(ctx, func(q Querier) error {
		rows, err := q.Query(ctx, data.SQL, data.Args...)
		if err != nil {
			return fmt.Errorf("failed to list customers: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var c customer.Customer
			if err := scanCustomer(rows, &c); err != nil {
				return err
			}
			customers = append(customers, c)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate customers: %w", err)
		}

		total, err = countRows(ctx, q, count.SQL, count.Args)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// FindByID retrieves a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	var c customer.Customer
	err := r.db.WithConn(ctx, func(q Querier) error {
		return scanCustomer(q.QueryRow(ctx, query, id), &c)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Exists reports whether a customer row with id is present.
func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.WithConn(ctx, func(q Querier) error {
		return q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return exists, nil
}

func scanCustomer(s pgx.Row, c *customer.Customer) error {
	err := s.Scan(
		&c.ID, &c.Phone, &c.Name, &c.Location, &c.ConversationStage, &c.LastInteraction,
		&c.IsCooldownActive, &c.MessageCountToday, &c.CustomerPriority, &c.CreatedAt, &c.TotalMessages,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to scan customer: %w", err)
	}
	return nil
}
