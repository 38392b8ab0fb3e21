// internal/repository/postgres/escalation_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-dashboard-service/internal/domain/escalation"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/querybuilder"

	"github.com/jackc/pgx/v5"
)

const escalationColumns = `e.id, e.customer_id, e.escalation_type, e.priority_level, e.status,
	e.escalation_reason, e.created_at, e.resolved_at, e.response_time_minutes::float8,
	c.name AS customer_name, c.phone AS customer_phone`

const escalationFrom = "escalations e LEFT JOIN customers c ON e.customer_id = c.id"

// urgent first, then high, then everything else
const escalationRank = "CASE e.priority_level WHEN 'urgent' THEN 1 WHEN 'high' THEN 2 ELSE 3 END"

// EscalationFilter is a validated escalation list filter.
type EscalationFilter struct {
	Statuses   []string
	Priorities []string
}

type EscalationRepository struct {
	db *DB
}

func NewEscalationRepository(db *DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

// List returns one page of escalations joined with their customer.
func (r *EscalationRepository) List(ctx context.Context, f EscalationFilter, page querybuilder.Page) ([]escalation.Escalation, int64, error) {
	data, count := querybuilder.New(escalationColumns, escalationFrom, "").
		In("e.status", f.Statuses).
		In("e.priority_level", f.Priorities).
		OrderBy(escalationRank, "e.created_at DESC", "e.id DESC").
		Build(page)

	items := []escalation.Escalation{}
	var total int64

	err := r.db.WithConn(ctx, func(q Querier) error {
		rows, err := q.Query(ctx, data.SQL, data.Args...)
		if err != nil {
			return fmt.Errorf("failed to list escalations: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var e escalation.Escalation
			if err := rows.Scan(
				&e.ID, &e.CustomerID, &e.EscalationType, &e.PriorityLevel, &e.Status,
				&e.EscalationReason, &e.CreatedAt, &e.ResolvedAt, &e.ResponseTimeMinutes,
				&e.CustomerName, &e.CustomerPhone,
			); err != nil {
				return fmt.Errorf("failed to scan escalation: %w", err)
			}
			items = append(items, e)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate escalations: %w", err)
		}

		total, err = countRows(ctx, q, count.SQL, count.Args)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Resolve moves an escalation to resolved, stamping resolved_at and the
// minutes since creation. The row is locked first, so of two concurrent
// resolves one performs the transition and the other reads the committed
// result back with the already-resolved flag set.
func (r *EscalationRepository) Resolve(ctx context.Context, id int64) (*escalation.ResolveResult, error) {
	lockQuery := `
		SELECT id, customer_id, escalation_type, priority_level, status, escalation_reason,
		       created_at, resolved_at, response_time_minutes::float8
		FROM escalations
		WHERE id = $1
		FOR UPDATE
	`
	updateQuery := `
		UPDATE escalations
		SET status = 'resolved',
		    resolved_at = NOW(),
		    response_time_minutes = EXTRACT(EPOCH FROM (NOW() - created_at)) / 60
		WHERE id = $1
		RETURNING id, customer_id, escalation_type, priority_level, status, escalation_reason,
		          created_at, resolved_at, response_time_minutes::float8
	`

	var e escalation.Escalation
	already := false

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := scanEscalation(tx.QueryRow(ctx, lockQuery, id), &e); err != nil {
			return err
		}
		if e.Status == escalation.StatusResolved {
			already = true
			return nil
		}
		return scanEscalation(tx.QueryRow(ctx, updateQuery, id), &e)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve escalation: %w", err)
	}

	return &escalation.ResolveResult{Escalation: &e, AlreadyResolved: already}, nil
}

func scanEscalation(row pgx.Row, e *escalation.Escalation) error {
	return row.Scan(
		&e.ID, &e.CustomerID, &e.EscalationType, &e.PriorityLevel, &e.Status, &e.EscalationReason,
		&e.CreatedAt, &e.ResolvedAt, &e.ResponseTimeMinutes,
	)
}
