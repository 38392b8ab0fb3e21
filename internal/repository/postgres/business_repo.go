// internal/repository/postgres/business_repo.go
package postgres

import (
	"context"
	"fmt"

	"crm-dashboard-service/internal/domain/business"
	"crm-dashboard-service/internal/pkg/querybuilder"
)

// leadGate keeps businesses without a usable phone out of every lead query.
const leadGate = "has_phone = true"

const businessColumns = `id, name, phone, formatted_phone_number, address, market_segment,
	lead_score::float8 AS lead_score, status, rating::float8 AS rating, user_ratings_total, contact_attempts, last_contacted,
	message_sent, created_at`

// BusinessFilter is a validated lead list filter.
type BusinessFilter struct {
	Search   string
	Statuses []string
	Created  querybuilder.DateRange
}

type BusinessRepository struct {
	db *DB
}

func NewBusinessRepository(db *DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func businessQuery(columns string, f BusinessFilter) *querybuilder.Builder {
	return querybuilder.New(columns, "businesses", leadGate).
		Search(f.Search, "name", "phone", "address").
		In("status", f.Statuses).
		DateRange("created_at", f.Created).
		OrderBy("lead_score DESC NULLS LAST", "created_at DESC", "id DESC")
}

// List returns one page of leads and the total matching the filter.
func (r *BusinessRepository) List(ctx context.Context, f BusinessFilter, page querybuilder.Page) ([]business.Business, int64, error) {
	data, count := businessQuery(businessColumns, f).Build(page)

	leads := []business.Business{}
	var total int64

	err := r.db.WithConn(ctx, func(q Querier) error {
		rows, err := q.Query(ctx, data.SQL, data.Args...)
		if err != nil {
			return fmt.Errorf("failed to list businesses: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var b business.Business
			if err := rows.Scan(
				&b.ID, &b.Name, &b.Phone, &b.FormattedPhoneNumber, &b.Address, &b.MarketSegment,
				&b.LeadScore, &b.Status, &b.Rating, &b.UserRatingsTotal, &b.ContactAttempts, &b.LastContacted,
				&b.MessageSent, &b.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to scan business: %w", err)
			}
			leads = append(leads, b)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate businesses: %w", err)
		}

		total, err = countRows(ctx, q, count.SQL, count.Args)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}
