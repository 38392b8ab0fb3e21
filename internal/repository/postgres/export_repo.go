// internal/repository/postgres/export_repo.go
package postgres

import (
	"context"
	"fmt"

	"crm-dashboard-service/internal/pkg/csvexport"
	"crm-dashboard-service/internal/pkg/querybuilder"
)

// ChatExportFilter narrows the chat history export.
type ChatExportFilter struct {
	CustomerID *int64
	Created    querybuilder.DateRange
}

// ExportRepository reads whole filtered result sets as ordered records.
// Column order of each statement is the field order of its records.
type ExportRepository struct {
	db *DB
}

func NewExportRepository(db *DB) *ExportRepository {
	return &ExportRepository{db: db}
}

func (r *ExportRepository) Customers(ctx context.Context, f CustomerFilter) ([]csvexport.Record, error) {
	st := customerQuery(`id, phone, name, location, conversation_stage, customer_priority,
		message_count_today, total_messages, created_at, last_interaction`, f).
		OrderBy("created_at DESC", "id DESC").
		BuildAll()
	return r.records(ctx, st)
}

func (r *ExportRepository) Businesses(ctx context.Context, f BusinessFilter) ([]csvexport.Record, error) {
	st := businessQuery(`id, name, phone, address, market_segment, lead_score::float8 AS lead_score, status, rating::float8 AS rating,
		contact_attempts, message_sent, created_at`, f).
		OrderBy("created_at DESC", "id DESC").
		BuildAll()
	return r.records(ctx, st)
}

func (r *ExportRepository) ChatHistory(ctx context.Context, f ChatExportFilter) ([]csvexport.Record, error) {
	st := querybuilder.New(`ch.id, c.name AS customer_name, c.phone AS customer_phone,
		ch.message_type, ch.content, ch.classification, ch.created_at`,
		"chat_history ch LEFT JOIN customers c ON ch.customer_id = c.id", "").
		EqualsID("ch.customer_id", f.CustomerID).
		DateRange("ch.created_at", f.Created).
		OrderBy("ch.created_at DESC", "ch.id DESC").
		BuildAll()
	return r.records(ctx, st)
}

// records decodes any result set generically, keyed by the returned column
// names. Numeric columns are cast to float8 in the statements so every value
// is a plain Go scalar.
func (r *ExportRepository) records(ctx context.Context, st querybuilder.Statement) ([]csvexport.Record, error) {
	var out []csvexport.Record

	err := r.db.WithConn(ctx, func(q Querier) error {
		rows, err := q.Query(ctx, st.SQL, st.Args...)
		if err != nil {
			return fmt.Errorf("failed to run export query: %w", err)
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return fmt.Errorf("failed to decode export row: %w", err)
			}
			rec := csvexport.NewRecord()
			for i, fd := range fields {
				v := values[i]
				if b, ok := v.([]byte); ok {
					v = string(b)
				}
				rec.Set(fd.Name, v)
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
