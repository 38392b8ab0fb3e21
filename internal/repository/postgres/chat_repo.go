// internal/repository/postgres/chat_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-dashboard-service/internal/domain/chat"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/querybuilder"

	"github.com/jackc/pgx/v5"
)

type ChatRepository struct {
	db *DB
}

func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// History loads the customer header and one page of its messages, newest
// first. A missing customer is ErrNotFound.
func (r *ChatRepository) History(ctx context.Context, customerID int64, page querybuilder.Page) (*chat.History, error) {
	h := &chat.History{
		Chats:  []chat.Message{},
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	err := r.db.WithConn(ctx, func(q Querier) error {
		err := q.QueryRow(ctx,
			`SELECT id, phone, name FROM customers WHERE id = $1`, customerID,
		).Scan(&h.Customer.ID, &h.Customer.Phone, &h.Customer.Name)
		if errors.Is(err, pgx.ErrNoRows) {
			return xerrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}

		rows, err := q.Query(ctx, `
			SELECT id, customer_id, message_type, content, escalated, classification, sent_via, created_at
			FROM chat_history
			WHERE customer_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3
		`, customerID, page.Limit, page.Offset)
		if err != nil {
			return fmt.Errorf("failed to load chat history: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var m chat.Message
			if err := rows.Scan(
				&m.ID, &m.CustomerID, &m.MessageType, &m.Content, &m.Escalated,
				&m.Classification, &m.SentVia, &m.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to scan chat message: %w", err)
			}
			h.Chats = append(h.Chats, m)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate chat history: %w", err)
		}

		h.Total, err = countRows(ctx, q, `SELECT COUNT(*) FROM chat_history WHERE customer_id = $1`, []any{customerID})
		return err
	})
	if err != nil {
		return nil, err
	}

	return h, nil
}

// InsertOutgoing appends an outgoing api message. classification is nil for
// delivered messages.
func (r *ChatRepository) InsertOutgoing(ctx context.Context, customerID int64, content string, classification *string) (*chat.Message, error) {
	query := `
		INSERT INTO chat_history (customer_id, message_type, content, classification, sent_via, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	via := chat.SentViaAPI
	m := &chat.Message{
		CustomerID:     customerID,
		MessageType:    chat.TypeOutgoing,
		Content:        &content,
		Classification: classification,
		SentVia:        &via,
	}

	err := r.db.WithConn(ctx, func(q Querier) error {
		return q.QueryRow(ctx, query,
			customerID, chat.TypeOutgoing, content, classification, chat.SentViaAPI,
		).Scan(&m.ID, &m.CreatedAt)
	})
	if err != nil {
		return nil, xerrors.Wrap(xerrors.FromStore(err), "failed to record outgoing message")
	}

	return m, nil
}
