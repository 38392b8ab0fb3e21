package chat

import (
	"time"

	"crm-dashboard-service/internal/domain/customer"
)

const (
	TypeIncoming = "incoming"
	TypeOutgoing = "outgoing"

	SentViaAPI = "api"

	// ClassificationDeliveryFailed marks an outgoing entry the gateway did not accept.
	ClassificationDeliveryFailed = "delivery_failed"
)

// Message is one append-only chat_history row.
type Message struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customer_id"`
	MessageType    string    `json:"message_type"`
	Content        *string   `json:"content"`
	Escalated      *bool     `json:"escalated"`
	Classification *string   `json:"classification"`
	SentVia        *string   `json:"sent_via,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// History is a customer header followed by messages, newest first.
type History struct {
	Customer customer.Summary `json:"customer"`
	Chats    []Message        `json:"chats"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type HistoryFilters struct {
	Limit  *int `form:"limit"`
	Offset *int `form:"offset"`
}
