// internal/domain/customer/entity.go
package customer

import "time"

// Customer is a WhatsApp contact with its conversation state.
type Customer struct {
	ID       int64   `json:"id" db:"id"`
	Phone    string  `json:"phone" db:"phone"`
	Name     *string `json:"name" db:"name"`
	Location *string `json:"location" db:"location"`

	// Conversation state
	ConversationStage *string `json:"conversation_stage" db:"conversation_stage"`
	IsCooldownActive  *bool   `json:"is_cooldown_active" db:"is_cooldown_active"`
	MessageCountToday *int64  `json:"message_count_today" db:"message_count_today"`
	TotalMessages     *int64  `json:"total_messages" db:"total_messages"`
	CustomerPriority  *string `json:"customer_priority" db:"customer_priority"`

	// Timestamps
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	LastInteraction *time.Time `json:"last_interaction" db:"last_interaction"`
}

// Summary is the customer header shown above a conversation.
type Summary struct {
	ID    int64   `json:"id"`
	Phone string  `json:"phone"`
	Name  *string `json:"name"`
}
