package escalation

import "time"

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"

	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
)

// Escalation is a customer interaction flagged for human follow-up.
type Escalation struct {
	ID               int64     `json:"id"`
	CustomerID       int64     `json:"customer_id"`
	EscalationType   *string   `json:"escalation_type"`
	PriorityLevel    *string   `json:"priority_level"`
	Status           string    `json:"status"`
	EscalationReason *string   `json:"escalation_reason"`
	CreatedAt        time.Time `json:"created_at"`

	// Set once on resolution
	ResolvedAt          *time.Time `json:"resolved_at"`
	ResponseTimeMinutes *float64   `json:"response_time_minutes"`

	// Joined customer identity
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
}

// ResolveResult reports whether the call performed the transition.
type ResolveResult struct {
	Escalation      *Escalation `json:"escalation"`
	AlreadyResolved bool        `json:"already_resolved"`
}
