package business

import "time"

// Business is a scraped business lead. Only rows with HasPhone are leads.
type Business struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	Phone                *string  `json:"phone"`
	FormattedPhoneNumber *string  `json:"formatted_phone_number"`
	Address              *string  `json:"address"`
	MarketSegment        *string  `json:"market_segment"`
	LeadScore            *float64 `json:"lead_score"`
	Status               *string  `json:"status"`

	// Engagement
	Rating           *float64   `json:"rating"`
	UserRatingsTotal *int64     `json:"user_ratings_total"`
	ContactAttempts  *int64     `json:"contact_attempts"`
	LastContacted    *time.Time `json:"last_contacted"`
	MessageSent      *bool      `json:"message_sent"`

	CreatedAt time.Time `json:"created_at"`
}
