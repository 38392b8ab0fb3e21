package stats

import "time"

// UnassignedKey replaces a NULL tier or status in grouped counts.
const UnassignedKey = "unassigned"

// TrendDays is the length of the customer creation trend, today included.
const TrendDays = 7

// DistributionRanges are the message-count buckets in report order.
var DistributionRanges = []string{"0-10", "11-20", "21-50", "51-100", "100+"}

// Report is the dashboard summary. Every field is filled on success.
type Report struct {
	TotalCustomers  int64 `json:"total_customers"`
	TotalLeads      int64 `json:"total_leads"`
	OpenEscalations int64 `json:"open_escalations"`
	TodayChats      int64 `json:"today_chats"`
	TotalMessages   int64 `json:"total_messages"`

	CustomersByPriority map[string]int64 `json:"customers_by_priority"`
	LeadsByStatus       map[string]int64 `json:"leads_by_status"`

	CustomerTrend       []TrendPoint  `json:"customer_trend"`
	MessageDistribution []RangeCount  `json:"message_distribution"`
	TopCustomers        []TopCustomer `json:"top_customers"`
	TopLeads            []TopLead     `json:"top_leads"`

	GeneratedAt time.Time `json:"generated_at"`
}

type TrendPoint struct {
	Day   string `json:"day"`  // 2006-01-02
	Label string `json:"date"` // Jan 02
	Count int64  `json:"count"`
}

type RangeCount struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type TopCustomer struct {
	ID           int64   `json:"id"`
	Name         *string `json:"name"`
	Phone        string  `json:"phone"`
	MessageCount *int64  `json:"message_count"`
}

type TopLead struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	MarketSegment *string  `json:"market_segment"`
	LeadScore     *float64 `json:"lead_score"`
}
