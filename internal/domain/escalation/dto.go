package escalation

type EscalationListFilters struct {
	StatusFilter string `form:"status_filter"`
	Priority     string `form:"priority"`
	Limit        *int   `form:"limit"`
	Offset       *int   `form:"offset"`
}

type EscalationListResponse struct {
	Escalations []Escalation `json:"escalations"`
	Total       int64        `json:"total"`
	Limit       int          `json:"limit"`
	Offset      int          `json:"offset"`
}
