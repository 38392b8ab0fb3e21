package customer

type CustomerListFilters struct {
	Search   string `form:"search"`   // name or phone
	Priority string `form:"priority"` // one tier or a comma separated list
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Limit    *int   `form:"limit"`
	Offset   *int   `form:"offset"`
}

type CustomerListResponse struct {
	Customers []Customer `json:"customers"`
	Total     int64      `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
