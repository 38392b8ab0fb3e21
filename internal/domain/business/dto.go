package business

type BusinessListFilters struct {
	Search   string `form:"search"` // name, phone or address
	Status   string `form:"status"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Limit    *int   `form:"limit"`
	Offset   *int   `form:"offset"`
}

type BusinessListResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int64      `json:"total"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}
