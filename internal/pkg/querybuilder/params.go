package querybuilder

import (
	"strings"
	"time"

	xerrors "crm-dashboard-service/internal/pkg/errors"
)

const dateLayout = "2006-01-02"

// Page is a validated limit/offset pair.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PageRules sets the default and the hard ceiling for a list endpoint.
type PageRules struct {
	DefaultLimit int
	MaxLimit     int
}

var (
	// ListPageRules apply to customers, businesses and escalations.
	ListPageRules = PageRules{DefaultLimit: 100, MaxLimit: 500}
	// HistoryPageRules apply to a single customer's chat history.
	HistoryPageRules = PageRules{DefaultLimit: 50, MaxLimit: 200}
)

// ParsePage validates caller-supplied pagination. Nil values take defaults;
// out-of-range values are rejected, never clamped.
func ParsePage(limit, offset *int, rules PageRules) (Page, error) {
	p := Page{Limit: rules.DefaultLimit}

	if limit != nil {
		if *limit < 1 || *limit > rules.MaxLimit {
			return Page{}, xerrors.InvalidFilter("limit must be between 1 and %d", rules.MaxLimit)
		}
		p.Limit = *limit
	}
	if offset != nil {
		if *offset < 0 {
			return Page{}, xerrors.InvalidFilter("offset must not be negative")
		}
		p.Offset = *offset
	}

	return p, nil
}

// DateRange holds normalized YYYY-MM-DD bounds; an empty side is open.
// Zone is the IANA name of the calendar the bounds are days of.
type DateRange struct {
	From string
	To   string
	Zone string
}

// ParseDateRange validates date_from/date_to as calendar days in loc. Both a
// plain date and an RFC3339 timestamp are accepted; a timestamp is moved
// into loc before its date is taken.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := DateRange{Zone: loc.String()}

	f, err := parseDay("date_from", from, loc)
	if err != nil {
		return r, err
	}
	t, err := parseDay("date_to", to, loc)
	if err != nil {
		return r, err
	}

	if !f.IsZero() && !t.IsZero() && f.After(t) {
		return r, xerrors.InvalidFilter("date_from %s is after date_to %s", from, to)
	}
	if !f.IsZero() {
		r.From = f.Format(dateLayout)
	}
	if !t.IsZero() {
		r.To = t.Format(dateLayout)
	}
	return r, nil
}

func parseDay(name, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if d, err := time.Parse(dateLayout, value); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		ts = ts.In(loc)
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, xerrors.InvalidFilter("%s must be a date in YYYY-MM-DD format, got %q", name, value)
}

// SplitValues turns "high, urgent" into ["high", "urgent"], dropping blanks.
func SplitValues(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
