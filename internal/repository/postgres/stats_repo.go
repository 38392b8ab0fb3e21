// internal/repository/postgres/stats_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"crm-dashboard-service/internal/domain/stats"
)

const dayLayout = "2006-01-02"

type StatsRepository struct {
	db *DB
}

func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// aggregate is one named query of the dashboard report.
type aggregate struct {
	name string
	run  func(ctx context.Context, q Querier, rep *stats.Report) error
}

// Report runs every aggregate in order on one connection. now decides the
// calendar day in loc that "today" and the trend window refer to. The
// aggregates are not read in one snapshot; the first failure fails the report.
func (r *StatsRepository) Report(ctx context.Context, now time.Time, loc *time.Location) (*stats.Report, error) {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(stats.TrendDays - 1))
	zone := loc.String()

	steps := []aggregate{
		{"total_customers", func(ctx context.Context, q Querier, rep *stats.Report) error {
			return scanCount(ctx, q, &rep.TotalCustomers, `SELECT COUNT(*) FROM customers`)
		}},
		{"total_leads", func(ctx context.Context, q Querier, rep *stats.Report) error {
			return scanCount(ctx, q, &rep.TotalLeads, `SELECT COUNT(*) FROM businesses WHERE `+leadGate)
		}},
		{"open_escalations", func(ctx context.Context, q Querier, rep *stats.Report) error {
			return scanCount(ctx, q, &rep.OpenEscalations, `SELECT COUNT(*) FROM escalations WHERE status = 'open'`)
		}},
		{"today_chats", func(ctx context.Context, q Querier, rep *stats.Report) error {
			return scanCount(ctx, q, &rep.TodayChats,
				`SELECT COUNT(*) FROM chat_history WHERE DATE(created_at AT TIME ZONE $1) = $2::date`,
				zone, today.Format(dayLayout))
		}},
		{"total_messages", func(ctx context.Context, q Querier, rep *stats.Report) error {
			return scanCount(ctx, q, &rep.TotalMessages, `SELECT COALESCE(SUM(total_messages), 0)::bigint FROM customers`)
		}},
		{"customers_by_priority", func(ctx context.Context, q Querier, rep *stats.Report) (err error) {
			rep.CustomersByPriority, err = groupCounts(ctx, q,
				`SELECT customer_priority, COUNT(*) FROM customers GROUP BY customer_priority`)
			return err
		}},
		{"leads_by_status", func(ctx context.Context, q Querier, rep *stats.Report) (err error) {
			rep.LeadsByStatus, err = groupCounts(ctx, q,
				`SELECT status, COUNT(*) FROM businesses WHERE `+leadGate+` GROUP BY status`)
			return err
		}},
		{"customer_trend", func(ctx context.Context, q Querier, rep *stats.Report) (err error) {
			rep.CustomerTrend, err = customerTrend(ctx, q, zone, first, today)
			return err
		}},
		{"message_distribution", func(ctx context.Context, q Querier, rep *stats.Report) (err error) {
			rep.MessageDistribution, err = messageDistribution(ctx, q)
			return err
		}},
		{"top_customers", func(ctx context.Context, q Querier, rep *stats.Report) (err error) {
			rep.TopCustomers, err = topCustomers(ctx, q)
			return err
		}},
		{"top_leads", func(ctx context.Context, q Querier, rep *stats.Report) (err error) {
			rep.TopLeads, err = topLeads(ctx, q)
			return err
		}},
	}

	rep := &stats.Report{GeneratedAt: now.UTC()}
	err := r.db.WithConn(ctx, func(q Querier) error {
		for _, step := range steps {
			if err := step.run(ctx, q, rep); err != nil {
				return fmt.Errorf("aggregate %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rep, nil
}

func scanCount(ctx context.Context, q Querier, dst *int64, query string, args ...any) error {
	return q.QueryRow(ctx, query, args...).Scan(dst)
}

// groupCounts reads (key, count) rows into a map, reporting NULL keys as
// unassigned. Keys absent from the data are absent from the map.
func groupCounts(ctx context.Context, q Querier, query string) (map[string]int64, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var key *string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		k := stats.UnassignedKey
		if key != nil {
			k = *key
		}
		out[k] += n
	}
	return out, rows.Err()
}

// customerTrend counts customers created on each day from first to last in
// zone and fills the days without creations with zero.
func customerTrend(ctx context.Context, q Querier, zone string, first, last time.Time) ([]stats.TrendPoint, error) {
	rows, err := q.Query(ctx, `
		SELECT TO_CHAR(DATE(created_at AT TIME ZONE $1), 'YYYY-MM-DD') AS day, COUNT(*)
		FROM customers
		WHERE DATE(created_at AT TIME ZONE $1) BETWEEN $2::date AND $3::date
		GROUP BY day
	`, zone, first.Format(dayLayout), last.Format(dayLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var day string
		var n int64
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts[day] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	points := make([]stats.TrendPoint, 0, stats.TrendDays)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := d.Format(dayLayout)
		points = append(points, stats.TrendPoint{
			Day:   day,
			Label: d.Format("Jan 02"),
			Count: counts[day],
		})
	}
	return points, nil
}

// messageDistribution buckets customers by total_messages. Customers with
// no counter are left out; every bucket is returned, empty ones as zero.
func messageDistribution(ctx context.Context, q Querier) ([]stats.RangeCount, error) {
	rows, err := q.Query(ctx, `
		SELECT CASE
		           WHEN total_messages <= 10 THEN '0-10'
		           WHEN total_messages <= 20 THEN '11-20'
		           WHEN total_messages <= 50 THEN '21-50'
		           WHEN total_messages <= 100 THEN '51-100'
		           ELSE '100+'
		       END AS range,
		       COUNT(*)
		FROM customers
		WHERE total_messages IS NOT NULL
		GROUP BY range
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var label string
		var n int64
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]stats.RangeCount, 0, len(stats.DistributionRanges))
	for _, label := range stats.DistributionRanges {
		out = append(out, stats.RangeCount{Range: label, Count: counts[label]})
	}
	return out, nil
}

func topCustomers(ctx context.Context, q Querier) ([]stats.TopCustomer, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, phone, total_messages AS message_count
		FROM customers
		ORDER BY total_messages DESC NULLS LAST, id
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []stats.TopCustomer{}
	for rows.Next() {
		var c stats.TopCustomer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.MessageCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func topLeads(ctx context.Context, q Querier) ([]stats.TopLead, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, market_segment, lead_score::float8
		FROM businesses
		WHERE `+leadGate+`
		ORDER BY lead_score DESC NULLS LAST, id
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []stats.TopLead{}
	for rows.Next() {
		var l stats.TopLead
		if err := rows.Scan(&l.ID, &l.Name, &l.MarketSegment, &l.LeadScore); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
