package customer

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"crm-dashboard-service/internal/domain/customer"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/repository/postgres"

	"github.com/lib/pq"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func newCustomerService(t *testing.T, loc *time.Location) (*CustomerService, pgxmock.PgxConnIface) {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	repo := postgres.NewCustomerRepository(postgres.NewConnDB(mock))
	return NewCustomerService(repo, loc, zap.NewNop()), mock
}

func TestFilterFromQuery(t *testing.T) {
	f, err := FilterFromQuery(&customer.CustomerListFilters{
		Search:   " budi ",
		Priority: "high, urgent",
		DateFrom: "2026-10-01",
		DateTo:   "2026-10-19T23:00:00Z",
	}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "urgent"}, f.Priorities)
	assert.Equal(t, "2026-10-01", f.Created.From)
	assert.Equal(t, "2026-10-19", f.Created.To)
	assert.Equal(t, "UTC", f.Created.Zone)

	_, err = FilterFromQuery(&customer.CustomerListFilters{DateFrom: "2026-10-20", DateTo: "2026-10-19"}, time.UTC)
	assert.ErrorIs(t, err, xerrors.ErrInvalidFilter)
}

func TestListCustomers_RejectsBadPageBeforeQuerying(t *testing.T) {
	svc, mock := newCustomerService(t, time.UTC)

	for _, f := range []customer.CustomerListFilters{
		{Limit: intPtr(501)},
		{Limit: intPtr(0)},
		{Offset: intPtr(-1)},
		{DateTo: "yesterday"},
	} {
		_, err := svc.ListCustomers(context.Background(), &f)
		assert.ErrorIs(t, err, xerrors.ErrInvalidFilter)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCustomers_MultiplePriorities(t *testing.T) {
	svc, mock := newCustomerService(t, time.UTC)

	mock.ExpectQuery(`customer_priority = ANY\(\$1\)`).
		WithArgs(pq.Array([]string{"high", "urgent"}), 100, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(pq.Array([]string{"high", "urgent"})).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	res, err := svc.ListCustomers(context.Background(), &customer.CustomerListFilters{Priority: "high,urgent"})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Limit)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Customers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCustomers_DatesUseServiceZone(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	svc, mock := newCustomerService(t, jakarta)

	// 18:00 UTC on the 18th is the 19th in Jakarta
	mock.ExpectQuery(`DATE\(created_at AT TIME ZONE \$1\) >= \$2::date`).
		WithArgs("Asia/Jakarta", "2026-10-19", 100, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("Asia/Jakarta", "2026-10-19").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	_, err = svc.ListCustomers(context.Background(), &customer.CustomerListFilters{DateFrom: "2026-10-18T18:00:00Z"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomer_NotFound(t *testing.T) {
	svc, mock := newCustomerService(t, time.UTC)
	mock.ExpectQuery(`FROM customers WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := svc.GetCustomer(context.Background(), 1)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
