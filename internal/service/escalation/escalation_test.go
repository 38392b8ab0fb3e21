package escalation

import (
	"context"
	"testing"
	"time"

	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/repository/postgres"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) { c.calls++ }

var resolveCols = []string{
	"id", "customer_id", "escalation_type", "priority_level", "status", "escalation_reason",
	"created_at", "resolved_at", "response_time_minutes",
}

func newEscalationService(t *testing.T, reports ReportInvalidator) (*EscalationService, pgxmock.PgxConnIface) {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	repo := postgres.NewEscalationRepository(postgres.NewConnDB(mock))
	return NewEscalationService(repo, reports, zap.NewNop()), mock
}

func TestResolveEscalation_InvalidatesReportOnce(t *testing.T) {
	reports := &countingInvalidator{}
	svc, mock := newEscalationService(t, reports)

	created := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	resolved := created.Add(10 * time.Minute)
	minutes := 10.0

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(resolveCols).AddRow(int64(5), int64(1), nil, nil, "open", nil, created, nil, nil))
	mock.ExpectQuery(`UPDATE escalations`).WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(resolveCols).AddRow(int64(5), int64(1), nil, nil, "resolved", nil, created, &resolved, &minutes))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(resolveCols).AddRow(int64(5), int64(1), nil, nil, "resolved", nil, created, &resolved, &minutes))
	mock.ExpectCommit()

	res, err := svc.ResolveEscalation(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, res.AlreadyResolved)
	assert.Equal(t, 1, reports.calls)

	res, err = svc.ResolveEscalation(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, res.AlreadyResolved)
	assert.Equal(t, 1, reports.calls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveEscalation_UnknownLeavesReport(t *testing.T) {
	reports := &countingInvalidator{}
	svc, mock := newEscalationService(t, reports)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(resolveCols))
	mock.ExpectRollback()

	_, err := svc.ResolveEscalation(context.Background(), 404)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.Zero(t, reports.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveEscalation_WithoutInvalidator(t *testing.T) {
	svc, mock := newEscalationService(t, nil)

	created := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	resolved := created.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(6)).
		WillReturnRows(pgxmock.NewRows(resolveCols).AddRow(int64(6), int64(1), nil, nil, "open", nil, created, nil, nil))
	mock.ExpectQuery(`UPDATE escalations`).WithArgs(int64(6)).
		WillReturnRows(pgxmock.NewRows(resolveCols).AddRow(int64(6), int64(1), nil, nil, "resolved", nil, created, &resolved, nil))
	mock.ExpectCommit()

	res, err := svc.ResolveEscalation(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, "resolved", res.Escalation.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
