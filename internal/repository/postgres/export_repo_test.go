package postgres

import (
	"context"
	"testing"
	"time"

	"crm-dashboard-service/internal/pkg/csvexport"
	"crm-dashboard-service/internal/pkg/querybuilder"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportRepository_CustomersKeepColumnOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExportRepository(db)

	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM customers WHERE 1=1 AND customer_priority = \$1 ORDER BY created_at DESC, id DESC$`).
		WithArgs("high").
		WillReturnRows(pgxmock.NewRows([]string{"id", "phone", "name", "created_at"}).
			AddRow(int64(1), "62811001", []byte("Budi"), created))

	recs, err := repo.Customers(context.Background(), CustomerFilter{Priorities: []string{"high"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	var keys []string
	for pair := recs[0].Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"id", "phone", "name", "created_at"}, keys)

	name, _ := recs[0].Get("name")
	assert.Equal(t, "Budi", name)

	out, err := csvexport.Encode(recs)
	require.NoError(t, err)
	assert.Equal(t, "id,phone,name,created_at\n1,62811001,Budi,2026-10-01T09:00:00Z\n", string(out))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepository_BusinessesEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExportRepository(db)

	mock.ExpectQuery(`FROM businesses WHERE has_phone = true ORDER BY created_at DESC, id DESC$`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

	recs, err := repo.Businesses(context.Background(), BusinessFilter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepository_ChatHistoryFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExportRepository(db)

	id := int64(7)
	mock.ExpectQuery(`FROM chat_history ch LEFT JOIN customers c ON ch.customer_id = c.id WHERE 1=1 AND ch.customer_id = \$1 AND DATE\(ch.created_at AT TIME ZONE \$2\) <= \$3::date`).
		WithArgs(int64(7), "Asia/Jakarta", "2026-10-19").
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_name"}).AddRow(int64(1), nil))

	recs, err := repo.ChatHistory(context.Background(), ChatExportFilter{
		CustomerID: &id,
		Created:    querybuilder.DateRange{To: "2026-10-19", Zone: "Asia/Jakarta"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	v, ok := recs[0].Get("customer_name")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}
